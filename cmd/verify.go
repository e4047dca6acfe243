package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/export"
)

var verifyDir string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare database row counts with the CSV manifest",
	Long: `
Read manifest.yaml from the CSV output directory and compare the row count of
every listed table with SELECT COUNT(*) in the configured database schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dir := cfg.Output.CSVDir
		if verifyDir != "" {
			dir = verifyDir
		}
		manifest, err := export.ReadManifest(dir)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		w, err := connectWriter(ctx, cfg)
		if err != nil {
			return err
		}
		defer w.Close()

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tMANIFEST\tDATABASE\tSTATUS")
		fmt.Fprintln(tw, "-----\t--------\t--------\t------")

		mismatches := 0
		for _, table := range manifest.Tables {
			count, err := w.CountRows(ctx, cfg.Database.Schema, table.Name)
			status := color.GreenString("ok")
			switch {
			case err != nil:
				mismatches++
				status = color.RedString("missing")
			case count != int64(table.Rows):
				mismatches++
				status = color.RedString("mismatch")
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", table.Name, table.Rows, count, status)
		}
		tw.Flush()

		if mismatches > 0 {
			return fmt.Errorf("%d of %d tables differ from the manifest (seed %d, %s to %s)",
				mismatches, len(manifest.Tables), manifest.Seed, manifest.StartDate, manifest.EndDate)
		}
		color.Green("✅ All %d tables match the manifest", len(manifest.Tables))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyDir, "dir", "", "Directory holding manifest.yaml (default output.csv_dir)")
}
