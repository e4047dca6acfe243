package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/export"
	"github.com/Lumos-Labs-HQ/banksynth/internal/fetch"
)

var (
	fetchCSV     bool
	fetchTimeout time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <sql>",
	Short: "Run a query against the generated database and print the result",
	Long: `
Run a SQL query against the configured database and print the rows as a table,
or as CSV with --csv.

Examples:
  banksynth fetch "SELECT segment, COUNT(*) FROM bronze.customers GROUP BY segment"
  banksynth fetch --csv "SELECT * FROM bronze.fraud_alerts" > alerts.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		db, err := fetch.Open(cfg.Database.Provider, dbURL)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
		defer cancel()

		result, err := fetch.Data(ctx, db, args[0])
		if err != nil {
			return err
		}

		if fetchCSV {
			return export.EncodeCSV(os.Stdout, result)
		}

		displayResultsTable(result)
		color.Green("📊 %d row(s) returned", result.Len())
		return nil
	},
}

// displayResultsTable prints query results as a boxed table.
func displayResultsTable(t *dataset.Table) {
	if t.Len() == 0 {
		return
	}

	colWidths := make(map[string]int)
	for _, col := range t.Columns {
		colWidths[col] = utf8.RuneCountInString(col)
	}

	for _, row := range t.Records {
		for _, col := range t.Columns {
			if n := utf8.RuneCountInString(dataset.FormatValue(row[col])); n > colWidths[col] {
				colWidths[col] = n
			}
		}
	}

	border := func(left, mid, right string) {
		fmt.Print(left)
		for i, col := range t.Columns {
			fmt.Print(strings.Repeat("─", colWidths[col]+2))
			if i < len(t.Columns)-1 {
				fmt.Print(mid)
			}
		}
		fmt.Println(right)
	}

	border("┌", "┬", "┐")
	fmt.Print("│")
	for _, col := range t.Columns {
		fmt.Printf(" %-*s │", colWidths[col], col)
	}
	fmt.Println()
	border("├", "┼", "┤")

	for _, row := range t.Records {
		fmt.Print("│")
		for _, col := range t.Columns {
			fmt.Printf(" %-*s │", colWidths[col], dataset.FormatValue(row[col]))
		}
		fmt.Println()
	}
	border("└", "┴", "┘")
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchCSV, "csv", false, "Print the result as CSV")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 5*time.Minute, "Query timeout")
}
