package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/database"
	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
	"github.com/Lumos-Labs-HQ/banksynth/internal/export"
	"github.com/Lumos-Labs-HQ/banksynth/internal/generator"
	"github.com/Lumos-Labs-HQ/banksynth/internal/geo"
	"github.com/Lumos-Labs-HQ/banksynth/internal/logger"
	"github.com/Lumos-Labs-HQ/banksynth/internal/metrics"
)

var (
	generateNoCSV bool
	generateQuiet bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the banking dataset",
	Long: `
Generate every banking table in dependency order, check referential integrity
and write the result to CSV files and/or a database schema.

Examples:
  banksynth generate
  banksynth generate --start-date 2015-01-01 --customers 500 --transactions 5000
  banksynth generate --db --no-csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if generateNoCSV {
			cfg.Output.CSV = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.Init(logger.ConfigFromEnv())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runGenerate(ctx, cfg, log)
	},
}

func runGenerate(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if !cfg.Output.CSV && !cfg.Output.Database {
		color.Yellow("⚠️  Both CSV and database output are disabled; the dataset will only be checked")
	}

	locations, err := geo.Load(cfg.LocationsPath)
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}

	bc, err := generator.ContextFromConfig(cfg, locations, time.Now())
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(log)
	gen := generator.NewDefault(generator.Options{
		Seed:    cfg.Seed,
		Logger:  log,
		Metrics: collector,
		Quiet:   generateQuiet,
	})

	set, err := gen.Run(ctx, bc)
	if err != nil {
		return err
	}

	opts := export.Options{Logger: log, Metrics: collector, Quiet: generateQuiet}

	if cfg.Output.CSV {
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}
		if _, err := export.ToCSV(cfg.Output.CSVDir, set, opts); err != nil {
			return err
		}

		manifest := export.NewManifest(set, cfg.Seed, bc.Start, bc.Horizon, time.Now())
		path, err := export.WriteManifest(cfg.Output.CSVDir, manifest)
		if err != nil {
			return err
		}
		log.Info("manifest written", zap.String("path", path))
	}

	if cfg.Output.Database {
		if err := writeDatabase(ctx, cfg, set, opts); err != nil {
			return err
		}
	}

	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

func connectWriter(ctx context.Context, cfg *config.Config) (database.Writer, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	w, err := database.NewWriter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}
	if err := w.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return w, nil
}

func writeDatabase(ctx context.Context, cfg *config.Config, set *dataset.Set, opts export.Options) error {
	w, err := connectWriter(ctx, cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	return export.ToDatabase(ctx, w, cfg.Database.Schema, set, opts)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("start-date", "", "First day of generated history, YYYY-MM-DD (default 2010-01-01)")
	generateCmd.Flags().String("end-date", "", "Horizon date, YYYY-MM-DD (default today)")
	generateCmd.Flags().Int("customers", 0, "Customer count (default 10000)")
	generateCmd.Flags().Int("transactions", 0, "Base transaction count; the final count is drawn from [n, 2n] (default 100000)")
	generateCmd.Flags().Int64("seed", config.DefaultSeed, "Random seed")
	generateCmd.Flags().String("out", "", "CSV output directory (default data/ingestion)")
	generateCmd.Flags().Bool("db", false, "Also write every table to the configured database schema")
	generateCmd.Flags().String("locations", "", "Location reference CSV (default bundled sample)")
	generateCmd.Flags().String("metrics-file", "", "Write generation metrics in Prometheus text format")
	generateCmd.Flags().BoolVar(&generateNoCSV, "no-csv", false, "Skip CSV output")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress progress output")

	for key, flag := range map[string]string{
		"start_date":      "start-date",
		"end_date":        "end-date",
		"customers":       "customers",
		"transactions":    "transactions",
		"seed":            "seed",
		"output.csv_dir":  "out",
		"output.database": "db",
		"locations_path":  "locations",
		"metrics_file":    "metrics-file",
	} {
		viper.BindPFlag(key, generateCmd.Flags().Lookup(flag))
	}
}
