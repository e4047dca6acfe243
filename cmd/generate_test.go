package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumos-Labs-HQ/banksynth/internal/config"
	"github.com/Lumos-Labs-HQ/banksynth/internal/export"
	"github.com/Lumos-Labs-HQ/banksynth/internal/generator"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.StartDate = "2015-01-01"
	cfg.EndDate = "2024-12-31"
	cfg.Customers = 50
	cfg.Transactions = 200
	cfg.Volumes = config.Volumes{
		Merchants:          20,
		CreditApplications: 20,
		Interactions:       30,
		Campaigns:          5,
		Branches:           5,
		ATMs:               10,
	}
	cfg.Output.CSVDir = filepath.Join(dir, "ingestion")
	cfg.Output.Database = true
	cfg.Database.Provider = "sqlite"
	cfg.Database.URLEnv = "BANKSYNTH_TEST_DATABASE_URL"
	cfg.MetricsFile = filepath.Join(dir, "banksynth.prom")

	t.Setenv(cfg.Database.URLEnv, "sqlite://"+filepath.Join(dir, "bank.db"))
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunGenerate(t *testing.T) {
	generateQuiet = true
	t.Cleanup(func() { generateQuiet = false })

	cfg := smallConfig(t)
	ctx := context.Background()
	require.NoError(t, runGenerate(ctx, cfg, zap.NewNop()))

	manifest, err := export.ReadManifest(cfg.Output.CSVDir)
	require.NoError(t, err)
	require.Len(t, manifest.Tables, len(generator.Builders()))
	assert.Equal(t, int64(config.DefaultSeed), manifest.Seed)
	assert.Equal(t, "2024-12-31", manifest.EndDate)

	w, err := connectWriter(ctx, cfg)
	require.NoError(t, err)
	defer w.Close()

	for _, table := range manifest.Tables {
		assert.FileExists(t, filepath.Join(cfg.Output.CSVDir, table.Name+".csv"))

		count, err := w.CountRows(ctx, cfg.Database.Schema, table.Name)
		require.NoError(t, err, table.Name)
		assert.Equal(t, int64(table.Rows), count, table.Name)
	}

	metricsText, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), "banksynth_rows_generated_total")
}

func TestRunGenerateMissingDatabaseURL(t *testing.T) {
	generateQuiet = true
	t.Cleanup(func() { generateQuiet = false })

	cfg := smallConfig(t)
	cfg.Output.CSV = false
	t.Setenv(cfg.Database.URLEnv, "")

	err := runGenerate(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
