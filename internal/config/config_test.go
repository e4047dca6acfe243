package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "2010-01-01", cfg.StartDate)
	assert.Equal(t, 10000, cfg.Customers)
	assert.Equal(t, 100000, cfg.Transactions)
	assert.Equal(t, "data/ingestion", cfg.Output.CSVDir)
	assert.Equal(t, "postgresql", cfg.Database.Provider)
	assert.Equal(t, "DATABASE_URL", cfg.Database.URLEnv)
	assert.Equal(t, "bronze", cfg.Database.Schema)
	assert.Equal(t, DefaultVolumes(), cfg.Volumes)
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("customers", 50)
	viper.Set("volumes.branches", 5)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Customers)
	assert.Equal(t, 5, cfg.Volumes.Branches)
	assert.Equal(t, 2000, cfg.Volumes.ATMs)
	assert.Equal(t, int64(DefaultSeed), cfg.Seed)
	assert.True(t, cfg.Output.CSV)
	assert.False(t, cfg.Output.Database)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "banksynth.config.json")
	content := `{
  "start_date": "2015-06-01",
  "end_date": "2020-01-01",
  "seed": 7,
  "output": {"csv": false, "database": true},
  "database": {"provider": "sqlite", "url_env": "BANK_DB", "schema": "raw"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(7), cfg.Seed)
	assert.False(t, cfg.Output.CSV)
	assert.True(t, cfg.Output.Database)
	assert.Equal(t, "sqlite", cfg.Database.Provider)
	assert.Equal(t, "raw", cfg.Database.Schema)

	start, end, err := cfg.Window(time.Now())
	require.NoError(t, err)
	assert.Equal(t, dataset.NewDate(2015, time.June, 1), start)
	assert.Equal(t, dataset.NewDate(2020, time.January, 1), end)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad start date", func(c *Config) { c.StartDate = "01/02/2010" }, true},
		{"start after end", func(c *Config) { c.StartDate = "2021-01-01"; c.EndDate = "2020-01-01" }, true},
		{"zero customers", func(c *Config) { c.Customers = -1 }, true},
		{"unknown provider", func(c *Config) { c.Database.Provider = "oracle" }, true},
		{"unsafe schema", func(c *Config) { c.Database.Schema = "bronze; drop" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWindowDefaultsToToday(t *testing.T) {
	cfg := Default()
	now := time.Date(2024, time.March, 9, 17, 45, 0, 0, time.UTC)

	_, end, err := cfg.Window(now)
	require.NoError(t, err)
	assert.Equal(t, dataset.NewDate(2024, time.March, 9), end)
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := Default()
	cfg.Database.URLEnv = "BANKSYNTH_TEST_DB_URL"

	t.Setenv("BANKSYNTH_TEST_DB_URL", "")
	_, err := cfg.GetDatabaseURL()
	assert.Error(t, err)

	t.Setenv("BANKSYNTH_TEST_DB_URL", "postgres://localhost/bank")
	url, err := cfg.GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/bank", url)
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.Output.CSVDir = filepath.Join(t.TempDir(), "data", "ingestion")

	require.NoError(t, cfg.EnsureDirectories())
	info, err := os.Stat(cfg.Output.CSVDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
