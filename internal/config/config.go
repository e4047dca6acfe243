package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

type Config struct {
	StartDate     string   `json:"start_date" mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string   `json:"end_date" mapstructure:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Customers     int      `json:"customers" mapstructure:"customers" validate:"gt=0"`
	Transactions  int      `json:"transactions" mapstructure:"transactions" validate:"gt=0"`
	Seed          int64    `json:"seed" mapstructure:"seed"`
	LocationsPath string   `json:"locations_path" mapstructure:"locations_path"`
	MetricsFile   string   `json:"metrics_file" mapstructure:"metrics_file"`
	Output        Output   `json:"output" mapstructure:"output"`
	Database      Database `json:"database" mapstructure:"database"`
	Volumes       Volumes  `json:"volumes" mapstructure:"volumes"`
}

type Output struct {
	CSV      bool   `json:"csv" mapstructure:"csv"`
	CSVDir   string `json:"csv_dir" mapstructure:"csv_dir" validate:"required_if=CSV true"`
	Database bool   `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider" validate:"oneof=postgresql postgres mysql sqlite sqlite3"`
	URLEnv   string `json:"url_env" mapstructure:"url_env" validate:"required"`
	Schema   string `json:"schema" mapstructure:"schema" validate:"required,identifier"`
}

// Volumes are the base row counts of the schema-driven tables; most builders
// draw the final count from [n, 2n].
type Volumes struct {
	Merchants          int `json:"merchants" mapstructure:"merchants" validate:"gt=0"`
	CreditApplications int `json:"credit_applications" mapstructure:"credit_applications" validate:"gt=0"`
	Interactions       int `json:"interactions" mapstructure:"interactions" validate:"gt=0"`
	Campaigns          int `json:"campaigns" mapstructure:"campaigns" validate:"gt=0"`
	Branches           int `json:"branches" mapstructure:"branches" validate:"gt=0"`
	ATMs               int `json:"atms" mapstructure:"atms" validate:"gt=0"`
}

const (
	DefaultStartDate    = "2010-01-01"
	DefaultCustomers    = 10000
	DefaultTransactions = 100000
	DefaultSeed         = 42
)

func DefaultVolumes() Volumes {
	return Volumes{
		Merchants:          15000,
		CreditApplications: 10000,
		Interactions:       100000,
		Campaigns:          250,
		Branches:           500,
		ATMs:               2000,
	}
}

func Default() *Config {
	cfg := &Config{
		Seed:   DefaultSeed,
		Output: Output{CSV: true},
	}
	cfg.applyDefaults()
	return cfg
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !viper.IsSet("output.csv") {
		cfg.Output.CSV = true
	}
	if !viper.IsSet("seed") {
		cfg.Seed = DefaultSeed
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StartDate == "" {
		c.StartDate = DefaultStartDate
	}
	if c.Customers == 0 {
		c.Customers = DefaultCustomers
	}
	if c.Transactions == 0 {
		c.Transactions = DefaultTransactions
	}
	if c.Output.CSVDir == "" {
		c.Output.CSVDir = "data/ingestion"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Database.Schema == "" {
		c.Database.Schema = "bronze"
	}

	defaults := DefaultVolumes()
	if c.Volumes.Merchants == 0 {
		c.Volumes.Merchants = defaults.Merchants
	}
	if c.Volumes.CreditApplications == 0 {
		c.Volumes.CreditApplications = defaults.CreditApplications
	}
	if c.Volumes.Interactions == 0 {
		c.Volumes.Interactions = defaults.Interactions
	}
	if c.Volumes.Campaigns == 0 {
		c.Volumes.Campaigns = defaults.Campaigns
	}
	if c.Volumes.Branches == 0 {
		c.Volumes.Branches = defaults.Branches
	}
	if c.Volumes.ATMs == 0 {
		c.Volumes.ATMs = defaults.ATMs
	}
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return dataset.ValidIdentifier(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	start, end, err := c.Window(time.Now())
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("start_date %s must be before end date %s", start, end)
	}
	return nil
}

// Window returns the generation start date and horizon. An empty end_date
// means the calendar day of now.
func (c *Config) Window(now time.Time) (dataset.Date, dataset.Date, error) {
	start, err := dataset.ParseDate(c.StartDate)
	if err != nil {
		return dataset.Date{}, dataset.Date{}, fmt.Errorf("invalid start_date %q: %w", c.StartDate, err)
	}

	end := dataset.DateOf(now.UTC())
	if c.EndDate != "" {
		end, err = dataset.ParseDate(c.EndDate)
		if err != nil {
			return dataset.Date{}, dataset.Date{}, fmt.Errorf("invalid end_date %q: %w", c.EndDate, err)
		}
	}
	return start, end, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	if !c.Output.CSV || c.Output.CSVDir == "" || c.Output.CSVDir == "." {
		return nil
	}
	if err := os.MkdirAll(c.Output.CSVDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Output.CSVDir, err)
	}
	return nil
}
