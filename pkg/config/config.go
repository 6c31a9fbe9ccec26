// Package config provides configuration management for the bookkeeping
// application. It loads a YAML configuration file and applies environment
// overrides from the process environment or a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TitleEntry names one account code in the configuration file.
type TitleEntry struct {
	Title    int    `yaml:"title"`
	SubTitle int    `yaml:"subtitle,omitempty"`
	Name     string `yaml:"name"`
}

// Config represents the application configuration.
type Config struct {
	// DBPath is the SQLite ledger database location.
	DBPath string `yaml:"db_path"`
	// FinancialMonthStartDay is the day a financial month begins on.
	FinancialMonthStartDay int `yaml:"financial_month_start_day"`
	// BillingMonthStartDay is the day a billing month begins on.
	BillingMonthStartDay int `yaml:"billing_month_start_day"`
	// Titles is the account-code-to-name table.
	Titles []TitleEntry `yaml:"titles"`

	Debug bool `yaml:"-"`
}

// Load loads configuration from a YAML file, then applies environment
// overrides. The .env file in the current directory is loaded first when
// present; a missing configuration file yields defaults, not an error.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:                 "./accounting.db",
		FinancialMonthStartDay: 1,
		BillingMonthStartDay:   1,
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("ACCOUNTING_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ACCOUNTING_FINANCIAL_DAY"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCOUNTING_FINANCIAL_DAY: %w", err)
		}
		cfg.FinancialMonthStartDay = day
	}
	if v := os.Getenv("ACCOUNTING_BILLING_DAY"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCOUNTING_BILLING_DAY: %w", err)
		}
		cfg.BillingMonthStartDay = day
	}
	cfg.Debug = os.Getenv("DEBUG") == "true"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("missing required configuration: db_path")
	}
	if c.FinancialMonthStartDay < 1 || c.FinancialMonthStartDay > 28 {
		return fmt.Errorf("financial_month_start_day out of range: %d", c.FinancialMonthStartDay)
	}
	if c.BillingMonthStartDay < 1 || c.BillingMonthStartDay > 28 {
		return fmt.Errorf("billing_month_start_day out of range: %d", c.BillingMonthStartDay)
	}
	return nil
}
