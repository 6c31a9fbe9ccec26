package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "./accounting.db", cfg.DBPath)
	assert.Equal(t, 1, cfg.FinancialMonthStartDay)
	assert.Equal(t, 1, cfg.BillingMonthStartDay)
	assert.False(t, cfg.Debug)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./accounting.db", cfg.DBPath)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounting.yaml")
	data := `
db_path: /var/lib/accounting/ledger.db
financial_month_start_day: 20
billing_month_start_day: 15
titles:
  - title: 1001
    name: Cash
  - title: 6602
    subtitle: 1
    name: Depreciation Expense
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/accounting/ledger.db", cfg.DBPath)
	assert.Equal(t, 20, cfg.FinancialMonthStartDay)
	assert.Equal(t, 15, cfg.BillingMonthStartDay)
	require.Len(t, cfg.Titles, 2)
	assert.Equal(t, "Cash", cfg.Titles[0].Name)
	assert.Equal(t, 1, cfg.Titles[1].SubTitle)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ACCOUNTING_DB_PATH", "/tmp/override.db")
	t.Setenv("ACCOUNTING_FINANCIAL_DAY", "10")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.FinancialMonthStartDay)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("ACCOUNTING_FINANCIAL_DAY", "twenty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidateRejectsOutOfRangeDays(t *testing.T) {
	cfg := &Config{DBPath: "x.db", FinancialMonthStartDay: 29, BillingMonthStartDay: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DBPath: "x.db", FinancialMonthStartDay: 1, BillingMonthStartDay: 0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DBPath: "x.db", FinancialMonthStartDay: 28, BillingMonthStartDay: 28}
	assert.NoError(t, cfg.Validate())
}

func TestTitlesLookup(t *testing.T) {
	titles := NewTitles([]TitleEntry{
		{Title: 1001, Name: "Cash"},
		{Title: 6602, Name: "Expenses"},
		{Title: 6602, SubTitle: 1, Name: "Depreciation"},
	})

	assert.Equal(t, "Cash", titles.Name(1001, 0))
	assert.Equal(t, "Expenses/Depreciation", titles.Name(6602, 1))
	assert.Equal(t, "660202", titles.Name(6602, 2), "unknown sub-title falls back to the numeric code")
	assert.Equal(t, "2001", titles.Name(2001, 0))
}
