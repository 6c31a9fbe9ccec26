// Package cmd provides CLI commands for the accounting tool.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/config"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/store"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "accounting",
	Short: "Personal bookkeeping with scheduled instruments",
	Long: `accounting is a personal bookkeeping tool: a voucher ledger, a
multi-dimensional subtotal engine, and a depreciation/amortization
scheduler that keeps computed schedules reconciled against generated
ledger vouchers.

Example:
  accounting list --from 2024-01-01 --to 2024-01-31
  accounting subtotal --levels title,month
  accounting update laptop --from 2024-01-01 --to 2024-12-31`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./accounting.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(subtotalCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(depreciateCmd)
	rootCmd.AddCommand(amortizeCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resetCmd)
}

// getConfigFile returns the config file path, defaulting to
// ./accounting.yaml.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "accounting.yaml"
}

// exitOnError handles errors and exits.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}

// openStore loads configuration and opens the ledger database.
func openStore() (*config.Config, *store.Store) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	slog.Debug("Opening database", "path", cfg.DBPath)
	s, err := store.Open(cfg.DBPath)
	exitOnError(err, "failed to open database")
	return cfg, s
}

// parseDate parses a YYYY-MM-DD flag value; empty means nil.
func parseDate(v, flag string) *time.Time {
	if v == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", v)
	exitOnError(err, fmt.Sprintf("invalid %s date %q", flag, v))
	return &d
}

// dateRange builds the filter range from --from/--to flag values.
// An empty range keeps undated vouchers out unless both bounds are empty.
func dateRange(from, to string) query.DateRange {
	f := parseDate(from, "--from")
	t := parseDate(to, "--to")
	if f == nil && t == nil {
		return query.Unconstrained()
	}
	return query.Between(f, t)
}

// findInstrument resolves an instrument by identifier or name, searching
// assets first, then amortizations.
func findInstrument(s *store.Store, key string) distributed.Instrument {
	var q query.DistributedQuery
	if id, err := uuid.Parse(key); err == nil {
		idStr := id.String()
		q = &query.DistributedAtom{ID: &idStr}
	} else {
		q = &query.DistributedAtom{Name: &key}
	}

	assets, err := s.SelectAssets(q)
	exitOnError(err, "failed to select assets")
	amorts, err := s.SelectAmortizations(q)
	exitOnError(err, "failed to select amortizations")

	switch len(assets) + len(amorts) {
	case 0:
		exitOnError(fmt.Errorf("no instrument matches %q", key), "instrument lookup")
	case 1:
	default:
		exitOnError(fmt.Errorf("%d instruments match %q", len(assets)+len(amorts), key), "instrument lookup")
	}
	if len(assets) == 1 {
		return assets[0]
	}
	return amorts[0]
}

// saveInstrument writes an instrument's schedule back to the store.
func saveInstrument(s *store.Store, inst distributed.Instrument) {
	switch i := inst.(type) {
	case *distributed.Asset:
		_, err := s.UpsertAsset(i)
		exitOnError(err, "failed to save asset")
	case *distributed.Amortization:
		_, err := s.UpsertAmortization(i)
		exitOnError(err, "failed to save amortization")
	}
}

// titlesFromConfig builds the account-name lookup service.
func titlesFromConfig(cfg *config.Config) *config.Titles {
	return config.NewTitles(cfg.Titles)
}

func formatDate(d *time.Time) string {
	if d == nil {
		return "[undated]"
	}
	return d.Format("2006-01-02")
}
