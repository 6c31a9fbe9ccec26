package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/reconcile"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/store"
)

var (
	rcFrom      string
	rcTo        string
	rcCollapsed bool
)

// registerCmd represents the register command.
var registerCmd = &cobra.Command{
	Use:   "register <id|name>",
	Short: "Bind existing ledger vouchers to schedule items",
	Long: `Find vouchers tagged with the instrument's identity that no schedule
item references, and bind each to the unique matching unbound item.
Ambiguous vouchers are listed for manual registration.

Example:
  accounting register laptop --from 2024-01-01 --to 2024-12-31`,
	Args: cobra.ExactArgs(1),
	Run:  runRegister,
}

// updateCmd represents the update command.
var updateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Apply reconciliation: create and repair schedule vouchers",
	Long: `Ensure a voucher exists for every schedule item in the range,
creating missing ones and reconciling drifted detail lines. With
--collapsed, vouchers are posted undated.

Example:
  accounting update laptop --from 2024-01-01 --to 2024-12-31`,
	Args: cobra.ExactArgs(1),
	Run:  runUpdate,
}

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check <id|name>",
	Short: "Dry-run reconciliation: report what update would touch",
	Long: `Run reconciliation in edit-only mode: nothing is created and date
drift is tolerated. Items that would need creation or that cannot be
reconciled are listed.

Example:
  accounting check laptop`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

// resetCmd represents the reset command.
var resetCmd = &cobra.Command{
	Use:   "reset <soft|mixed|hard> <id|name>",
	Short: "Repair schedule/voucher references",
	Long: `Three escalating repair levels: soft unbinds items whose voucher
vanished; mixed additionally deletes still-existing bound vouchers before
unbinding; hard bulk-deletes every voucher matching the instrument's
generated signature and then soft-unbinds the orphans.

Example:
  accounting reset soft laptop`,
	Args: cobra.ExactArgs(2),
	Run:  runReset,
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, updateCmd, checkCmd, resetCmd} {
		c.Flags().StringVar(&rcFrom, "from", "", "start date (YYYY-MM-DD)")
		c.Flags().StringVar(&rcTo, "to", "", "end date (YYYY-MM-DD)")
	}
	updateCmd.Flags().BoolVar(&rcCollapsed, "collapsed", false, "post vouchers undated")
}

// reconcileRange includes undated items unless bounds are given.
func reconcileRange() query.DateRange {
	f := parseDate(rcFrom, "--from")
	t := parseDate(rcTo, "--to")
	if f == nil && t == nil {
		return query.Unconstrained()
	}
	return query.Between(f, t)
}

func runRegister(cmd *cobra.Command, args []string) {
	cfg, s := openStore()
	defer s.Close()

	inst := findInstrument(s, args[0])
	engine := reconcile.New(s, slog.Default())

	registered, manual, err := engine.RegisterVouchers(inst, reconcileRange(), nil)
	exitOnError(err, "failed to register vouchers")
	saveInstrument(s, inst)

	fmt.Printf("%d voucher(s) registered\n", registered)
	if len(manual) > 0 {
		fmt.Printf("%d voucher(s) need manual registration:\n", len(manual))
		titles := titlesFromConfig(cfg)
		for _, v := range manual {
			printVoucher(v, titles)
		}
	}
}

func runUpdate(cmd *cobra.Command, args []string) {
	_, s := openStore()
	defer s.Close()
	applyUpdate(s, args[0], rcCollapsed, false)
}

func runCheck(cmd *cobra.Command, args []string) {
	_, s := openStore()
	defer s.Close()
	applyUpdate(s, args[0], false, true)
}

func applyUpdate(s *store.Store, key string, collapsed, editOnly bool) {
	inst := findInstrument(s, key)
	engine := reconcile.New(s, slog.Default())

	rep, err := engine.Update(inst, reconcileRange(), collapsed, editOnly)
	exitOnError(err, "failed to reconcile")
	if !editOnly {
		saveInstrument(s, inst)
	}

	fmt.Printf("created %d, modified %d, failed %d\n", rep.Created, rep.Modified, len(rep.Failed))
	for _, f := range rep.Failed {
		fmt.Printf("  %s %-12s %s", formatDate(f.Item.Date), f.Item.Kind, f.Reason)
		if f.VoucherID != "" {
			fmt.Printf(" (voucher %s)", f.VoucherID)
		}
		fmt.Println()
	}
}

func runReset(cmd *cobra.Command, args []string) {
	_, s := openStore()
	defer s.Close()

	inst := findInstrument(s, args[1])
	engine := reconcile.New(s, slog.Default())
	rng := reconcileRange()

	switch args[0] {
	case "soft":
		n, err := engine.ResetSoft(inst, rng)
		exitOnError(err, "failed to reset")
		fmt.Printf("%d item(s) unbound\n", n)
	case "mixed":
		n, err := engine.ResetMixed(inst, rng)
		exitOnError(err, "failed to reset")
		fmt.Printf("%d item(s) unbound\n", n)
	case "hard":
		n, err := engine.ResetHard(inst, rng, nil)
		exitOnError(err, "failed to reset")
		fmt.Printf("%d voucher(s) deleted\n", n)
	default:
		exitOnError(fmt.Errorf("unknown reset level %q", args[0]), "reset")
	}
	saveInstrument(s, inst)
}
