package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
)

// depreciateCmd represents the depreciate command.
var depreciateCmd = &cobra.Command{
	Use:   "depreciate <id|name>",
	Short: "Recompute an asset's depreciation schedule",
	Long: `Regenerate the asset's automatic depreciation items with its
configured method and persist the schedule. Ignore-marked items survive.

Example:
  accounting depreciate laptop`,
	Args: cobra.ExactArgs(1),
	Run:  runDepreciate,
}

// amortizeCmd represents the amortize command.
var amortizeCmd = &cobra.Command{
	Use:   "amortize <id|name>",
	Short: "Recompute an amortization's period schedule",
	Long: `Regenerate the amortization's period items from its anchor date,
total day count and interval, and persist the schedule.

Example:
  accounting amortize insurance-2024`,
	Args: cobra.ExactArgs(1),
	Run:  runAmortize,
}

func runDepreciate(cmd *cobra.Command, args []string) {
	_, s := openStore()
	defer s.Close()

	inst := findInstrument(s, args[0])
	asset, ok := inst.(*distributed.Asset)
	if !ok {
		exitOnError(fmt.Errorf("%q is not an asset", args[0]), "depreciate")
	}

	exitOnError(asset.Depreciate(), "failed to depreciate")
	saveInstrument(s, asset)
	fmt.Printf("%d schedule item(s)\n", len(asset.Schedule))
}

func runAmortize(cmd *cobra.Command, args []string) {
	_, s := openStore()
	defer s.Close()

	inst := findInstrument(s, args[0])
	amort, ok := inst.(*distributed.Amortization)
	if !ok {
		exitOnError(fmt.Errorf("%q is not an amortization", args[0]), "amortize")
	}

	exitOnError(amort.Amortize(), "failed to amortize")
	saveInstrument(s, amort)
	fmt.Printf("%d schedule item(s)\n", len(amort.Schedule))
}
