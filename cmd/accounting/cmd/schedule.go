package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
)

var scheduleDate string

// scheduleCmd represents the schedule command.
var scheduleCmd = &cobra.Command{
	Use:   "schedule <id|name>",
	Short: "Show an instrument's schedule and book value",
	Long: `Show a distributed instrument's regularized schedule. With --date,
also report the book value as of that date (an item dated exactly on the
query date counts as already applied).

Example:
  accounting schedule laptop --date 2024-06-30`,
	Args: cobra.ExactArgs(1),
	Run:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleDate, "date", "", "as-of date (YYYY-MM-DD)")
}

func runSchedule(cmd *cobra.Command, args []string) {
	_, s := openStore()
	defer s.Close()

	inst := findInstrument(s, args[0])
	fmt.Printf("%s  %s  anchor %s  value %.2f\n",
		inst.QueryID(), inst.QueryName(), formatDate(inst.AnchorDate()), inst.AnchorValue())

	for _, it := range inst.Items() {
		bound := "-"
		if it.VoucherID != "" {
			bound = it.VoucherID
		}
		fmt.Printf("  %s  %-12s %12.2f -> %12.2f  %s", formatDate(it.Date), it.Kind, itemEffect(it), it.Value, bound)
		if it.Remark != "" {
			fmt.Printf("  // %s", it.Remark)
		}
		fmt.Println()
	}

	if d := parseDate(scheduleDate, "--date"); d != nil {
		bv, ok := distributed.BookValueOn(inst, d)
		if !ok {
			fmt.Printf("book value on %s: unknown (not yet acquired)\n", scheduleDate)
			return
		}
		fmt.Printf("book value on %s: %.2f\n", scheduleDate, bv)
	}
}

func itemEffect(it *distributed.ScheduleItem) float64 {
	switch it.Kind {
	case distributed.Acquisition:
		return it.OrigValue
	case distributed.Devalue:
		return -it.Amount
	case distributed.Disposition:
		return -it.Amount
	default:
		return -it.Amount
	}
}
