package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/config"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/subtotal"
)

var (
	stLevels  string
	stNonZero bool
	stAggr    string
	stFrom    string
	stTo      string
	stTitle   int
	stSub     int
	stContent string
)

// subtotalCmd represents the subtotal command.
var subtotalCmd = &cobra.Command{
	Use:   "subtotal",
	Short: "Aggregate balances over grouping dimensions",
	Long: `Aggregate voucher detail balances recursively: group by the listed
dimensions in order, then sum at the leaf (or build a daily series with
--aggr changed|every).

Example:
  accounting subtotal --levels title,month --from 2024-01-01 --to 2024-12-31
  accounting subtotal --levels content --aggr every --nonzero`,
	Run: runSubtotal,
}

func init() {
	subtotalCmd.Flags().StringVar(&stLevels, "levels", "title", "comma-separated dimensions: title,subtitle,content,remark,day,week,month,fmonth,bmonth,year")
	subtotalCmd.Flags().BoolVar(&stNonZero, "nonzero", false, "drop zero leaves")
	subtotalCmd.Flags().StringVar(&stAggr, "aggr", "none", "leaf aggregation: none, changed, every")
	subtotalCmd.Flags().StringVar(&stFrom, "from", "", "start date (YYYY-MM-DD)")
	subtotalCmd.Flags().StringVar(&stTo, "to", "", "end date (YYYY-MM-DD)")
	subtotalCmd.Flags().IntVar(&stTitle, "title", 0, "restrict to an account title")
	subtotalCmd.Flags().IntVar(&stSub, "subtitle", -1, "restrict to an account sub-title")
	subtotalCmd.Flags().StringVar(&stContent, "content", "", "restrict to a content key")
}

var levelNames = map[string]subtotal.Level{
	"title":    subtotal.Title,
	"subtitle": subtotal.SubTitle,
	"content":  subtotal.Content,
	"remark":   subtotal.Remark,
	"day":      subtotal.Day,
	"week":     subtotal.Week,
	"month":    subtotal.Month,
	"fmonth":   subtotal.FinancialMonth,
	"bmonth":   subtotal.BillingMonth,
	"year":     subtotal.Year,
}

func parseLevels(spec string) ([]subtotal.Level, error) {
	var levels []subtotal.Level
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		l, ok := levelNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown dimension %q", name)
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func parseAggr(spec string) (subtotal.AggrMode, error) {
	switch spec {
	case "none":
		return subtotal.None, nil
	case "changed":
		return subtotal.ChangedDay, nil
	case "every":
		return subtotal.EveryDay, nil
	}
	return subtotal.None, fmt.Errorf("unknown aggregation mode %q", spec)
}

func runSubtotal(cmd *cobra.Command, args []string) {
	cfg, s := openStore()
	defer s.Close()

	titles := config.NewTitles(cfg.Titles)
	window := query.WindowConfig{
		FinancialStartDay: cfg.FinancialMonthStartDay,
		BillingStartDay:   cfg.BillingMonthStartDay,
	}

	levels, err := parseLevels(stLevels)
	exitOnError(err, "invalid --levels")
	aggr, err := parseAggr(stAggr)
	exitOnError(err, "invalid --aggr")

	rng := dateRange(stFrom, stTo)
	detail := &query.DetailAtom{Title: stTitle, SubTitle: stSub}
	if stContent != "" {
		detail.Content = &stContent
	}

	rows, err := s.SelectVoucherDetails(query.AnyVoucher(), detail, rng)
	exitOnError(err, "failed to select voucher details")

	res, ok := subtotal.Aggregate(rows, subtotal.Args{
		Levels:    levels,
		NonZero:   stNonZero,
		Aggr:      aggr,
		AggrRange: rng,
		Window:    window,
	}, subtotal.TreeReducer{})
	if !ok {
		fmt.Println("(no data)")
		return
	}
	printResult(res, titles, 0)
}

func printResult(r *subtotal.Result, titles *config.Titles, depth int) {
	indent := strings.Repeat("  ", depth)
	if r.Key != nil {
		fmt.Printf("%s%s: %.2f\n", indent, keyLabel(*r.Key, titles), r.Fund)
	} else if depth == 0 {
		fmt.Printf("total: %.2f\n", r.Fund)
	}
	for _, p := range r.Series {
		fmt.Printf("%s  %s %12.2f\n", indent, formatDate(p.Date), p.Fund)
	}
	for _, c := range r.Children {
		printResult(c, titles, depth+1)
	}
}

func keyLabel(k subtotal.Key, titles *config.Titles) string {
	switch k.Level {
	case subtotal.Title:
		return titles.Name(k.Code, 0)
	case subtotal.SubTitle:
		return fmt.Sprintf("%02d", k.Code)
	case subtotal.Content, subtotal.Remark:
		if k.Text == "" {
			return "(empty)"
		}
		return k.Text
	}
	if !k.HasDate {
		return "[undated]"
	}
	switch k.Level {
	case subtotal.Year:
		return k.Date.Format("2006")
	case subtotal.Month, subtotal.FinancialMonth, subtotal.BillingMonth:
		return k.Date.Format("2006-01")
	default:
		return k.Date.Format("2006-01-02")
	}
}
