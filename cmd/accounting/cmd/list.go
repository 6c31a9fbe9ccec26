package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/config"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

var (
	listFrom    string
	listTo      string
	listType    string
	listTitle   int
	listSub     int
	listContent string
	listRemark  string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger vouchers matching a filter",
	Long: `List vouchers. Scalar flags combine as one atomic filter; a voucher
matches when all present fields match, its date falls in the range, and
at least one detail line matches the detail fields.

Example:
  accounting list --from 2024-01-01 --to 2024-01-31 --title 1001`,
	Run: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "start date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "end date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listType, "type", "", "voucher type")
	listCmd.Flags().IntVar(&listTitle, "title", 0, "account title (4-digit code)")
	listCmd.Flags().IntVar(&listSub, "subtitle", -1, "account sub-title (2-digit code)")
	listCmd.Flags().StringVar(&listContent, "content", "", "detail content (sub-ledger key)")
	listCmd.Flags().StringVar(&listRemark, "remark", "", "detail remark")
}

func buildListQuery() query.VoucherQuery {
	atom := &query.VoucherAtom{
		Type:  ledger.VoucherType(listType),
		Range: dateRange(listFrom, listTo),
	}
	detail := &query.DetailAtom{Title: listTitle, SubTitle: listSub}
	if listContent != "" {
		detail.Content = &listContent
	}
	if listRemark != "" {
		detail.Remark = &listRemark
	}
	atom.Detail = detail
	return atom
}

func runList(cmd *cobra.Command, args []string) {
	cfg, s := openStore()
	defer s.Close()

	titles := config.NewTitles(cfg.Titles)

	vouchers, err := s.SelectVouchers(buildListQuery())
	exitOnError(err, "failed to select vouchers")

	for _, v := range vouchers {
		printVoucher(v, titles)
	}
	fmt.Printf("%d voucher(s)\n", len(vouchers))
}

func printVoucher(v *ledger.Voucher, titles *config.Titles) {
	fmt.Printf("%s  %-12s %s", formatDate(v.Date), v.Type, v.ID)
	if v.Remark != "" {
		fmt.Printf("  // %s", v.Remark)
	}
	fmt.Println()
	for _, d := range v.Details {
		fmt.Printf("    %-24s", titles.Name(d.Title, d.SubTitle))
		if c := ledger.StrVal(d.Content); c != "" {
			fmt.Printf(" [%s]", c)
		}
		fmt.Printf(" %12.2f", d.Fund)
		if r := ledger.StrVal(d.Remark); r != "" {
			fmt.Printf("  // %s", r)
		}
		fmt.Println()
	}
}
