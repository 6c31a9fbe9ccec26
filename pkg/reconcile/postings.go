package reconcile

import (
	"time"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
)

// ExpectedVoucher builds the voucher a schedule item should be posted as,
// or nil for item kinds that are registered manually (acquisitions and
// dispositions carry user-entered counterpart lines the engine cannot
// know). Generated vouchers always balance to zero; the instrument's
// identity tag rides in the content field of the contra line so
// RegisterVouchers can find them again.
func ExpectedVoucher(inst distributed.Instrument, it *distributed.ScheduleItem, collapsed bool) *ledger.Voucher {
	var date *time.Time
	if !collapsed && it.Date != nil {
		d := *it.Date
		date = &d
	}
	tag := inst.QueryID()

	switch i := inst.(type) {
	case *distributed.Asset:
		switch it.Kind {
		case distributed.Depreciate:
			return &ledger.Voucher{
				Type: ledger.Depreciation,
				Date: date,
				Details: []*ledger.VoucherDetail{
					{
						Title:    i.DepreciationExpense.Title,
						SubTitle: i.DepreciationExpense.SubTitle,
						Fund:     it.Amount,
					},
					{
						Title:    i.DepreciationAccount.Title,
						SubTitle: i.DepreciationAccount.SubTitle,
						Content:  ledger.Str(tag),
						Fund:     -it.Amount,
					},
				},
			}
		case distributed.Devalue:
			return &ledger.Voucher{
				Type: ledger.Devaluation,
				Date: date,
				Details: []*ledger.VoucherDetail{
					{
						Title:    i.DevaluationExpense.Title,
						SubTitle: i.DevaluationExpense.SubTitle,
						Fund:     it.Amount,
					},
					{
						Title:    i.DevaluationAccount.Title,
						SubTitle: i.DevaluationAccount.SubTitle,
						Content:  ledger.Str(tag),
						Fund:     -it.Amount,
					},
				},
			}
		}
		return nil
	case *distributed.Amortization:
		if it.Kind != distributed.AmortItem || i.Template == nil {
			return nil
		}
		v := i.Template.Clone()
		v.ID = ""
		v.Type = ledger.Amortization
		v.Date = date
		for _, d := range v.Details {
			d.Fund *= it.Amount
		}
		if d := tagLine(v.Details); d != nil {
			d.Content = ledger.Str(tag)
		}
		return v
	}
	return nil
}

// tagLine picks the detail line that carries the instrument's identity tag
// on a generated voucher: the first credit line (the contra or prepayment
// account), falling back to the last line of an all-debit template.
func tagLine(details []*ledger.VoucherDetail) *ledger.VoucherDetail {
	for _, d := range details {
		if d.Fund < 0 {
			return d
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details[len(details)-1]
}

// taggedBinding is the account the tagged line of a generated voucher
// posts to for an item kind. Registration rejects candidate vouchers whose
// tagged line sits on a different account.
func taggedBinding(inst distributed.Instrument, kind distributed.ItemKind) (distributed.AccountBinding, bool) {
	switch i := inst.(type) {
	case *distributed.Asset:
		switch kind {
		case distributed.Depreciate:
			return i.DepreciationAccount, true
		case distributed.Devalue:
			return i.DevaluationAccount, true
		default:
			return i.BookAccount, true
		}
	case *distributed.Amortization:
		if i.Template == nil {
			return distributed.AccountBinding{}, false
		}
		if d := tagLine(i.Template.Details); d != nil {
			return distributed.AccountBinding{Title: d.Title, SubTitle: d.SubTitle}, true
		}
	}
	return distributed.AccountBinding{}, false
}

// kindForType maps a stored voucher type to the schedule item kinds it can
// bind to during registration.
func kindsForType(t ledger.VoucherType) []distributed.ItemKind {
	switch t {
	case ledger.Depreciation:
		return []distributed.ItemKind{distributed.Depreciate}
	case ledger.Devaluation:
		return []distributed.ItemKind{distributed.Devalue}
	case ledger.Amortization:
		return []distributed.ItemKind{distributed.AmortItem}
	default:
		return []distributed.ItemKind{distributed.Acquisition, distributed.Disposition}
	}
}

// itemAmount is the fund magnitude a bound voucher is expected to carry
// for an item.
func itemAmount(it *distributed.ScheduleItem) float64 {
	if it.Kind == distributed.Acquisition {
		return it.OrigValue
	}
	return it.Amount
}
