// Package ledger defines the core bookkeeping data model: vouchers, their
// detail lines, and derived balance rows.
package ledger

import (
	"math"
	"time"
)

// Tolerance is the fixed epsilon used for every fund and book-value
// comparison in the system. Repeated folds over float64 funds accumulate
// drift; all zero/equality tests must go through IsZero or FundEqual.
const Tolerance = 1e-8

// IgnoreMarker is the remark value that freezes a voucher or schedule item
// from automatic regularization and reconciliation.
const IgnoreMarker = "ignore!"

// VoucherType classifies a ledger voucher.
type VoucherType string

const (
	// Ordinary is a plain day-to-day journal entry.
	Ordinary VoucherType = "Ordinary"
	// Depreciation marks a voucher generated for an asset depreciation step.
	Depreciation VoucherType = "Depreciation"
	// Devaluation marks a voucher generated for an asset write-down step.
	Devaluation VoucherType = "Devaluation"
	// Amortization marks a voucher generated for a prepayment amortization step.
	Amortization VoucherType = "Amortization"
	// CarryForward is a periodic profit-and-loss carry-forward entry.
	CarryForward VoucherType = "Carry"
	// AnnualCarry is the year-end carry entry.
	AnnualCarry VoucherType = "AnnualCarry"
	// Uncertain is a draft entry whose classification is not settled.
	Uncertain VoucherType = "Uncertain"

	// General is a query-only pseudo-type matching Ordinary, CarryForward
	// and AnnualCarry vouchers. It never appears on a stored voucher.
	General VoucherType = "General"
)

// MatchesType reports whether a stored voucher type satisfies a queried
// type, expanding the General pseudo-type.
func (t VoucherType) MatchesType(queried VoucherType) bool {
	if queried == "" {
		return true
	}
	if queried == General {
		return t == Ordinary || t == CarryForward || t == AnnualCarry
	}
	return t == queried
}

// VoucherDetail is one line of a voucher, tagged by account title,
// optional sub-title and an optional free-text content used as a
// sub-ledger key (counterparty, batch id, instrument tag).
//
// Content and Remark are pointers so that "absent" and "empty string" stay
// distinct: an absent field in a filter template is a wildcard, an empty
// string matches only empty.
type VoucherDetail struct {
	Title    int     `json:"title"`
	SubTitle int     `json:"subtitle,omitempty"`
	Content  *string `json:"content,omitempty"`
	Fund     float64 `json:"fund"`
	Remark   *string `json:"remark,omitempty"`
}

// Voucher is a ledger journal entry composed of balanced debit/credit
// lines. A nil Date means the voucher is undated (draft or collapsed).
type Voucher struct {
	ID      string           `json:"id,omitempty"`
	Date    *time.Time       `json:"date,omitempty"`
	Type    VoucherType      `json:"type"`
	Remark  string           `json:"remark,omitempty"`
	Details []*VoucherDetail `json:"details"`
}

// Balance is a derived aggregation row: the dimensional fields of a detail
// plus its parent voucher's date and a summed fund. Balances are produced
// by queries and the subtotal engine and never persisted.
type Balance struct {
	Date     *time.Time
	Title    int
	SubTitle int
	Content  string
	Remark   string
	Fund     float64
}

// IsZero reports whether a fund amount is zero within Tolerance.
func IsZero(f float64) bool {
	return math.Abs(f) < Tolerance
}

// FundEqual reports whether two fund amounts are equal within Tolerance.
func FundEqual(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// StrVal dereferences an optional string field, mapping nil to "".
func StrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Str returns a pointer to s, for building detail literals.
func Str(s string) *string {
	return &s
}

// IsBalanced reports whether the voucher's detail funds sum to zero within
// Tolerance. Fully posted vouchers must be balanced.
func (v *Voucher) IsBalanced() bool {
	var sum float64
	for _, d := range v.Details {
		sum += d.Fund
	}
	return IsZero(sum)
}

// HasIgnoreMarker reports whether a remark carries the ignore marker.
func HasIgnoreMarker(remark string) bool {
	return remark == IgnoreMarker
}

// MatchesFields reports whether the detail satisfies a filter template:
// every present template field must equal the detail's field. Title 0 and
// SubTitle -1 mean "any"; SubTitle 0 in the template requires a detail with
// no sub-title. Nil Content/Remark are wildcards.
func (d *VoucherDetail) MatchesFields(title, subTitle int, content, remark *string) bool {
	if title != 0 && d.Title != title {
		return false
	}
	if subTitle >= 0 && d.SubTitle != subTitle {
		return false
	}
	if content != nil && StrVal(d.Content) != *content {
		return false
	}
	if remark != nil && StrVal(d.Remark) != *remark {
		return false
	}
	return true
}

// Clone returns a deep copy of the voucher.
func (v *Voucher) Clone() *Voucher {
	nv := &Voucher{
		ID:     v.ID,
		Type:   v.Type,
		Remark: v.Remark,
	}
	if v.Date != nil {
		d := *v.Date
		nv.Date = &d
	}
	for _, d := range v.Details {
		nd := &VoucherDetail{
			Title:    d.Title,
			SubTitle: d.SubTitle,
			Fund:     d.Fund,
		}
		if d.Content != nil {
			c := *d.Content
			nd.Content = &c
		}
		if d.Remark != nil {
			r := *d.Remark
			nd.Remark = &r
		}
		nv.Details = append(nv.Details, nd)
	}
	return nv
}
