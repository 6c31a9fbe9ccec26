// Package query defines the typed, composable filter algebras over
// vouchers, voucher details and distributed instruments, together with the
// tri-state date-range filter they all share.
package query

import "time"

// WindowConfig carries the calendar conventions used to derive period
// windows. FinancialStartDay is the day-of-month a financial month begins
// on; BillingStartDay is the day a billing (statement) month begins on.
type WindowConfig struct {
	FinancialStartDay int
	BillingStartDay   int
}

// DefaultWindow is the convention used when no configuration is supplied:
// financial and billing months coincide with calendar months.
var DefaultWindow = WindowConfig{FinancialStartDay: 1, BillingStartDay: 1}

// DateRange is a tri-state interval filter over optional dates.
//
// Nullable states whether an entity with no date at all is included.
// NullOnly is the explicit third state: when set, only undated entities
// match, regardless of Start/End. It must be carried explicitly because an
// unconstrained range and a null-only range share the same Start/End/Nullable
// representation.
type DateRange struct {
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Nullable bool       `json:"nullable"`
	NullOnly bool       `json:"nullonly,omitempty"`
}

// Unconstrained matches every entity, dated or not.
func Unconstrained() DateRange {
	return DateRange{Nullable: true}
}

// TheNullOnly matches only undated entities.
func TheNullOnly() DateRange {
	return DateRange{Nullable: true, NullOnly: true}
}

// Between constructs a closed range. Either bound may be nil.
func Between(start, end *time.Time) DateRange {
	return DateRange{Start: start, End: end}
}

// ContainsDate reports whether an optional date satisfies the filter.
func (r DateRange) ContainsDate(d *time.Time) bool {
	if r.NullOnly {
		return d == nil
	}
	if d == nil {
		return r.Nullable
	}
	if r.Start != nil && d.Before(*r.Start) {
		return false
	}
	if r.End != nil && d.After(*r.End) {
		return false
	}
	return true
}

// IsUnconstrained reports whether the range matches everything.
func (r DateRange) IsUnconstrained() bool {
	return !r.NullOnly && r.Start == nil && r.End == nil && r.Nullable
}

// CompareDateAsc orders optional dates for ascending schedule sorts:
// nil sorts earlier than any date.
func CompareDateAsc(a, b *time.Time) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return a.Compare(*b)
}

// CompareDateNilLast orders optional dates for descending latest-known-state
// lookups: nil sorts later than any date. This is intentionally asymmetric
// with CompareDateAsc; both comparators are needed.
func CompareDateNilLast(a, b *time.Time) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	return a.Compare(*b)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayRange is the single day delta days away from ref (delta 0 is today).
func DayRange(delta int, ref time.Time) DateRange {
	d := dayStart(ref).AddDate(0, 0, delta)
	e := d
	return Between(&d, &e)
}

// WeekRange is the Monday-to-Sunday week containing ref, shifted by delta
// weeks.
func WeekRange(delta int, ref time.Time) DateRange {
	d := dayStart(ref)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := d.AddDate(0, 0, -offset+7*delta)
	end := start.AddDate(0, 0, 6)
	return Between(&start, &end)
}

// MonthRange is the calendar month containing ref, shifted by delta months.
func MonthRange(delta int, ref time.Time) DateRange {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, delta, 0)
	end := start.AddDate(0, 1, -1)
	return Between(&start, &end)
}

// YearRange is the calendar year containing ref, shifted by delta years.
func YearRange(delta int, ref time.Time) DateRange {
	start := time.Date(ref.Year()+delta, 1, 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(1, 0, -1)
	return Between(&start, &end)
}

// startDayMonthRange computes a month window beginning on startDay. The
// window containing ref is delta 0; delta shifts by whole windows.
func startDayMonthRange(delta, startDay int, ref time.Time) DateRange {
	d := dayStart(ref)
	start := time.Date(d.Year(), d.Month(), startDay, 0, 0, 0, 0, d.Location())
	if d.Day() < startDay {
		start = start.AddDate(0, -1, 0)
	}
	start = start.AddDate(0, delta, 0)
	end := start.AddDate(0, 1, -1)
	return Between(&start, &end)
}

// FinancialMonthRange is the financial month containing ref per cfg,
// shifted by delta months.
func FinancialMonthRange(delta int, ref time.Time, cfg WindowConfig) DateRange {
	if cfg.FinancialStartDay <= 1 {
		return MonthRange(delta, ref)
	}
	return startDayMonthRange(delta, cfg.FinancialStartDay, ref)
}

// BillingMonthRange is the billing month containing ref per cfg, shifted by
// delta months.
func BillingMonthRange(delta int, ref time.Time, cfg WindowConfig) DateRange {
	if cfg.BillingStartDay <= 1 {
		return MonthRange(delta, ref)
	}
	return startDayMonthRange(delta, cfg.BillingStartDay, ref)
}
