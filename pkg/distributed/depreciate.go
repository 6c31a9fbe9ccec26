package distributed

import (
	"fmt"
	"time"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
)

// monthsBetween counts whole calendar months from the month of a to the
// month of b (0 when both fall in the same month).
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// Depreciate regenerates the asset's automatic depreciation items using
// the selected method. Ignore-marked items are preserved; everything the
// machine wrote after the last non-depreciation event is rebuilt. The
// schedule is regularized before and after.
func (a *Asset) Depreciate() error {
	switch a.Method {
	case MethodNone:
		return nil
	case StraightLine:
		return a.depreciateStraightLine()
	case SumOfYears:
		return a.depreciateSumOfYears()
	case DoubleDeclining:
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, a.Method)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, a.Method)
	}
}

// lastEventIndex returns the index of the last schedule item that is not
// an automatically generated depreciation, i.e. the last acquisition,
// devaluation, disposition or ignore-marked item. Regeneration starts
// after it.
func (a *Asset) lastEventIndex() int {
	last := -1
	for i, it := range a.Schedule {
		if it.Kind != Depreciate || it.Ignored() {
			last = i
		}
	}
	return last
}

// dropAutoDepreciationAfter removes non-ignored Depreciate items located
// after index idx, returning the trimmed schedule.
func (a *Asset) dropAutoDepreciationAfter(idx int) {
	kept := make([]*ScheduleItem, 0, len(a.Schedule))
	for i, it := range a.Schedule {
		if i > idx && it.Kind == Depreciate && !it.Ignored() {
			continue
		}
		kept = append(kept, it)
	}
	a.Schedule = kept
}

func (a *Asset) depreciateStraightLine() error {
	if a.Date == nil || a.Life <= 0 {
		return fmt.Errorf("%w: straight-line needs an anchor date and a positive life", ErrBadSchedule)
	}
	a.Regularize()

	idx := a.lastEventIndex()
	a.dropAutoDepreciationAfter(idx)
	if idx < 0 || idx >= len(a.Schedule) {
		return fmt.Errorf("%w: no acquisition to depreciate from", ErrBadSchedule)
	}
	last := a.Schedule[idx]
	if last.Kind == Disposition {
		a.Regularize()
		return nil
	}

	bv := last.Value
	// generation starts in the anchor month when only the acquisition is
	// left, otherwise in the month after the last event
	start := 0
	if last.Kind != Acquisition || idx > 0 {
		start = monthsBetween(*a.Date, *last.Date) + 1
	}

	total := a.Life * 12
	for m := start; m < total; m++ {
		remaining := total - m
		amount := (bv - a.Salvage) / float64(remaining)
		if ledger.IsZero(bv-a.Salvage) || amount < 0 {
			break
		}
		d := endOfMonth(a.Date.AddDate(0, m, 0))
		bv -= amount
		a.Schedule = append(a.Schedule, &ScheduleItem{
			Kind:   Depreciate,
			Date:   &d,
			Amount: amount,
		})
	}

	a.Regularize()
	return nil
}

// depreciateSumOfYears applies the sum-of-years-digits closed form: the
// depreciable base spread over depreciation years 1..n weighted by
// (n-k+1)/(n(n+1)/2), split evenly over the 12 service months of each
// depreciation year counted from the acquisition month. Acquisitions that
// are not alone, and any devaluation, invalidate the method.
func (a *Asset) depreciateSumOfYears() error {
	if a.Date == nil || a.Life <= 0 {
		return fmt.Errorf("%w: sum-of-years needs an anchor date and a positive life", ErrBadSchedule)
	}
	a.Regularize()

	acquisitions := 0
	for _, it := range a.Schedule {
		switch it.Kind {
		case Acquisition:
			acquisitions++
		case Devalue:
			return fmt.Errorf("%w: sum-of-years cannot coexist with devaluations", ErrBadSchedule)
		}
	}
	if acquisitions != 1 {
		return fmt.Errorf("%w: sum-of-years requires exactly one acquisition, got %d", ErrBadSchedule, acquisitions)
	}

	a.dropAutoDepreciationAfter(-1)

	n := a.Life
	digits := n * (n + 1) / 2
	base := a.Value - a.Salvage
	for m := 0; m < 12*n; m++ {
		year := m/12 + 1
		amount := float64(n-year+1) / float64(digits) * base / 12
		d := endOfMonth(a.Date.AddDate(0, m, 0))
		a.Schedule = append(a.Schedule, &ScheduleItem{
			Kind:   Depreciate,
			Date:   &d,
			Amount: amount,
		})
	}

	a.Regularize()
	return nil
}

// Amortize regenerates the amortization's period items: the anchor value
// split evenly across the interval steps covering TotalDays from the
// anchor date. Ignore-marked items survive regeneration.
func (m *Amortization) Amortize() error {
	if m.Date == nil || m.TotalDays <= 0 {
		return fmt.Errorf("%w: amortization needs an anchor date and a positive day count", ErrBadSchedule)
	}

	kept := make([]*ScheduleItem, 0, len(m.Schedule))
	for _, it := range m.Schedule {
		if it.Ignored() {
			kept = append(kept, it)
		}
	}
	m.Schedule = kept

	end := m.Date.AddDate(0, 0, m.TotalDays-1)
	dates := periodDates(*m.Date, end, m.Interval)
	if len(dates) == 0 {
		return fmt.Errorf("%w: interval %q produces no periods", ErrBadSchedule, m.Interval)
	}
	amount := m.Value / float64(len(dates))
	for _, d := range dates {
		day := d
		m.Schedule = append(m.Schedule, &ScheduleItem{
			Kind:   AmortItem,
			Date:   &day,
			Amount: amount,
		})
	}

	m.Regularize()
	return nil
}

// periodDates enumerates the item dates for an interval between start and
// end inclusive. The plain variants step from the anchor date itself; the
// end-of variants land on the last day of each period.
func periodDates(start, end time.Time, interval AmortInterval) []time.Time {
	var dates []time.Time
	push := func(d time.Time) {
		if !d.After(end) && !d.Before(start) {
			dates = append(dates, d)
		}
	}
	switch interval {
	case IntervalDay:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			push(d)
		}
	case IntervalWeek:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
			push(d)
		}
	case IntervalMonth:
		for i := 0; ; i++ {
			d := start.AddDate(0, i, 0)
			if d.After(end) {
				break
			}
			push(d)
		}
	case IntervalYear:
		for i := 0; ; i++ {
			d := start.AddDate(i, 0, 0)
			if d.After(end) {
				break
			}
			push(d)
		}
	case IntervalEndOfWeek:
		// Sundays
		offset := (7 - int(start.Weekday())) % 7
		for d := start.AddDate(0, 0, offset); !d.After(end); d = d.AddDate(0, 0, 7) {
			push(d)
		}
	case IntervalEndOfMonth:
		for i := 0; ; i++ {
			d := endOfMonth(start.AddDate(0, i, 0))
			if d.After(end) {
				break
			}
			push(d)
		}
	case IntervalEndOfYear:
		for y := start.Year(); ; y++ {
			d := time.Date(y, 12, 31, 0, 0, 0, 0, start.Location())
			if d.After(end) {
				break
			}
			push(d)
		}
	}
	return dates
}
