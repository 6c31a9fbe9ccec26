package distributed

import (
	"sort"
	"time"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

// endOfMonth snaps a date to the last day of its month.
func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, -1)
}

func sortSchedule(items []*ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return query.CompareDateAsc(items[i].Date, items[j].Date) < 0
	})
}

// Regularize normalizes the asset's schedule: snaps depreciation and
// devaluation dates to month end, re-sorts, seeds the leading Acquisition
// from the anchor, and recomputes the book-value column as a left-to-right
// fold. Stale Devalue items (fair value at or above the current book
// value) are dropped unless ignore-marked. The pass is idempotent and a
// no-op for ignore-marked assets or assets with no anchor date/value.
func (a *Asset) Regularize() {
	if ledger.HasIgnoreMarker(a.Remark) || a.Date == nil || ledger.IsZero(a.Value) {
		return
	}

	for _, it := range a.Schedule {
		if it.Ignored() || it.Date == nil {
			continue
		}
		if it.Kind == Depreciate || it.Kind == Devalue {
			d := endOfMonth(*it.Date)
			it.Date = &d
		}
	}
	sortSchedule(a.Schedule)

	if len(a.Schedule) == 0 || a.Schedule[0].Kind != Acquisition {
		d := *a.Date
		a.Schedule = append([]*ScheduleItem{{
			Kind:      Acquisition,
			Date:      &d,
			OrigValue: a.Value,
		}}, a.Schedule...)
	} else if first := a.Schedule[0]; !first.Ignored() {
		d := *a.Date
		first.Date = &d
		first.OrigValue = a.Value
	}

	// fold, building a fresh list so stale devaluations can be dropped
	// without editing the schedule mid-iteration
	var bv float64
	kept := make([]*ScheduleItem, 0, len(a.Schedule))
	for _, it := range a.Schedule {
		switch it.Kind {
		case Acquisition:
			bv += it.OrigValue
		case Depreciate:
			bv -= it.Amount
		case Devalue:
			if it.FairValue >= bv-ledger.Tolerance {
				if !it.Ignored() {
					// the numbers have already overtaken this
					// write-down; it self-heals by deletion
					continue
				}
				it.Amount = 0
			} else {
				it.Amount = bv - it.FairValue
				bv = it.FairValue
			}
		case Disposition:
			it.Amount = bv
			bv = 0
		}
		it.Value = bv
		kept = append(kept, it)
	}
	a.Schedule = kept
}

// Regularize normalizes the amortization's schedule: sorts by date and
// folds the period amounts into the residual-value column. Amortization
// schedules are homogeneous, so there is no kind branching.
func (m *Amortization) Regularize() {
	if ledger.HasIgnoreMarker(m.Remark) || m.Date == nil || ledger.IsZero(m.Value) {
		return
	}
	sortSchedule(m.Schedule)
	residual := m.Value
	for _, it := range m.Schedule {
		residual -= it.Amount
		it.Value = residual
	}
}
