package distributed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newAsset(value float64, life int) *Asset {
	return &Asset{
		Name:    "laptop",
		Date:    day(2024, 1, 1),
		Value:   value,
		Salvage: 0,
		Life:    life,
		Method:  StraightLine,
	}
}

func TestRegularizeSeedsAcquisition(t *testing.T) {
	a := newAsset(12000, 3)
	a.Regularize()

	require.NotEmpty(t, a.Schedule)
	first := a.Schedule[0]
	assert.Equal(t, Acquisition, first.Kind)
	assert.True(t, first.Date.Equal(*a.Date))
	assert.InDelta(t, 12000, first.OrigValue, ledger.Tolerance)
	assert.InDelta(t, 12000, first.Value, ledger.Tolerance)
}

func TestRegularizeIsIdempotent(t *testing.T) {
	a := newAsset(1000, 1)
	a.Schedule = []*ScheduleItem{
		{Kind: Depreciate, Date: day(2024, 2, 10), Amount: 100},
		{Kind: Devalue, Date: day(2024, 3, 5), FairValue: 700},
		{Kind: Depreciate, Date: day(2024, 4, 1), Amount: 100},
	}

	a.Regularize()
	snapshot := make([]ScheduleItem, len(a.Schedule))
	for i, it := range a.Schedule {
		snapshot[i] = *it
	}

	a.Regularize()
	require.Len(t, a.Schedule, len(snapshot))
	for i, it := range a.Schedule {
		assert.Equal(t, snapshot[i].Kind, it.Kind, "item %d kind", i)
		assert.True(t, it.Date.Equal(*snapshot[i].Date), "item %d date", i)
		assert.InDelta(t, snapshot[i].Value, it.Value, ledger.Tolerance, "item %d value", i)
		assert.InDelta(t, snapshot[i].Amount, it.Amount, ledger.Tolerance, "item %d amount", i)
	}
}

func TestRegularizeSnapsToMonthEnd(t *testing.T) {
	a := newAsset(1000, 1)
	a.Schedule = []*ScheduleItem{
		{Kind: Depreciate, Date: day(2024, 2, 10), Amount: 100},
	}
	a.Regularize()

	require.Len(t, a.Schedule, 2)
	assert.True(t, a.Schedule[1].Date.Equal(*day(2024, 2, 29)), "leap February snaps to the 29th")
}

func TestRegularizeBookValueFold(t *testing.T) {
	a := newAsset(1000, 1)
	a.Schedule = []*ScheduleItem{
		{Kind: Depreciate, Date: day(2024, 2, 28), Amount: 100},
		{Kind: Devalue, Date: day(2024, 3, 31), FairValue: 600},
		{Kind: Depreciate, Date: day(2024, 4, 30), Amount: 100},
		{Kind: Disposition, Date: day(2024, 5, 15)},
	}
	a.Regularize()

	require.Len(t, a.Schedule, 5)
	expected := []float64{1000, 900, 600, 500, 0}
	for i, want := range expected {
		assert.InDelta(t, want, a.Schedule[i].Value, ledger.Tolerance, "item %d", i)
	}
	// the devaluation recorded its write-down
	assert.InDelta(t, 300, a.Schedule[2].Amount, ledger.Tolerance)
	// the disposition recorded the remaining book value
	assert.InDelta(t, 500, a.Schedule[4].Amount, ledger.Tolerance)
}

func TestRegularizeDropsStaleDevaluation(t *testing.T) {
	a := newAsset(1000, 1)
	a.Schedule = []*ScheduleItem{
		{Kind: Depreciate, Date: day(2024, 2, 28), Amount: 600},
		// book value is already 400; clamping up to 500 is meaningless
		{Kind: Devalue, Date: day(2024, 3, 31), FairValue: 500},
	}
	a.Regularize()

	require.Len(t, a.Schedule, 2)
	for _, it := range a.Schedule {
		assert.NotEqual(t, Devalue, it.Kind)
	}
	assert.InDelta(t, 400, a.Schedule[1].Value, ledger.Tolerance)
}

func TestRegularizeKeepsIgnoredStaleDevaluation(t *testing.T) {
	a := newAsset(1000, 1)
	a.Schedule = []*ScheduleItem{
		{Kind: Depreciate, Date: day(2024, 2, 28), Amount: 600},
		{Kind: Devalue, Date: day(2024, 3, 31), FairValue: 500, Remark: ledger.IgnoreMarker},
	}
	a.Regularize()

	require.Len(t, a.Schedule, 3)
	assert.Equal(t, Devalue, a.Schedule[2].Kind)
	assert.InDelta(t, 400, a.Schedule[2].Value, ledger.Tolerance, "ignored stale devalue must not raise book value")
	assert.InDelta(t, 0, a.Schedule[2].Amount, ledger.Tolerance)
}

func TestRegularizeNoOpWhenFrozenOrUnanchored(t *testing.T) {
	frozen := newAsset(1000, 1)
	frozen.Remark = ledger.IgnoreMarker
	frozen.Regularize()
	assert.Empty(t, frozen.Schedule)

	undated := newAsset(1000, 1)
	undated.Date = nil
	undated.Regularize()
	assert.Empty(t, undated.Schedule)
}

func TestRegularizeKeepsIgnoredAcquisition(t *testing.T) {
	a := newAsset(1000, 1)
	a.Schedule = []*ScheduleItem{
		{Kind: Acquisition, Date: day(2023, 12, 15), OrigValue: 900, Remark: ledger.IgnoreMarker},
	}
	a.Regularize()

	first := a.Schedule[0]
	assert.True(t, first.Date.Equal(*day(2023, 12, 15)), "ignored acquisition keeps its date")
	assert.InDelta(t, 900, first.OrigValue, ledger.Tolerance, "ignored acquisition keeps its value")
}

func TestAmortizationRegularizeFold(t *testing.T) {
	m := &Amortization{
		Name:  "insurance",
		Date:  day(2024, 1, 1),
		Value: 1200,
	}
	m.Schedule = []*ScheduleItem{
		{Kind: AmortItem, Date: day(2024, 3, 1), Amount: 100},
		{Kind: AmortItem, Date: day(2024, 1, 1), Amount: 100},
		{Kind: AmortItem, Date: day(2024, 2, 1), Amount: 100},
	}
	m.Regularize()

	require.Len(t, m.Schedule, 3)
	assert.True(t, m.Schedule[0].Date.Equal(*day(2024, 1, 1)), "schedule re-sorted ascending")
	for i, want := range []float64{1100, 1000, 900} {
		assert.InDelta(t, want, m.Schedule[i].Value, ledger.Tolerance, "residual %d", i)
	}
}
