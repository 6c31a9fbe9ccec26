// Package distributed implements distributed financial instruments:
// depreciable assets and amortizable prepayments, each carrying an ordered
// schedule of dated items whose running book value is recomputed by
// Regularize after any edit.
package distributed

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
)

var (
	// ErrUnsupportedMethod is returned for depreciation methods that are
	// reserved but not implemented (double-declining).
	ErrUnsupportedMethod = errors.New("distributed: unsupported depreciation method")

	// ErrBadSchedule is returned when a schedule violates the structural
	// requirements of the selected method, e.g. sum-of-years-digits with
	// multiple acquisitions or with devaluations present. Configuration
	// errors are fatal and non-retryable; the instrument must be fixed.
	ErrBadSchedule = errors.New("distributed: schedule invalid for method")
)

// ItemKind tags one schedule item. The kinds form a closed union; every
// fold over a schedule is a single switch over ItemKind.
type ItemKind string

const (
	// Acquisition adds the instrument's original value.
	Acquisition ItemKind = "acquisition"
	// Depreciate subtracts a period amount from the book value.
	Depreciate ItemKind = "depreciate"
	// Devalue clamps the book value down to a fair value, recording the
	// write-down in Amount.
	Devalue ItemKind = "devalue"
	// Disposition zeroes the book value.
	Disposition ItemKind = "disposition"
	// AmortItem subtracts a period amortization amount from the residual.
	AmortItem ItemKind = "amortization"
)

// ScheduleItem is one dated step of an instrument's computed timeline.
//
// Value is the running book (or residual) value after the item's effect,
// recomputed by Regularize as a strict left-to-right fold. An item whose
// Remark carries the ignore marker keeps its input fields (Date, Amount,
// FairValue) across regularization; only the Value column is re-derived.
type ScheduleItem struct {
	Kind      ItemKind   `json:"kind"`
	Date      *time.Time `json:"date,omitempty"`
	Value     float64    `json:"value"`
	VoucherID string     `json:"voucher,omitempty"`
	Remark    string     `json:"remark,omitempty"`

	// OrigValue is the Acquisition payload.
	OrigValue float64 `json:"origValue,omitempty"`
	// Amount is the Depreciate/AmortItem period amount, and the computed
	// write-down of a Devalue item.
	Amount float64 `json:"amount,omitempty"`
	// FairValue is the Devalue clamp target.
	FairValue float64 `json:"fairValue,omitempty"`
}

// Ignored reports whether the item is frozen from automatic recomputation.
func (s *ScheduleItem) Ignored() bool {
	return ledger.HasIgnoreMarker(s.Remark)
}

// DepreciationMethod selects the asset depreciation algorithm.
type DepreciationMethod string

const (
	// MethodNone disables automatic depreciation generation.
	MethodNone DepreciationMethod = "none"
	// StraightLine re-levels the remaining depreciable value evenly over
	// the remaining months at every step.
	StraightLine DepreciationMethod = "straight-line"
	// SumOfYears applies the sum-of-years-digits closed form.
	SumOfYears DepreciationMethod = "sum-of-years"
	// DoubleDeclining is reserved and unimplemented.
	DoubleDeclining DepreciationMethod = "double-declining"
)

// AccountBinding names the ledger account a generated posting goes to.
type AccountBinding struct {
	Title    int `json:"title"`
	SubTitle int `json:"subtitle,omitempty"`
}

// Asset is a depreciable fixed asset. Date and Value anchor the schedule;
// Life is the useful life in years.
type Asset struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	Date    *time.Time `json:"date,omitempty"`
	Value   float64    `json:"value"`
	Salvage float64    `json:"salvage"`
	Life    int        `json:"life"`
	Remark  string     `json:"remark,omitempty"`

	Method DepreciationMethod `json:"method"`

	// Account bindings for generated postings: the asset book account,
	// its accumulated depreciation and devaluation contra accounts, and
	// the expense account for each.
	BookAccount         AccountBinding `json:"account"`
	DepreciationAccount AccountBinding `json:"depreciationAccount"`
	DevaluationAccount  AccountBinding `json:"devaluationAccount"`
	DepreciationExpense AccountBinding `json:"depreciationExpense"`
	DevaluationExpense  AccountBinding `json:"devaluationExpense"`

	Schedule []*ScheduleItem `json:"schedule"`
}

// AmortInterval is the period between amortization items.
type AmortInterval string

const (
	IntervalDay        AmortInterval = "day"
	IntervalWeek       AmortInterval = "week"
	IntervalMonth      AmortInterval = "month"
	IntervalYear       AmortInterval = "year"
	IntervalEndOfWeek  AmortInterval = "week-end"
	IntervalEndOfMonth AmortInterval = "month-end"
	IntervalEndOfYear  AmortInterval = "year-end"
)

// Amortization is a prepaid expense recognized over TotalDays at the given
// interval. Template is the voucher shape used to generate reconciliation
// vouchers: each template detail's Fund is a weight, scaled by the period
// amount when a voucher is generated, so the template itself must sum to
// zero in weights.
type Amortization struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Date      *time.Time      `json:"date,omitempty"`
	Value     float64         `json:"value"`
	TotalDays int             `json:"totalDays"`
	Interval  AmortInterval   `json:"interval"`
	Remark    string          `json:"remark,omitempty"`
	Template  *ledger.Voucher `json:"template,omitempty"`

	Schedule []*ScheduleItem `json:"schedule"`
}

// Instrument is the common surface of assets and amortizations used by the
// book-value lookup and the reconciliation engine.
type Instrument interface {
	// QueryID, QueryName and QueryRemark implement query.Distributed.
	QueryID() string
	QueryName() string
	QueryRemark() string

	AnchorDate() *time.Time
	AnchorValue() float64
	Items() []*ScheduleItem
	Regularize()
}

func (a *Asset) QueryID() string     { return a.ID.String() }
func (a *Asset) QueryName() string   { return a.Name }
func (a *Asset) QueryRemark() string { return a.Remark }

func (a *Asset) AnchorDate() *time.Time { return a.Date }
func (a *Asset) AnchorValue() float64   { return a.Value }
func (a *Asset) Items() []*ScheduleItem { return a.Schedule }

func (m *Amortization) QueryID() string     { return m.ID.String() }
func (m *Amortization) QueryName() string   { return m.Name }
func (m *Amortization) QueryRemark() string { return m.Remark }

func (m *Amortization) AnchorDate() *time.Time { return m.Date }
func (m *Amortization) AnchorValue() float64   { return m.Value }
func (m *Amortization) Items() []*ScheduleItem { return m.Schedule }

// BookValueOn returns the instrument's book (residual) value as of a date.
//
// The convention is applied-on-date: an item dated exactly on the query
// date counts as already applied. A nil date returns the nominal anchor
// value. The second return value is false when the instrument did not yet
// exist on the query date.
func BookValueOn(inst Instrument, date *time.Time) (float64, bool) {
	if date == nil {
		return inst.AnchorValue(), true
	}
	var last *ScheduleItem
	for _, it := range inst.Items() {
		if it.Date != nil && !it.Date.After(*date) {
			last = it
		}
	}
	if last != nil {
		return last.Value, true
	}
	if d := inst.AnchorDate(); d != nil && !d.After(*date) {
		return inst.AnchorValue(), true
	}
	return 0, false
}
