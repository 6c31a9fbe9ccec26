// Package subtotal implements the recursive multi-dimensional aggregation
// engine over ledger balance rows.
//
// Aggregation proceeds depth-first along an ordered list of grouping
// dimensions; at the leaf one of several aggregation modes fires. The leaf
// and node shapes are pluggable through a Reducer so that scalar sums and
// daily time series can live as siblings inside one result tree, which the
// report and chart consumers outside this core rely on.
package subtotal

import (
	"sort"
	"time"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

// Level is one grouping dimension.
type Level int

const (
	// Title groups by account title code.
	Title Level = iota
	// SubTitle groups by account sub-title code.
	SubTitle
	// Content groups by the free-text content field.
	Content
	// Remark groups by the free-text remark field.
	Remark
	// Day groups by calendar day.
	Day
	// Week groups by Monday-based calendar week.
	Week
	// Month groups by calendar month.
	Month
	// FinancialMonth groups by the configured financial month window.
	FinancialMonth
	// BillingMonth groups by the configured billing month window.
	BillingMonth
	// Year groups by calendar year.
	Year
)

// AggrMode selects the leaf aggregation.
type AggrMode int

const (
	// None sums the leaf's funds into one scalar.
	None AggrMode = iota
	// ChangedDay collapses same-day rows and emits only the days whose
	// running balance actually changed.
	ChangedDay
	// EveryDay emits one point per calendar day across the aggregation
	// range, carrying the running balance forward over gaps.
	EveryDay
)

// Args configures one aggregation run.
type Args struct {
	Levels    []Level
	NonZero   bool
	Aggr      AggrMode
	AggrRange query.DateRange
	Window    query.WindowConfig
}

// Key identifies one group at one level of the result tree. Exactly one of
// the value fields is meaningful, selected by Level; HasDate is false for
// the bucket of undated rows under a calendar dimension.
type Key struct {
	Level   Level
	Code    int
	Text    string
	Date    time.Time
	HasDate bool
}

// Reducer folds the traversal into a caller-defined result shape R.
// Leaf and Series are the two leaf outcomes (scalar sum vs. time series);
// Node wraps one subtree with its grouping key; Merge combines the sibling
// subtrees of one level.
type Reducer[R any] interface {
	Leaf(sum float64) R
	Series(points []ledger.Balance) R
	Node(key Key, child R) R
	Merge(children []R) R
}

// Aggregate runs the engine over a flat sequence of balance rows.
// The second return value is false when the entire result was pruned
// (NonZero with nothing left).
func Aggregate[R any](rows []ledger.Balance, args Args, red Reducer[R]) (R, bool) {
	return traverse(rows, args, 0, red)
}

func traverse[R any](rows []ledger.Balance, args Args, depth int, red Reducer[R]) (R, bool) {
	var zero R
	if depth == len(args.Levels) {
		return leaf(rows, args, red)
	}

	level := args.Levels[depth]
	keys, groups := groupBy(rows, level, args.Window)

	var children []R
	for _, k := range keys {
		child, ok := traverse(groups[k], args, depth+1, red)
		if !ok {
			continue
		}
		children = append(children, red.Node(k, child))
	}
	if len(children) == 0 {
		return zero, false
	}
	return red.Merge(children), true
}

func leaf[R any](rows []ledger.Balance, args Args, red Reducer[R]) (R, bool) {
	var zero R
	switch args.Aggr {
	case ChangedDay:
		points := changedDaySeries(rows)
		if len(points) == 0 {
			return zero, false
		}
		return red.Series(points), true
	case EveryDay:
		points := everyDaySeries(rows, args.AggrRange)
		if len(points) == 0 {
			return zero, false
		}
		return red.Series(points), true
	default:
		var sum float64
		for _, b := range rows {
			sum += b.Fund
		}
		if args.NonZero && ledger.IsZero(sum) {
			return zero, false
		}
		return red.Leaf(sum), true
	}
}

// groupBy partitions rows by the level's key function and returns the keys
// in deterministic ascending order.
func groupBy(rows []ledger.Balance, level Level, cfg query.WindowConfig) ([]Key, map[Key][]ledger.Balance) {
	groups := make(map[Key][]ledger.Balance)
	for _, b := range rows {
		k := keyOf(b, level, cfg)
		groups[k] = append(groups[k], b)
	}
	keys := make([]Key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys, groups
}

func keyOf(b ledger.Balance, level Level, cfg query.WindowConfig) Key {
	switch level {
	case Title:
		return Key{Level: level, Code: b.Title}
	case SubTitle:
		return Key{Level: level, Code: b.SubTitle}
	case Content:
		return Key{Level: level, Text: b.Content}
	case Remark:
		return Key{Level: level, Text: b.Remark}
	}
	if b.Date == nil {
		return Key{Level: level}
	}
	return Key{Level: level, Date: bucket(*b.Date, level, cfg), HasDate: true}
}

func keyLess(a, b Key) bool {
	switch a.Level {
	case Title, SubTitle:
		return a.Code < b.Code
	case Content, Remark:
		return a.Text < b.Text
	}
	// undated bucket sorts first
	if a.HasDate != b.HasDate {
		return !a.HasDate
	}
	return a.Date.Before(b.Date)
}

// bucket maps a date to the start of its period for a calendar level.
func bucket(d time.Time, level Level, cfg query.WindowConfig) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	switch level {
	case Day:
		return day
	case Week:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	case FinancialMonth:
		return *query.FinancialMonthRange(0, day, cfg).Start
	case BillingMonth:
		return *query.BillingMonthRange(0, day, cfg).Start
	case Year:
		return time.Date(d.Year(), 1, 1, 0, 0, 0, 0, d.Location())
	}
	return day
}

// dailyTotals collapses rows to per-day sums, sorted ascending. Undated
// rows fold into the returned baseline, an opening balance preceding every
// dated point.
func dailyTotals(rows []ledger.Balance) (baseline float64, days []time.Time, sums map[time.Time]float64) {
	sums = make(map[time.Time]float64)
	for _, b := range rows {
		if b.Date == nil {
			baseline += b.Fund
			continue
		}
		d := time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, b.Date.Location())
		if _, ok := sums[d]; !ok {
			days = append(days, d)
		}
		sums[d] += b.Fund
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return baseline, days, sums
}

func changedDaySeries(rows []ledger.Balance) []ledger.Balance {
	total, days, sums := dailyTotals(rows)
	var points []ledger.Balance
	for _, d := range days {
		delta := sums[d]
		if ledger.IsZero(delta) {
			continue
		}
		total += delta
		day := d
		points = append(points, ledger.Balance{Date: &day, Fund: total})
	}
	return points
}

func everyDaySeries(rows []ledger.Balance, rng query.DateRange) []ledger.Balance {
	total, days, sums := dailyTotals(rows)

	start, end := rng.Start, rng.End
	if start == nil && len(days) > 0 {
		start = &days[0]
	}
	if end == nil && len(days) > 0 {
		end = &days[len(days)-1]
	}
	if start == nil || end == nil || end.Before(*start) {
		return nil
	}

	// fold in everything that happened before the window
	for _, d := range days {
		if d.Before(*start) {
			total += sums[d]
		}
	}

	var points []ledger.Balance
	for d := *start; !d.After(*end); d = d.AddDate(0, 0, 1) {
		total += sums[d]
		day := d
		points = append(points, ledger.Balance{Date: &day, Fund: total})
	}
	return points
}
