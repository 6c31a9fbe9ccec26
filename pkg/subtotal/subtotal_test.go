package subtotal

import (
	"testing"
	"time"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func row(date *time.Time, title int, content string, fund float64) ledger.Balance {
	return ledger.Balance{Date: date, Title: title, Content: content, Fund: fund}
}

func TestAggregateByTitle(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2024, 1, 5), 1001, "", 100),
		row(day(2024, 1, 6), 1001, "", -30),
		row(day(2024, 2, 1), 2001, "", 50),
	}

	res, ok := Aggregate(rows, Args{Levels: []Level{Title}}, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	if len(res.Children) != 2 {
		t.Fatalf("expected 2 title groups, got %d", len(res.Children))
	}
	if res.Children[0].Key.Code != 1001 || !ledger.FundEqual(res.Children[0].Fund, 70) {
		t.Errorf("group 1001 = %+v", res.Children[0])
	}
	if res.Children[1].Key.Code != 2001 || !ledger.FundEqual(res.Children[1].Fund, 50) {
		t.Errorf("group 2001 = %+v", res.Children[1])
	}
	if !ledger.FundEqual(res.Fund, 120) {
		t.Errorf("root fund = %f, expected 120", res.Fund)
	}
}

func TestAggregateNested(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2024, 1, 5), 1001, "alice", 100),
		row(day(2024, 2, 5), 1001, "alice", 25),
		row(day(2024, 1, 9), 1001, "bob", 40),
	}

	res, ok := Aggregate(rows, Args{Levels: []Level{Content, Month}}, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	if len(res.Children) != 2 {
		t.Fatalf("expected alice and bob, got %d groups", len(res.Children))
	}
	alice := res.Children[0]
	if alice.Key.Text != "alice" || len(alice.Children) != 2 {
		t.Fatalf("alice = %+v", alice)
	}
	jan := alice.Children[0]
	if !jan.Key.Date.Equal(*day(2024, 1, 1)) || !ledger.FundEqual(jan.Fund, 100) {
		t.Errorf("alice january = %+v", jan)
	}
}

func TestAggregateNonZero(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2024, 1, 5), 1001, "", 100),
		row(day(2024, 1, 6), 1001, "", -100),
		row(day(2024, 1, 7), 2001, "", 5),
	}

	res, ok := Aggregate(rows, Args{Levels: []Level{Title}, NonZero: true}, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	if len(res.Children) != 1 || res.Children[0].Key.Code != 2001 {
		t.Fatalf("expected only 2001 to survive, got %+v", res.Children)
	}

	_, ok = Aggregate(rows[:2], Args{Levels: []Level{Title}, NonZero: true}, TreeReducer{})
	if ok {
		t.Error("expected the whole result to be pruned")
	}
}

func TestChangedDaySeries(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2024, 1, 2), 1001, "", 100),
		row(day(2024, 1, 3), 1001, "", 40),
		row(day(2024, 1, 3), 1001, "", -40), // nets to zero, day omitted
		row(day(2024, 1, 5), 1001, "", -30),
	}

	res, ok := Aggregate(rows, Args{Aggr: ChangedDay}, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	if len(res.Series) != 2 {
		t.Fatalf("expected 2 changed days, got %d", len(res.Series))
	}
	if !res.Series[0].Date.Equal(*day(2024, 1, 2)) || !ledger.FundEqual(res.Series[0].Fund, 100) {
		t.Errorf("first point = %+v", res.Series[0])
	}
	if !res.Series[1].Date.Equal(*day(2024, 1, 5)) || !ledger.FundEqual(res.Series[1].Fund, 70) {
		t.Errorf("second point = %+v", res.Series[1])
	}
}

func TestEveryDaySeries(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2024, 1, 2), 1001, "", 100),
		row(day(2024, 1, 4), 1001, "", 50),
	}
	args := Args{
		Aggr:      EveryDay,
		AggrRange: query.Between(day(2024, 1, 1), day(2024, 1, 5)),
	}

	res, ok := Aggregate(rows, args, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	expected := []float64{0, 100, 100, 150, 150}
	if len(res.Series) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(res.Series))
	}
	for i, want := range expected {
		if !ledger.FundEqual(res.Series[i].Fund, want) {
			t.Errorf("day %d fund = %f, expected %f", i+1, res.Series[i].Fund, want)
		}
	}
	if !ledger.FundEqual(res.Fund, 150) {
		t.Errorf("series leaf fund = %f, expected final balance 150", res.Fund)
	}
}

func TestEveryDayCountsHistoryBeforeWindow(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2023, 12, 1), 1001, "", 500),
		row(day(2024, 1, 2), 1001, "", 100),
	}
	args := Args{
		Aggr:      EveryDay,
		AggrRange: query.Between(day(2024, 1, 1), day(2024, 1, 2)),
	}

	res, ok := Aggregate(rows, args, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	if !ledger.FundEqual(res.Series[0].Fund, 500) {
		t.Errorf("opening balance = %f, expected 500", res.Series[0].Fund)
	}
	if !ledger.FundEqual(res.Series[1].Fund, 600) {
		t.Errorf("closing balance = %f, expected 600", res.Series[1].Fund)
	}
}

func TestUndatedRowsBucketFirst(t *testing.T) {
	rows := []ledger.Balance{
		row(day(2024, 1, 5), 1001, "", 100),
		row(nil, 1001, "", 7),
	}

	res, ok := Aggregate(rows, Args{Levels: []Level{Day}}, TreeReducer{})
	if !ok {
		t.Fatal("expected a result")
	}
	if len(res.Children) != 2 {
		t.Fatalf("expected undated and dated buckets, got %d", len(res.Children))
	}
	if res.Children[0].Key.HasDate {
		t.Error("undated bucket must sort first")
	}
	if !ledger.FundEqual(res.Children[0].Fund, 7) {
		t.Errorf("undated bucket fund = %f", res.Children[0].Fund)
	}
}
