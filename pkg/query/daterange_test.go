package query

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func dp(y int, m time.Month, day int) *time.Time {
	t := d(y, m, day)
	return &t
}

func TestDateRangeContains(t *testing.T) {
	tests := []struct {
		name     string
		rng      DateRange
		date     *time.Time
		expected bool
	}{
		{"unconstrained dated", Unconstrained(), dp(2024, 1, 15), true},
		{"unconstrained undated", Unconstrained(), nil, true},
		{"null-only undated", TheNullOnly(), nil, true},
		{"null-only dated", TheNullOnly(), dp(2024, 1, 15), false},
		{"between inside", Between(dp(2024, 1, 1), dp(2024, 1, 31)), dp(2024, 1, 15), true},
		{"between on start", Between(dp(2024, 1, 1), dp(2024, 1, 31)), dp(2024, 1, 1), true},
		{"between on end", Between(dp(2024, 1, 1), dp(2024, 1, 31)), dp(2024, 1, 31), true},
		{"between before", Between(dp(2024, 1, 1), dp(2024, 1, 31)), dp(2023, 12, 31), false},
		{"between after", Between(dp(2024, 1, 1), dp(2024, 1, 31)), dp(2024, 2, 1), false},
		{"between undated", Between(dp(2024, 1, 1), dp(2024, 1, 31)), nil, false},
		{"open start", Between(nil, dp(2024, 1, 31)), dp(2000, 1, 1), true},
		{"open end", Between(dp(2024, 1, 1), nil), dp(2030, 1, 1), true},
		{"nullable range undated", DateRange{Start: dp(2024, 1, 1), Nullable: true}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.ContainsDate(tt.date); got != tt.expected {
				t.Errorf("ContainsDate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCompareComparatorsAreAsymmetric(t *testing.T) {
	day := dp(2024, 1, 15)

	if CompareDateAsc(nil, day) != -1 {
		t.Error("CompareDateAsc: nil must sort before any date")
	}
	if CompareDateNilLast(nil, day) != 1 {
		t.Error("CompareDateNilLast: nil must sort after any date")
	}
	if CompareDateAsc(nil, nil) != 0 || CompareDateNilLast(nil, nil) != 0 {
		t.Error("nil/nil must compare equal in both orders")
	}
	if CompareDateAsc(day, dp(2024, 1, 16)) >= 0 {
		t.Error("CompareDateAsc: earlier date must sort first")
	}
}

func TestCalendarWindows(t *testing.T) {
	ref := d(2024, 3, 15) // a Friday

	tests := []struct {
		name  string
		rng   DateRange
		start time.Time
		end   time.Time
	}{
		{"day today", DayRange(0, ref), d(2024, 3, 15), d(2024, 3, 15)},
		{"day yesterday", DayRange(-1, ref), d(2024, 3, 14), d(2024, 3, 14)},
		{"week current", WeekRange(0, ref), d(2024, 3, 11), d(2024, 3, 17)},
		{"week previous", WeekRange(-1, ref), d(2024, 3, 4), d(2024, 3, 10)},
		{"month current", MonthRange(0, ref), d(2024, 3, 1), d(2024, 3, 31)},
		{"month next", MonthRange(1, ref), d(2024, 4, 1), d(2024, 4, 30)},
		{"year current", YearRange(0, ref), d(2024, 1, 1), d(2024, 12, 31)},
		{
			"financial month before start day",
			FinancialMonthRange(0, ref, WindowConfig{FinancialStartDay: 20, BillingStartDay: 1}),
			d(2024, 2, 20), d(2024, 3, 19),
		},
		{
			"financial month on start day",
			FinancialMonthRange(0, d(2024, 3, 20), WindowConfig{FinancialStartDay: 20, BillingStartDay: 1}),
			d(2024, 3, 20), d(2024, 4, 19),
		},
		{
			"billing month defaults to calendar",
			BillingMonthRange(0, ref, DefaultWindow),
			d(2024, 3, 1), d(2024, 3, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rng.Start == nil || tt.rng.End == nil {
				t.Fatal("window must have both bounds")
			}
			if !tt.rng.Start.Equal(tt.start) {
				t.Errorf("start = %v, expected %v", tt.rng.Start, tt.start)
			}
			if !tt.rng.End.Equal(tt.end) {
				t.Errorf("end = %v, expected %v", tt.rng.End, tt.end)
			}
		})
	}
}
