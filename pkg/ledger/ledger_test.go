package ledger

import (
	"testing"
	"time"
)

func TestToleranceHelpers(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected bool
	}{
		{"exactly equal", 100, 100, true},
		{"within tolerance", 100, 100 + 1e-9, true},
		{"outside tolerance", 100, 100.001, false},
		{"accumulated drift", 0.1 + 0.2, 0.3, true},
		{"sign matters", 100, -100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FundEqual(tt.a, tt.b); got != tt.expected {
				t.Errorf("FundEqual(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}

	if !IsZero(1e-9) {
		t.Error("IsZero(1e-9) = false, expected true")
	}
	if IsZero(1e-7) {
		t.Error("IsZero(1e-7) = true, expected false")
	}
}

func TestVoucherTypeStoredStrings(t *testing.T) {
	// these strings are the persisted type column values
	types := map[VoucherType]string{
		Ordinary:     "Ordinary",
		Depreciation: "Depreciation",
		Devaluation:  "Devaluation",
		Amortization: "Amortization",
		CarryForward: "Carry",
		AnnualCarry:  "AnnualCarry",
		Uncertain:    "Uncertain",
	}
	for typ, s := range types {
		if string(typ) != s {
			t.Errorf("stored string for %s = %q, expected %q", s, string(typ), s)
		}
	}
}

func TestMatchesType(t *testing.T) {
	tests := []struct {
		name     string
		stored   VoucherType
		queried  VoucherType
		expected bool
	}{
		{"empty matches anything", Depreciation, "", true},
		{"exact match", Depreciation, Depreciation, true},
		{"mismatch", Depreciation, Amortization, false},
		{"general covers ordinary", Ordinary, General, true},
		{"general covers carry", CarryForward, General, true},
		{"general covers annual carry", AnnualCarry, General, true},
		{"general excludes depreciation", Depreciation, General, false},
		{"general excludes uncertain", Uncertain, General, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stored.MatchesType(tt.queried); got != tt.expected {
				t.Errorf("MatchesType(%s, %s) = %v, expected %v", tt.stored, tt.queried, got, tt.expected)
			}
		})
	}
}

func TestMatchesFields(t *testing.T) {
	withSub := &VoucherDetail{Title: 6602, SubTitle: 1, Content: Str("rent"), Fund: -100}
	noSub := &VoucherDetail{Title: 1001, Fund: 100}

	tests := []struct {
		name     string
		detail   *VoucherDetail
		title    int
		subTitle int
		content  *string
		remark   *string
		expected bool
	}{
		{"all wildcards", withSub, 0, -1, nil, nil, true},
		{"title match", withSub, 6602, -1, nil, nil, true},
		{"title mismatch", withSub, 1001, -1, nil, nil, false},
		{"sub-title match", withSub, 6602, 1, nil, nil, true},
		{"sub-title zero requires none", withSub, 6602, 0, nil, nil, false},
		{"sub-title zero on bare line", noSub, 1001, 0, nil, nil, true},
		{"content match", withSub, 0, -1, Str("rent"), nil, true},
		{"content mismatch", withSub, 0, -1, Str("food"), nil, false},
		{"empty content matches only empty", withSub, 0, -1, Str(""), nil, false},
		{"empty content on bare line", noSub, 0, -1, Str(""), nil, true},
		{"remark mismatch", withSub, 0, -1, nil, Str("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.detail.MatchesFields(tt.title, tt.subTitle, tt.content, tt.remark)
			if got != tt.expected {
				t.Errorf("MatchesFields() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsBalanced(t *testing.T) {
	balanced := &Voucher{Details: []*VoucherDetail{
		{Title: 1001, Fund: 33.33},
		{Title: 1002, Fund: 33.33},
		{Title: 2001, Fund: -66.66},
	}}
	if !balanced.IsBalanced() {
		t.Error("expected balanced voucher")
	}

	unbalanced := &Voucher{Details: []*VoucherDetail{
		{Title: 1001, Fund: 100},
		{Title: 2001, Fund: -99},
	}}
	if unbalanced.IsBalanced() {
		t.Error("expected unbalanced voucher")
	}

	empty := &Voucher{}
	if !empty.IsBalanced() {
		t.Error("an empty voucher sums to zero")
	}
}

func TestHasIgnoreMarker(t *testing.T) {
	if !HasIgnoreMarker("ignore!") {
		t.Error("expected marker to be recognized")
	}
	if HasIgnoreMarker("please ignore!") {
		t.Error("the marker is the whole remark, not a substring")
	}
	if HasIgnoreMarker("") {
		t.Error("empty remark carries no marker")
	}
}

func TestCloneIsDeep(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	v := &Voucher{
		ID:   "v1",
		Date: &date,
		Type: Ordinary,
		Details: []*VoucherDetail{
			{Title: 1001, Content: Str("cash"), Fund: 100},
			{Title: 2001, Fund: -100},
		},
	}

	c := v.Clone()
	c.Details[0].Fund = 999
	*c.Details[0].Content = "changed"
	*c.Date = date.AddDate(1, 0, 0)

	if v.Details[0].Fund != 100 {
		t.Error("clone shares detail structs with the original")
	}
	if *v.Details[0].Content != "cash" {
		t.Error("clone shares content pointers with the original")
	}
	if !v.Date.Equal(date) {
		t.Error("clone shares the date pointer with the original")
	}
}
