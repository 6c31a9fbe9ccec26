package reconcile

import (
	"fmt"
	"math"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

// taggedQuery builds the voucher query matching the instrument's identity
// tag in a detail content field, optionally intersected with extra.
func taggedQuery(inst distributed.Instrument, rng query.DateRange, extra query.VoucherQuery) query.VoucherQuery {
	tag := inst.QueryID()
	var q query.VoucherQuery = &query.VoucherAtom{
		Range:  rng,
		Detail: &query.DetailAtom{SubTitle: -1, Content: &tag},
	}
	if extra != nil {
		q = query.And(q, extra)
	}
	return q
}

// RegisterVouchers finds ledger vouchers carrying the instrument's
// identity tag that no schedule item references yet, and binds each to the
// unique unbound item of the matching kind, date, amount and tagged
// account. Vouchers
// whose match is ambiguous (zero or several candidate items) are returned
// for manual registration rather than guessed; ignore-marked vouchers are
// skipped entirely.
func (e *Engine) RegisterVouchers(inst distributed.Instrument, rng query.DateRange, extra query.VoucherQuery) (int, []*ledger.Voucher, error) {
	inst.Regularize()
	tag := inst.QueryID()

	vouchers, err := e.repo.SelectVouchers(taggedQuery(inst, rng, extra))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to select candidate vouchers: %w", err)
	}

	bound := make(map[string]bool)
	for _, it := range inst.Items() {
		if it.VoucherID != "" {
			bound[it.VoucherID] = true
		}
	}

	registered := 0
	var manual []*ledger.Voucher
	for _, v := range vouchers {
		if ledger.HasIgnoreMarker(v.Remark) || bound[v.ID] {
			continue
		}
		td := taggedDetail(v, tag)
		if td == nil {
			continue
		}
		amount := math.Abs(td.Fund)

		var candidates []*distributed.ScheduleItem
		for _, it := range inst.Items() {
			if it.VoucherID != "" || !matchesKind(it.Kind, v.Type) {
				continue
			}
			if !sameDay(it.Date, v.Date) && v.Date != nil {
				continue
			}
			if !ledger.FundEqual(itemAmount(it), amount) {
				continue
			}
			if b, ok := taggedBinding(inst, it.Kind); ok && !td.MatchesFields(b.Title, b.SubTitle, nil, nil) {
				continue
			}
			candidates = append(candidates, it)
		}
		if len(candidates) != 1 {
			manual = append(manual, v)
			e.log.Debug("ambiguous registration", "voucher", v.ID, "candidates", len(candidates))
			continue
		}
		candidates[0].VoucherID = v.ID
		bound[v.ID] = true
		registered++
	}
	return registered, manual, nil
}

func matchesKind(k distributed.ItemKind, t ledger.VoucherType) bool {
	for _, kk := range kindsForType(t) {
		if kk == k {
			return true
		}
	}
	return false
}

// taggedDetail is the voucher line carrying the instrument tag, or nil.
func taggedDetail(v *ledger.Voucher, tag string) *ledger.VoucherDetail {
	for _, d := range v.Details {
		if ledger.StrVal(d.Content) == tag {
			return d
		}
	}
	return nil
}
