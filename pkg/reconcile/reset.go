package reconcile

import (
	"fmt"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

// ResetSoft unbinds schedule items whose referenced voucher has vanished
// from the ledger. Nothing is deleted. Returns the number of items
// unbound.
func (e *Engine) ResetSoft(inst distributed.Instrument, rng query.DateRange) (int, error) {
	count := 0
	for _, it := range inst.Items() {
		if it.VoucherID == "" || !rng.ContainsDate(it.Date) {
			continue
		}
		v, err := e.repo.SelectVoucher(it.VoucherID)
		if err != nil {
			return count, fmt.Errorf("failed to read voucher %s: %w", it.VoucherID, err)
		}
		if v == nil {
			it.VoucherID = ""
			count++
		}
	}
	return count, nil
}

// ResetMixed deletes still-existing bound vouchers inside the range, then
// unbinds their items. Ignore-marked vouchers survive and stay bound.
// Returns the number of items unbound.
func (e *Engine) ResetMixed(inst distributed.Instrument, rng query.DateRange) (int, error) {
	count := 0
	for _, it := range inst.Items() {
		if it.VoucherID == "" || !rng.ContainsDate(it.Date) {
			continue
		}
		v, err := e.repo.SelectVoucher(it.VoucherID)
		if err != nil {
			return count, fmt.Errorf("failed to read voucher %s: %w", it.VoucherID, err)
		}
		if v != nil {
			if ledger.HasIgnoreMarker(v.Remark) {
				continue
			}
			id := v.ID
			if _, err := e.repo.DeleteVouchers(&query.VoucherAtom{ID: &id, Range: query.Unconstrained()}); err != nil {
				return count, fmt.Errorf("failed to delete voucher %s: %w", id, err)
			}
		}
		it.VoucherID = ""
		count++
	}
	return count, nil
}

// ResetHard bulk-deletes every voucher matching the instrument's generated
// type/tag signature and the extra filter, regardless of schedule state,
// then soft-unbinds whatever the deletion orphaned. This is the last
// escalation level for recovering from partial failures. Returns the
// number of vouchers deleted.
func (e *Engine) ResetHard(inst distributed.Instrument, rng query.DateRange, extra query.VoucherQuery) (int64, error) {
	var types []ledger.VoucherType
	switch inst.(type) {
	case *distributed.Asset:
		types = []ledger.VoucherType{ledger.Depreciation, ledger.Devaluation}
	case *distributed.Amortization:
		types = []ledger.VoucherType{ledger.Amortization}
	}

	var total int64
	tag := inst.QueryID()
	for _, t := range types {
		var q query.VoucherQuery = &query.VoucherAtom{
			Type:   t,
			Range:  rng,
			Detail: &query.DetailAtom{SubTitle: -1, Content: &tag},
		}
		if extra != nil {
			q = query.And(q, extra)
		}
		n, err := e.repo.DeleteVouchers(q)
		if err != nil {
			return total, fmt.Errorf("failed to delete %s vouchers: %w", t, err)
		}
		total += n
	}
	if _, err := e.ResetSoft(inst, query.Unconstrained()); err != nil {
		return total, err
	}
	return total, nil
}
