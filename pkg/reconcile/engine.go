// Package reconcile keeps the computed schedules of distributed
// instruments synchronized with generated ledger vouchers: it binds
// existing vouchers to schedule items, creates or repairs vouchers whose
// contents drifted, and offers tiered reset operations for recovering from
// partial failures.
package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

// Ledger is the slice of the repository façade the engine consumes.
// Per-call consistency only; callers needing atomicity across the
// read-reconcile-write sequence must provide it externally.
type Ledger interface {
	SelectVouchers(q query.VoucherQuery) ([]*ledger.Voucher, error)
	SelectVoucher(id string) (*ledger.Voucher, error)
	UpsertVoucher(v *ledger.Voucher) (bool, error)
	DeleteVouchers(q query.VoucherQuery) (int64, error)
}

// Engine reconciles one instrument at a time against the ledger.
type Engine struct {
	repo Ledger
	log  *slog.Logger
}

// New creates an Engine. A nil logger falls back to slog.Default.
func New(repo Ledger, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{repo: repo, log: log}
}

// Failure reasons reported by Update. Ambiguity and drift are expected
// steady-state conditions requiring human judgment, so they are returned,
// never raised as hard errors.
const (
	ReasonWouldCreate   = "voucher missing (edit-only run)"
	ReasonDateMismatch  = "voucher date disagrees with schedule"
	ReasonTypeMismatch  = "voucher type disagrees with schedule"
	ReasonAmbiguousLine = "multiple voucher lines match one expected line"
)

// FailedItem is one schedule item Update could not reconcile.
type FailedItem struct {
	Item      *distributed.ScheduleItem
	VoucherID string
	Reason    string
}

// Report summarizes one Update run.
type Report struct {
	Created  int
	Modified int
	Failed   []FailedItem
}

// Ok reports whether every item reconciled cleanly.
func (r Report) Ok() bool { return len(r.Failed) == 0 }

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Update ensures a ledger voucher exists for every schedule item inside
// the date range, matching the item's expected postings. With collapsed
// set, vouchers are posted undated. With editOnly set, nothing is created
// and date drift is tolerated; only line contents are reconciled. Items
// that cannot be reconciled come back in the report, never silently
// dropped, so an edit-only run doubles as a consistency check.
func (e *Engine) Update(inst distributed.Instrument, rng query.DateRange, collapsed, editOnly bool) (Report, error) {
	inst.Regularize()
	var rep Report
	for _, it := range inst.Items() {
		if !rng.ContainsDate(it.Date) || it.Ignored() {
			continue
		}
		if err := e.updateItem(inst, it, &rep, collapsed, editOnly); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

func (e *Engine) updateItem(inst distributed.Instrument, it *distributed.ScheduleItem, rep *Report, collapsed, editOnly bool) error {
	exp := ExpectedVoucher(inst, it, collapsed)

	if it.VoucherID == "" {
		if exp == nil {
			// acquisitions and dispositions carry user-entered lines;
			// binding them is RegisterVouchers' job
			return nil
		}
		if editOnly {
			rep.Failed = append(rep.Failed, FailedItem{Item: it, Reason: ReasonWouldCreate})
			return nil
		}
		if _, err := e.repo.UpsertVoucher(exp); err != nil {
			return fmt.Errorf("failed to create voucher: %w", err)
		}
		it.VoucherID = exp.ID
		rep.Created++
		e.log.Debug("created voucher", "id", exp.ID, "kind", it.Kind)
		return nil
	}

	v, err := e.repo.SelectVoucher(it.VoucherID)
	if err != nil {
		return fmt.Errorf("failed to read voucher %s: %w", it.VoucherID, err)
	}
	if v == nil {
		// bound voucher deleted out-of-band
		if exp == nil || editOnly {
			rep.Failed = append(rep.Failed, FailedItem{Item: it, VoucherID: it.VoucherID, Reason: ReasonWouldCreate})
			return nil
		}
		exp.ID = ""
		if _, err := e.repo.UpsertVoucher(exp); err != nil {
			return fmt.Errorf("failed to recreate voucher: %w", err)
		}
		it.VoucherID = exp.ID
		rep.Created++
		e.log.Debug("recreated voucher", "id", exp.ID, "kind", it.Kind)
		return nil
	}
	if ledger.HasIgnoreMarker(v.Remark) {
		return nil
	}
	if exp == nil {
		// manually registered kinds only get a drift check
		if !sameDay(v.Date, it.Date) && !editOnly && !collapsed {
			rep.Failed = append(rep.Failed, FailedItem{Item: it, VoucherID: v.ID, Reason: ReasonDateMismatch})
		}
		return nil
	}

	if v.Type != exp.Type {
		rep.Failed = append(rep.Failed, FailedItem{Item: it, VoucherID: v.ID, Reason: ReasonTypeMismatch})
		return nil
	}
	if !sameDay(v.Date, exp.Date) && !editOnly {
		rep.Failed = append(rep.Failed, FailedItem{Item: it, VoucherID: v.ID, Reason: ReasonDateMismatch})
		return nil
	}

	modified, ok := reconcileDetails(v, exp.Details, editOnly, rep, it)
	if !ok {
		return nil
	}
	if modified {
		if _, err := e.repo.UpsertVoucher(v); err != nil {
			return fmt.Errorf("failed to update voucher %s: %w", v.ID, err)
		}
		rep.Modified++
		e.log.Debug("updated voucher", "id", v.ID, "kind", it.Kind)
	}
	return nil
}

// reconcileDetails matches each expected line against the voucher's actual
// lines one field-group (title, sub-title, content, remark) at a time.
// Returns whether the voucher was modified and whether the item succeeded.
func reconcileDetails(v *ledger.Voucher, expected []*ledger.VoucherDetail, editOnly bool, rep *Report, it *distributed.ScheduleItem) (bool, bool) {
	modified := false
	for _, ed := range expected {
		var matches []*ledger.VoucherDetail
		for _, d := range v.Details {
			if d.MatchesFields(ed.Title, ed.SubTitle, ed.Content, ed.Remark) {
				matches = append(matches, d)
			}
		}
		switch len(matches) {
		case 0:
			if ledger.IsZero(ed.Fund) {
				continue
			}
			if editOnly {
				rep.Failed = append(rep.Failed, FailedItem{Item: it, VoucherID: v.ID, Reason: ReasonWouldCreate})
				return modified, false
			}
			nd := *ed
			v.Details = append(v.Details, &nd)
			modified = true
		case 1:
			if !ledger.FundEqual(matches[0].Fund, ed.Fund) {
				matches[0].Fund = ed.Fund
				modified = true
			}
		default:
			rep.Failed = append(rep.Failed, FailedItem{Item: it, VoucherID: v.ID, Reason: ReasonAmbiguousLine})
			return modified, false
		}
	}
	return modified, true
}
