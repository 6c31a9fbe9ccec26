package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

const dateLayout = "2006-01-02"

// voucherWhere extracts the pushable predicates of a voucher query.
// Only a bare atom pushes down; composite trees fall back to a full scan
// with in-memory post-filtering, which IsMatch performs in either case.
func voucherWhere(q query.VoucherQuery) (string, []any) {
	atom, ok := q.(*query.VoucherAtom)
	if !ok {
		return "1=1", nil
	}
	where := "1=1"
	var args []any
	if atom.ID != nil {
		where += " AND id = ?"
		args = append(args, *atom.ID)
	}
	if atom.Type != "" && atom.Type != ledger.General {
		where += " AND type = ?"
		args = append(args, string(atom.Type))
	}
	r := atom.Range
	if r.NullOnly {
		where += " AND date IS NULL"
		return where, args
	}
	if r.Start != nil || r.End != nil {
		cond := "1=1"
		if r.Start != nil {
			cond += " AND date >= ?"
			args = append(args, r.Start.Format(dateLayout))
		}
		if r.End != nil {
			cond += " AND date <= ?"
			args = append(args, r.End.Format(dateLayout))
		}
		if r.Nullable {
			where += fmt.Sprintf(" AND (date IS NULL OR (%s))", cond)
		} else {
			where += fmt.Sprintf(" AND date IS NOT NULL AND (%s)", cond)
		}
	} else if !r.Nullable {
		where += " AND date IS NOT NULL"
	}
	return where, args
}

func scanVoucher(id string, date *string, doc string) (*ledger.Voucher, error) {
	var v ledger.Voucher
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return nil, fmt.Errorf("failed to decode voucher %s: %w", id, err)
	}
	v.ID = id
	if date != nil {
		d, err := time.Parse(dateLayout, *date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse voucher date %q: %w", *date, err)
		}
		v.Date = &d
	} else {
		v.Date = nil
	}
	return &v, nil
}

// SelectVouchers returns all vouchers matching the query.
func (s *Store) SelectVouchers(q query.VoucherQuery) ([]*ledger.Voucher, error) {
	where, args := voucherWhere(q)
	rows, err := s.db.Query("SELECT id, date, doc FROM vouchers WHERE "+where+" ORDER BY date, id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select vouchers: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Voucher
	for rows.Next() {
		var id, doc string
		var date *string
		if err := rows.Scan(&id, &date, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan voucher: %w", err)
		}
		v, err := scanVoucher(id, date, doc)
		if err != nil {
			return nil, err
		}
		if q == nil || q.IsMatch(v) {
			out = append(out, v)
		}
	}
	return out, rows.Err()
}

// SelectVoucher returns one voucher by identifier, or nil when absent.
func (s *Store) SelectVoucher(id string) (*ledger.Voucher, error) {
	var date *string
	var doc string
	err := s.db.QueryRow("SELECT date, doc FROM vouchers WHERE id = ?", id).Scan(&date, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select voucher %s: %w", id, err)
	}
	return scanVoucher(id, date, doc)
}

// UpsertVoucher inserts the voucher, assigning an identifier when empty,
// or replaces the stored voucher keyed by its identifier.
func (s *Store) UpsertVoucher(v *ledger.Voucher) (bool, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to encode voucher: %w", err)
	}
	var date *string
	if v.Date != nil {
		d := v.Date.Format(dateLayout)
		date = &d
	}
	_, err = s.db.Exec(`
		INSERT INTO vouchers (id, date, type, remark, doc) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			type = excluded.type,
			remark = excluded.remark,
			doc = excluded.doc
	`, v.ID, date, string(v.Type), v.Remark, string(doc))
	if err != nil {
		return false, fmt.Errorf("failed to upsert voucher: %w", err)
	}
	return true, nil
}

// DeleteVouchers deletes every voucher matching the query and returns the
// count.
func (s *Store) DeleteVouchers(q query.VoucherQuery) (int64, error) {
	matched, err := s.SelectVouchers(q)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.Transaction(func(tx *sql.Tx) error {
		for _, v := range matched {
			res, err := tx.Exec("DELETE FROM vouchers WHERE id = ?", v.ID)
			if err != nil {
				return fmt.Errorf("failed to delete voucher %s: %w", v.ID, err)
			}
			n, _ := res.RowsAffected()
			count += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SelectVoucherDetails expands the vouchers matching vq into one balance
// row per detail line matching dq, each carrying its parent voucher's
// date; rng additionally restricts the voucher dates. This is the input
// feed of the subtotal engine.
func (s *Store) SelectVoucherDetails(vq query.VoucherQuery, dq query.DetailQuery, rng query.DateRange) ([]ledger.Balance, error) {
	vouchers, err := s.SelectVouchers(vq)
	if err != nil {
		return nil, err
	}
	var out []ledger.Balance
	for _, v := range vouchers {
		if !rng.ContainsDate(v.Date) {
			continue
		}
		for _, d := range v.Details {
			if dq != nil && !dq.IsMatch(d) {
				continue
			}
			out = append(out, ledger.Balance{
				Date:     v.Date,
				Title:    d.Title,
				SubTitle: d.SubTitle,
				Content:  ledger.StrVal(d.Content),
				Remark:   ledger.StrVal(d.Remark),
				Fund:     d.Fund,
			})
		}
	}
	return out, nil
}
