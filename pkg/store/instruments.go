package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/distributed"
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/query"
)

// distributedWhere extracts the pushable predicates of an instrument
// query. As with vouchers, only a bare atom pushes down.
func distributedWhere(q query.DistributedQuery) (string, []any) {
	atom, ok := q.(*query.DistributedAtom)
	if !ok {
		return "1=1", nil
	}
	where := "1=1"
	var args []any
	if atom.ID != nil {
		where += " AND id = ?"
		args = append(args, *atom.ID)
	}
	if atom.Name != nil {
		where += " AND name = ?"
		args = append(args, *atom.Name)
	}
	if atom.Remark != nil {
		where += " AND remark = ?"
		args = append(args, *atom.Remark)
	}
	return where, args
}

// selectDocs runs the pushdown query over one instrument table and decodes
// each document through decode, post-filtering with q.
func selectDocs[T query.Distributed](s *Store, table string, q query.DistributedQuery, decode func([]byte) (T, error)) ([]T, error) {
	where, args := distributedWhere(q)
	rows, err := s.db.Query("SELECT doc FROM "+table+" WHERE "+where+" ORDER BY name, id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		inst, err := decode([]byte(doc))
		if err != nil {
			return nil, err
		}
		if q == nil || q.IsMatch(inst) {
			out = append(out, inst)
		}
	}
	return out, rows.Err()
}

func decodeAsset(doc []byte) (*distributed.Asset, error) {
	var a distributed.Asset
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}
	a.Regularize()
	return &a, nil
}

func decodeAmortization(doc []byte) (*distributed.Amortization, error) {
	var m distributed.Amortization
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("failed to decode amortization: %w", err)
	}
	m.Regularize()
	return &m, nil
}

// SelectAssets returns all assets matching the query, regularized.
func (s *Store) SelectAssets(q query.DistributedQuery) ([]*distributed.Asset, error) {
	return selectDocs(s, "assets", q, decodeAsset)
}

// SelectAmortizations returns all amortizations matching the query,
// regularized.
func (s *Store) SelectAmortizations(q query.DistributedQuery) ([]*distributed.Amortization, error) {
	return selectDocs(s, "amortizations", q, decodeAmortization)
}

func (s *Store) selectDoc(table, id string) ([]byte, error) {
	var doc string
	err := s.db.QueryRow("SELECT doc FROM "+table+" WHERE id = ?", id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select %s %s: %w", table, id, err)
	}
	return []byte(doc), nil
}

// SelectAsset returns one asset by identifier, or nil when absent.
func (s *Store) SelectAsset(id uuid.UUID) (*distributed.Asset, error) {
	doc, err := s.selectDoc("assets", id.String())
	if doc == nil || err != nil {
		return nil, err
	}
	return decodeAsset(doc)
}

// SelectAmortization returns one amortization by identifier, or nil when
// absent.
func (s *Store) SelectAmortization(id uuid.UUID) (*distributed.Amortization, error) {
	doc, err := s.selectDoc("amortizations", id.String())
	if doc == nil || err != nil {
		return nil, err
	}
	return decodeAmortization(doc)
}

func (s *Store) upsertDoc(table, id, name, remark string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", table, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO `+table+` (id, name, remark, doc) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			remark = excluded.remark,
			doc = excluded.doc
	`, id, name, remark, string(doc))
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", table, err)
	}
	return nil
}

// UpsertAsset inserts the asset, assigning an identifier when zero, or
// replaces the stored asset keyed by its identifier. The schedule is
// regularized before writing.
func (s *Store) UpsertAsset(a *distributed.Asset) (bool, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Regularize()
	if err := s.upsertDoc("assets", a.ID.String(), a.Name, a.Remark, a); err != nil {
		return false, err
	}
	return true, nil
}

// UpsertAmortization inserts the amortization, assigning an identifier
// when zero, or replaces the stored amortization keyed by its identifier.
// The schedule is regularized before writing.
func (s *Store) UpsertAmortization(m *distributed.Amortization) (bool, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Regularize()
	if err := s.upsertDoc("amortizations", m.ID.String(), m.Name, m.Remark, m); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) deleteByQuery(table string, ids []string) (int64, error) {
	var count int64
	err := s.Transaction(func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.Exec("DELETE FROM "+table+" WHERE id = ?", id)
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
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

// DeleteAssets deletes every asset matching the query and returns the
// count. No referential cleanup happens on generated vouchers; orphans are
// the reconciliation engine's concern.
func (s *Store) DeleteAssets(q query.DistributedQuery) (int64, error) {
	matched, err := s.SelectAssets(q)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(matched))
	for i, a := range matched {
		ids[i] = a.ID.String()
	}
	return s.deleteByQuery("assets", ids)
}

// DeleteAmortizations deletes every amortization matching the query and
// returns the count.
func (s *Store) DeleteAmortizations(q query.DistributedQuery) (int64, error) {
	matched, err := s.SelectAmortizations(q)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(matched))
	for i, m := range matched {
		ids[i] = m.ID.String()
	}
	return s.deleteByQuery("amortizations", ids)
}
