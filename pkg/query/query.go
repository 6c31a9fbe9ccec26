package query

import (
	"github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"
)

// Matcher is the pure in-memory evaluation surface shared by all three
// filter algebras. The repository façade pushes whatever sub-expressions it
// can down to storage; Matcher is the post-filter for everything it cannot
// (ForAll detail modifiers, complement trees, secondary reconciliation
// filters).
type Matcher[E any] interface {
	IsMatch(e E) bool
}

// SetOp is a binary set operator over two sub-queries.
type SetOp int

const (
	// Union matches when either side matches.
	Union SetOp = iota
	// Intersect matches when both sides match.
	Intersect
	// Subtract matches when the left side matches and the right does not.
	Subtract
)

// UnaryOp is a unary operator over one sub-query.
type UnaryOp int

const (
	// Identity passes the operand through unchanged.
	Identity UnaryOp = iota
	// Complement negates the operand.
	Complement
)

// Binary is a set-operator node over two sub-queries of the same algebra.
type Binary[E any] struct {
	Op   SetOp
	L, R Matcher[E]
}

// IsMatch evaluates the node against an entity.
func (b Binary[E]) IsMatch(e E) bool {
	switch b.Op {
	case Union:
		return b.L.IsMatch(e) || b.R.IsMatch(e)
	case Intersect:
		return b.L.IsMatch(e) && b.R.IsMatch(e)
	case Subtract:
		return b.L.IsMatch(e) && !b.R.IsMatch(e)
	}
	return false
}

// Unary is an identity or complement node over one sub-query.
type Unary[E any] struct {
	Op UnaryOp
	Q  Matcher[E]
}

// IsMatch evaluates the node against an entity.
func (u Unary[E]) IsMatch(e E) bool {
	if u.Op == Complement {
		return !u.Q.IsMatch(e)
	}
	return u.Q.IsMatch(e)
}

// Or builds a Union node.
func Or[E any](l, r Matcher[E]) Matcher[E] { return Binary[E]{Op: Union, L: l, R: r} }

// And builds an Intersect node. For detail queries this is the tight "x"
// tier of the textual grammar; Or/Except form the looser outer tier.
func And[E any](l, r Matcher[E]) Matcher[E] { return Binary[E]{Op: Intersect, L: l, R: r} }

// Except builds a Subtract node: l minus r.
func Except[E any](l, r Matcher[E]) Matcher[E] { return Binary[E]{Op: Subtract, L: l, R: r} }

// Not builds a Complement node.
func Not[E any](q Matcher[E]) Matcher[E] { return Unary[E]{Op: Complement, Q: q} }

// VoucherQuery filters ledger vouchers.
type VoucherQuery = Matcher[*ledger.Voucher]

// DetailQuery filters voucher detail lines.
type DetailQuery = Matcher[*ledger.VoucherDetail]

// DistributedQuery filters distributed instruments.
type DistributedQuery = Matcher[Distributed]

// Direction restricts a detail filter to one side of the ledger.
type Direction int

const (
	// DirAny matches debit and credit lines alike.
	DirAny Direction = 0
	// Debit matches lines with positive fund.
	Debit Direction = 1
	// Credit matches lines with negative fund.
	Credit Direction = -1
)

// DetailAtom is the atomic predicate over voucher detail lines.
// Title 0 means any title; SubTitle -1 any sub-title, 0 requires a line
// with no sub-title. Nil Content/Remark are wildcards.
type DetailAtom struct {
	Title    int
	SubTitle int
	Content  *string
	Remark   *string
	Dir      Direction
}

// AnyDetail matches every detail line.
func AnyDetail() *DetailAtom {
	return &DetailAtom{SubTitle: -1}
}

// IsMatch evaluates the atom against a detail line.
func (a *DetailAtom) IsMatch(d *ledger.VoucherDetail) bool {
	if !d.MatchesFields(a.Title, a.SubTitle, a.Content, a.Remark) {
		return false
	}
	switch a.Dir {
	case Debit:
		return d.Fund > 0
	case Credit:
		return d.Fund < 0
	}
	return true
}

// VoucherAtom is the atomic predicate over vouchers. A voucher satisfies
// the atom iff all present scalar fields match, its date satisfies Range,
// and its detail collection satisfies Detail: at least one line when ForAll
// is false, every line when ForAll is true (vacuously true for an empty
// voucher).
type VoucherAtom struct {
	ID     *string
	Remark *string
	Type   ledger.VoucherType
	Range  DateRange
	Detail DetailQuery
	ForAll bool
}

// AnyVoucher matches every voucher.
func AnyVoucher() *VoucherAtom {
	return &VoucherAtom{Range: Unconstrained()}
}

// IsMatch evaluates the atom against a voucher.
func (a *VoucherAtom) IsMatch(v *ledger.Voucher) bool {
	if a.ID != nil && v.ID != *a.ID {
		return false
	}
	if a.Remark != nil && v.Remark != *a.Remark {
		return false
	}
	if !v.Type.MatchesType(a.Type) {
		return false
	}
	if !a.Range.ContainsDate(v.Date) {
		return false
	}
	if a.Detail == nil {
		return true
	}
	if a.ForAll {
		for _, d := range v.Details {
			if !a.Detail.IsMatch(d) {
				return false
			}
		}
		return true
	}
	for _, d := range v.Details {
		if a.Detail.IsMatch(d) {
			return true
		}
	}
	return false
}

// Distributed is the queryable surface of a distributed instrument. The
// atom filters the instrument itself, never its schedule items.
type Distributed interface {
	QueryID() string
	QueryName() string
	QueryRemark() string
}

// DistributedAtom is the atomic predicate over distributed instruments.
// Nil fields are wildcards.
type DistributedAtom struct {
	ID     *string
	Name   *string
	Remark *string
}

// AnyDistributed matches every instrument.
func AnyDistributed() *DistributedAtom {
	return &DistributedAtom{}
}

// IsMatch evaluates the atom against an instrument.
func (a *DistributedAtom) IsMatch(d Distributed) bool {
	if a.ID != nil && d.QueryID() != *a.ID {
		return false
	}
	if a.Name != nil && d.QueryName() != *a.Name {
		return false
	}
	if a.Remark != nil && d.QueryRemark() != *a.Remark {
		return false
	}
	return true
}
