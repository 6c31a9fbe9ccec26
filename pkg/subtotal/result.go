package subtotal

import "github.com/b1f6c1c4/ProfessionalAccounting-sub000/pkg/ledger"

// Result is the default tree shape produced by TreeReducer. Internal nodes
// carry the sum of their children's funds; leaves carry either a scalar sum
// or a time series.
type Result struct {
	Key      *Key
	Fund     float64
	Series   []ledger.Balance
	Children []*Result
}

// TreeReducer builds a Result tree; it is the reducer used by the CLI and
// the report consumers.
type TreeReducer struct{}

// Leaf builds a scalar leaf.
func (TreeReducer) Leaf(sum float64) *Result {
	return &Result{Fund: sum}
}

// Series builds a time-series leaf. Fund is the final running balance.
func (TreeReducer) Series(points []ledger.Balance) *Result {
	r := &Result{Series: points}
	if len(points) > 0 {
		r.Fund = points[len(points)-1].Fund
	}
	return r
}

// Node attaches a grouping key to a subtree.
func (TreeReducer) Node(key Key, child *Result) *Result {
	k := key
	child.Key = &k
	return child
}

// Merge combines sibling subtrees, summing their funds.
func (TreeReducer) Merge(children []*Result) *Result {
	n := &Result{Children: children}
	for _, c := range children {
		n.Fund += c.Fund
	}
	return n
}
