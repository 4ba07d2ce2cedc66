package query

import (
	"github.com/searchlabs/boolean-retrieval-platform/internal/index"
)

// Index is the read-only view of the inverted index the evaluator needs:
// per-term posting lists and the full document universe for negation.
type Index interface {
	Lookup(term string) index.PostingList
	AllDocs() index.PostingList
}

// Evaluate walks the expression tree bottom-up and returns the matching
// document IDs, sorted ascending. It is purely functional: the index is
// never mutated, unknown terms yield empty sets, and evaluation cannot
// fail on a well-formed tree.
func Evaluate(e Expr, idx Index) index.PostingList {
	switch n := e.(type) {
	case Term:
		if n.Value == "" {
			return index.PostingList{}
		}
		return idx.Lookup(n.Value)
	case And:
		return index.Intersect(Evaluate(n.Left, idx), Evaluate(n.Right, idx))
	case Or:
		return index.Union(Evaluate(n.Left, idx), Evaluate(n.Right, idx))
	case Not:
		// The one operation whose cost scales with the universe size
		// regardless of selectivity.
		return index.Difference(idx.AllDocs(), Evaluate(n.Expr, idx))
	case AndNot:
		// Direct difference; never materialises the complement of Right.
		return index.Difference(Evaluate(n.Left, idx), Evaluate(n.Right, idx))
	default:
		return index.PostingList{}
	}
}
