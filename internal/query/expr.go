// Package query implements the boolean query language: a lexer and parser
// producing an immutable expression tree over terms and the operators
// AND, OR, NOT, and AND NOT, plus an evaluator that reduces a tree to the
// matching document set by set operations on posting lists.
package query

import "fmt"

// Expr is the interface implemented by all expression-tree nodes. Leaves
// are Terms; internal nodes combine sub-expressions. Trees are immutable
// once parsed.
type Expr interface {
	expr() // marker method

	// String returns a canonical, fully parenthesised rendering of the
	// expression, used for cache keys and logging.
	String() string
}

// Term is a leaf node referencing a single normalised term. A Term whose
// Value is empty (an operand that normalised to nothing) matches no
// documents.
type Term struct {
	Value string
}

// And matches documents present in both sub-expressions.
type And struct {
	Left, Right Expr
}

// Or matches documents present in either sub-expression.
type Or struct {
	Left, Right Expr
}

// Not matches every document in the universe absent from the
// sub-expression.
type Not struct {
	Expr Expr
}

// AndNot matches documents in Left that are absent from Right. It is
// semantically And(Left, Not(Right)) but is evaluated as a direct set
// difference.
type AndNot struct {
	Left, Right Expr
}

func (Term) expr()   {}
func (And) expr()    {}
func (Or) expr()     {}
func (Not) expr()    {}
func (AndNot) expr() {}

func (t Term) String() string { return t.Value }

func (a And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left, a.Right)
}

func (o Or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.Left, o.Right)
}

func (n Not) String() string {
	return fmt.Sprintf("(NOT %s)", n.Expr)
}

func (a AndNot) String() string {
	return fmt.Sprintf("(%s AND NOT %s)", a.Left, a.Right)
}

// Terms returns the distinct term values referenced by the expression, in
// first-appearance order. Empty (never-matching) terms are skipped.
func Terms(e Expr) []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Term:
			if n.Value == "" {
				return
			}
			if _, ok := seen[n.Value]; !ok {
				seen[n.Value] = struct{}{}
				out = append(out, n.Value)
			}
		case And:
			walk(n.Left)
			walk(n.Right)
		case Or:
			walk(n.Left)
			walk(n.Right)
		case Not:
			walk(n.Expr)
		case AndNot:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return out
}
