package query

import (
	"reflect"
	"testing"

	"github.com/searchlabs/boolean-retrieval-platform/internal/index"
)

// buildIndex seals a store with the given term → docID postings.
func buildIndex(t *testing.T, postings map[string][]string) *index.Store {
	t.Helper()
	s := index.NewStore()
	for term, docs := range postings {
		for _, id := range docs {
			s.Add(term, id)
		}
	}
	s.Seal()
	return s
}

func eval(t *testing.T, idx *index.Store, q string) index.PostingList {
	t.Helper()
	expr, err := Parse(q, nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", q, err)
	}
	return Evaluate(expr, idx)
}

func TestEvaluateUnknownTermIsEmpty(t *testing.T) {
	idx := buildIndex(t, map[string][]string{"cat": {"1", "2"}})
	if got := eval(t, idx, "zebra"); len(got) != 0 {
		t.Errorf("unknown term evaluated to %v, want empty", got)
	}
}

func TestEvaluateEmptyTermLeaf(t *testing.T) {
	idx := buildIndex(t, map[string][]string{"cat": {"1"}})
	// A Term whose operand normalised to nothing matches no documents.
	if got := Evaluate(Term{Value: ""}, idx); len(got) != 0 {
		t.Errorf("empty term evaluated to %v, want empty", got)
	}
}

func TestEvaluateLeftToRightNoPrecedence(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat":  {"1", "2"},
		"dog":  {"2", "3"},
		"bird": {"3", "4"},
	})
	// (cat AND dog) OR bird = {2} ∪ {3,4} = {2,3,4}; OR never binds looser.
	want := index.PostingList{"2", "3", "4"}
	if got := eval(t, idx, "cat AND dog OR bird"); !reflect.DeepEqual(got, want) {
		t.Errorf("cat AND dog OR bird = %v, want %v", got, want)
	}
}

func TestEvaluateNot(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat":  {"1", "2"},
		"dog":  {"3"},
		"bird": {"4"},
	})
	want := index.PostingList{"3", "4"}
	if got := eval(t, idx, "NOT cat"); !reflect.DeepEqual(got, want) {
		t.Errorf("NOT cat = %v, want %v", got, want)
	}
}

func TestEvaluateAndNot(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat": {"1", "2", "3"},
		"dog": {"2", "4"},
	})
	want := index.PostingList{"1", "3"}
	if got := eval(t, idx, "cat AND NOT dog"); !reflect.DeepEqual(got, want) {
		t.Errorf("cat AND NOT dog = %v, want %v", got, want)
	}
}

func TestEvaluateAndNotEqualsAndOfNot(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat": {"1", "2", "3"},
		"dog": {"2", "4"},
	})
	direct := eval(t, idx, "cat AND NOT dog")
	composed := eval(t, idx, "cat AND (NOT dog)")
	if !reflect.DeepEqual(direct, composed) {
		t.Errorf("AND NOT (%v) differs from AND(l, NOT r) (%v)", direct, composed)
	}
}

func TestEvaluateCommutativity(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat": {"1", "2", "5"},
		"dog": {"2", "3", "5"},
	})
	if a, b := eval(t, idx, "cat AND dog"), eval(t, idx, "dog AND cat"); !reflect.DeepEqual(a, b) {
		t.Errorf("AND not commutative: %v vs %v", a, b)
	}
	if a, b := eval(t, idx, "cat OR dog"), eval(t, idx, "dog OR cat"); !reflect.DeepEqual(a, b) {
		t.Errorf("OR not commutative: %v vs %v", a, b)
	}
}

func TestEvaluateComplementLaws(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat": {"1", "2"},
		"dog": {"2", "3"},
	})
	exprs := []string{"cat", "dog", "cat AND dog", "cat OR dog", "NOT cat"}
	universe := idx.AllDocs()
	for _, q := range exprs {
		// e AND NOT e = ∅
		if got := eval(t, idx, "("+q+") AND NOT ("+q+")"); len(got) != 0 {
			t.Errorf("(%s) AND NOT (%s) = %v, want empty", q, q, got)
		}
		// e OR NOT e = Universe
		if got := eval(t, idx, "("+q+") OR NOT ("+q+")"); !reflect.DeepEqual(got, universe) {
			t.Errorf("(%s) OR NOT (%s) = %v, want %v", q, q, got, universe)
		}
	}
}

func TestEvaluateParenthesesGrouping(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat":  {"1", "2"},
		"dog":  {"2", "3"},
		"bird": {"3", "4"},
	})
	// cat AND (dog OR bird) = {1,2} ∩ {2,3,4} = {2}
	want := index.PostingList{"2"}
	if got := eval(t, idx, "cat AND (dog OR bird)"); !reflect.DeepEqual(got, want) {
		t.Errorf("cat AND (dog OR bird) = %v, want %v", got, want)
	}
}

func TestEvaluateHasNoSideEffects(t *testing.T) {
	idx := buildIndex(t, map[string][]string{
		"cat": {"1", "2"},
		"dog": {"2", "3"},
	})
	before := idx.Lookup("cat").Clone()
	universeBefore := idx.Universe().Size()

	eval(t, idx, "NOT (cat AND NOT dog) OR cat")

	if !reflect.DeepEqual(idx.Lookup("cat"), before) {
		t.Error("evaluation mutated a posting list")
	}
	if idx.Universe().Size() != universeBefore {
		t.Error("evaluation mutated the universe")
	}
}
