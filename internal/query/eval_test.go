package query

import (
	"testing"

	"github.com/searchine/searchine/internal/index"
)

// memSource is an in-memory postings source for evaluator tests.
type memSource struct {
	postings map[string][]index.DocID
	docCount uint32
}

func (m memSource) Postings(term string) (index.PostingList, error) {
	ids := m.postings[term]
	pl := make(index.PostingList, len(ids))
	for i, id := range ids {
		pl[i] = index.Posting{DocID: id, Frequency: 1}
	}
	return pl, nil
}

func (m memSource) DocCount() uint32 {
	return m.docCount
}

func ids(vals ...index.DocID) []index.DocID { return vals }

func equalIDs(a, b []index.DocID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestIntersect covers disjoint, identical, overlapping, and empty
// inputs.
func TestIntersect(t *testing.T) {
	cases := []struct {
		a, b, want []index.DocID
	}{
		{ids(1, 3, 5), ids(2, 4, 6), ids()},
		{ids(1, 2, 3), ids(1, 2, 3), ids(1, 2, 3)},
		{ids(1, 2, 4, 8), ids(2, 3, 8, 9), ids(2, 8)},
		{ids(), ids(1, 2), ids()},
		{ids(), ids(), ids()},
	}
	for _, tc := range cases {
		got := intersect(tc.a, tc.b)
		if !equalIDs(got, tc.want) {
			t.Errorf("intersect(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		// Commutative.
		if rev := intersect(tc.b, tc.a); !equalIDs(rev, got) {
			t.Errorf("intersect not commutative: %v vs %v", got, rev)
		}
	}
}

// TestUnion checks the sorted union with duplicates collapsed.
func TestUnion(t *testing.T) {
	cases := []struct {
		a, b, want []index.DocID
	}{
		{ids(1, 3), ids(2, 4), ids(1, 2, 3, 4)},
		{ids(1, 2), ids(1, 2), ids(1, 2)},
		{ids(1, 5, 9), ids(2, 5, 10), ids(1, 2, 5, 9, 10)},
		{ids(), ids(3), ids(3)},
		{ids(), ids(), ids()},
	}
	for _, tc := range cases {
		got := union(tc.a, tc.b)
		if !equalIDs(got, tc.want) {
			t.Errorf("union(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

// TestComplement checks negation against the dense 1..docCount universe.
func TestComplement(t *testing.T) {
	cases := []struct {
		docCount uint32
		a, want  []index.DocID
	}{
		{5, ids(2, 4), ids(1, 3, 5)},
		{3, ids(), ids(1, 2, 3)},
		{3, ids(1, 2, 3), ids()},
		{0, ids(), ids()},
	}
	for _, tc := range cases {
		got := complement(tc.docCount, tc.a)
		if !equalIDs(got, tc.want) {
			t.Errorf("complement(%d, %v) = %v, want %v", tc.docCount, tc.a, got, tc.want)
		}
	}
}

func testSource() memSource {
	return memSource{
		postings: map[string][]index.DocID{
			"run":  {1, 2},
			"fast": {2},
		},
		docCount: 2,
	}
}

// TestEvalBooleanScenarios pins the end-to-end boolean semantics over the
// two-document corpus from the indexing scenario.
func TestEvalBooleanScenarios(t *testing.T) {
	src := testSource()
	cases := []struct {
		expr Expr
		want []index.DocID
	}{
		{And{Term{"run"}, Term{"fast"}}, ids(2)},
		{Or{Term{"run"}, Term{"fast"}}, ids(1, 2)},
		{And{Term{"run"}, Not{Term{"fast"}}}, ids(1)},
		{Not{Term{"run"}}, ids()},
		{Term{"run"}, ids(1, 2)},
	}
	for _, tc := range cases {
		got, err := Eval(src, tc.expr)
		if err != nil {
			t.Fatalf("Eval(%s): %v", tc.expr, err)
		}
		if !equalIDs(got, tc.want) {
			t.Errorf("Eval(%s) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

// TestEvalUnknownTerm checks that unknown terms evaluate to an empty
// sequence, not an error.
func TestEvalUnknownTerm(t *testing.T) {
	src := testSource()
	got, err := Eval(src, Term{"missing"})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Eval = %v, want empty", got)
	}

	got, err = Eval(src, Or{Term{"missing"}, Term{"fast"}})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !equalIDs(got, ids(2)) {
		t.Fatalf("Eval = %v, want [2]", got)
	}
}

// TestEvalEmptyTermMatchesNothing checks the leaf the parser emits for a
// token the analyzer dropped entirely.
func TestEvalEmptyTermMatchesNothing(t *testing.T) {
	got, err := Eval(testSource(), Term{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Eval = %v, want empty", got)
	}
}
