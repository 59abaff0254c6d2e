package query

import (
	"fmt"

	"github.com/searchine/searchine/internal/index"
)

// Source supplies postings for evaluation. Both the on-disk index and the
// in-memory vocabulary satisfy it; unknown terms yield a nil list, never
// an error.
type Source interface {
	Postings(term string) (index.PostingList, error)
	DocCount() uint32
}

// Eval evaluates expr against src and returns matching document ids,
// sorted ascending. Result order is purely by doc id; there is no
// scoring.
func Eval(src Source, expr Expr) ([]index.DocID, error) {
	switch e := expr.(type) {
	case Term:
		if e.Text == "" {
			return nil, nil
		}
		pl, err := src.Postings(e.Text)
		if err != nil {
			return nil, err
		}
		return pl.DocIDs(), nil
	case And:
		left, err := Eval(src, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := Eval(src, e.Right)
		if err != nil {
			return nil, err
		}
		return intersect(left, right), nil
	case Or:
		left, err := Eval(src, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := Eval(src, e.Right)
		if err != nil {
			return nil, err
		}
		return union(left, right), nil
	case Not:
		operand, err := Eval(src, e.Operand)
		if err != nil {
			return nil, err
		}
		return complement(src.DocCount(), operand), nil
	default:
		return nil, fmt.Errorf("unsupported expression node %T", expr)
	}
}

// intersect merges two sorted duplicate-free id sequences in one forward
// walk, keeping ids present in both.
func intersect(a, b []index.DocID) []index.DocID {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]index.DocID, 0, n)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// union merges two sorted duplicate-free id sequences, collapsing
// duplicates.
func union(a, b []index.DocID) []index.DocID {
	out := make([]index.DocID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// complement returns the ordered id universe 1..docCount minus a. Doc ids
// are dense and assigned from 1 by the collection catalog.
func complement(docCount uint32, a []index.DocID) []index.DocID {
	size := int(docCount) - len(a)
	if size < 0 {
		size = 0
	}
	out := make([]index.DocID, 0, size)
	i := 0
	for id := index.DocID(1); id <= index.DocID(docCount); id++ {
		if i < len(a) && a[i] == id {
			i++
			continue
		}
		out = append(out, id)
	}
	return out
}
