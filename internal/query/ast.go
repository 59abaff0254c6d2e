// Package query parses boolean expressions over index terms and evaluates
// them with merge-walk set operations on sorted postings.
package query

import "fmt"

// Expr is a node of a parsed boolean expression. Leaves carry normalized
// terms; AND and OR are commutative binary operators, NOT is unary with
// respect to the full document universe.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Term matches documents containing one normalized term. An empty Text
// (a token the analyzer dropped entirely) matches nothing.
type Term struct {
	Text string
}

// And matches documents present in both operands.
type And struct {
	Left, Right Expr
}

// Or matches documents present in either operand.
type Or struct {
	Left, Right Expr
}

// Not matches the complement of its operand over all indexed documents.
type Not struct {
	Operand Expr
}

func (Term) isExpr() {}
func (And) isExpr()  {}
func (Or) isExpr()   {}
func (Not) isExpr()  {}

func (t Term) String() string { return t.Text }
func (a And) String() string  { return fmt.Sprintf("(%s AND %s)", a.Left, a.Right) }
func (o Or) String() string   { return fmt.Sprintf("(%s OR %s)", o.Left, o.Right) }
func (n Not) String() string  { return fmt.Sprintf("(NOT %s)", n.Operand) }
