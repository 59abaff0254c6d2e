package query

import (
	"strings"

	"github.com/searchine/searchine/internal/analyzer"
	"github.com/searchine/searchine/pkg/errors"
)

// Parse turns a query string into an expression tree. Operators AND, OR,
// and NOT (case-insensitive) bind with precedence NOT > AND > OR;
// adjacent bare terms are joined by an implicit AND, and parentheses
// group. Leaf terms are normalized with the same analyzer used at
// indexing time.
func Parse(input string, an *analyzer.Analyzer) (Expr, error) {
	p := &parser{tokens: lex(input), analyzer: an}
	if len(p.tokens) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidQuery, "empty query")
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, errors.Wrap(errors.ErrInvalidQuery, "unexpected %q", tok)
	}
	return expr, nil
}

func lex(input string) []string {
	input = strings.ReplaceAll(input, "(", " ( ")
	input = strings.ReplaceAll(input, ")", " ) ")
	return strings.Fields(input)
}

type parser struct {
	tokens   []string
	pos      int
	analyzer *analyzer.Analyzer
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || !strings.EqualFold(tok, "OR") {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok == ")" || strings.EqualFold(tok, "OR") {
			return left, nil
		}
		if strings.EqualFold(tok, "AND") {
			p.pos++
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidQuery, "expression ends after an operator")
	}
	switch {
	case strings.EqualFold(tok, "NOT"):
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	case tok == "(":
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.next()
		if !ok || closing != ")" {
			return nil, errors.Wrap(errors.ErrInvalidQuery, "missing closing parenthesis")
		}
		return expr, nil
	case tok == ")":
		return nil, errors.Wrap(errors.ErrInvalidQuery, "unexpected closing parenthesis")
	case strings.EqualFold(tok, "AND") || strings.EqualFold(tok, "OR"):
		return nil, errors.Wrap(errors.ErrInvalidQuery, "operator %q needs a left operand", tok)
	default:
		return p.termExpr(tok), nil
	}
}

// termExpr normalizes a raw token into a leaf. A token the analyzer splits
// into several terms becomes an AND over them; a token it drops entirely
// becomes a leaf that matches nothing.
func (p *parser) termExpr(tok string) Expr {
	terms := p.analyzer.Terms(tok)
	if len(terms) == 0 {
		return Term{}
	}
	var expr Expr = Term{Text: terms[0]}
	for _, t := range terms[1:] {
		expr = And{Left: expr, Right: Term{Text: t}}
	}
	return expr
}
