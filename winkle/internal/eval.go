package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Eval evaluates a small integer arithmetic expression: the four
// binary operators with usual precedence, parentheses, and unary
// minus. It exists so engine tests have a guest-side computation
// whose result is deterministic, e.g. "2 + 2".
func Eval(expr string) (int, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := parser{toks: toks}
	n, err := p.parseExpr(0)
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("unexpected token %q", p.toks[p.pos])
	}
	return n, nil
}

func tokenize(expr string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case strings.ContainsRune("+-*/()", rune(c)):
			toks = append(toks, string(c))
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && expr[j] >= '0' && expr[j] <= '9' {
				j++
			}
			toks = append(toks, expr[i:j])
			i = j
		default:
			return nil, fmt.Errorf("bad character %q in expression", string(c))
		}
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return toks, nil
}

type parser struct {
	toks []string
	pos  int
}

func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	}
	return 0
}

// parseExpr is standard precedence climbing.
func (p *parser) parseExpr(minPrec int) (int, error) {
	left, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.toks) {
		op := p.toks[p.pos]
		prec := precedence(op)
		if prec == 0 || prec < minPrec {
			break
		}
		p.pos++
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return 0, err
		}
		switch op {
		case "+":
			left += right
		case "-":
			left -= right
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
	return left, nil
}

func (p *parser) parseAtom() (int, error) {
	if p.pos >= len(p.toks) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	tok := p.toks[p.pos]
	p.pos++
	switch tok {
	case "-":
		n, err := p.parseAtom()
		return -n, err
	case "(":
		n, err := p.parseExpr(0)
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.toks) || p.toks[p.pos] != ")" {
			return 0, fmt.Errorf("missing closing paren")
		}
		p.pos++
		return n, nil
	}
	return strconv.Atoi(tok)
}
