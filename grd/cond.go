package grd

import (
	"strings"
	"unicode"

	"github.com/teranos/grit/errors"
)

// condition is a parsed <if expr="..."> expression.
//
// Grammar:
//
//	expr    = and { "or" and }
//	and     = unary { "and" unary }
//	unary   = "not" unary | primary
//	primary = ident | "True" | "False" | "(" expr ")"
type condition interface {
	eval(defines map[string]string) bool
}

type identCond string

func (c identCond) eval(defines map[string]string) bool {
	return truthy(defines, string(c))
}

type constCond bool

func (c constCond) eval(map[string]string) bool { return bool(c) }

type notCond struct{ x condition }

func (c notCond) eval(defines map[string]string) bool { return !c.x.eval(defines) }

type andCond struct{ l, r condition }

func (c andCond) eval(defines map[string]string) bool {
	return c.l.eval(defines) && c.r.eval(defines)
}

type orCond struct{ l, r condition }

func (c orCond) eval(defines map[string]string) bool {
	return c.l.eval(defines) || c.r.eval(defines)
}

// truthy treats a define as false when unset, empty, "0" or "false".
func truthy(defines map[string]string, name string) bool {
	v, ok := defines[name]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false":
		return false
	}
	return true
}

// EvalCondition parses and evaluates expr against defines.
func EvalCondition(expr string, defines map[string]string) (bool, error) {
	c, err := parseCondition(expr)
	if err != nil {
		return false, err
	}
	return c.eval(defines), nil
}

func parseCondition(expr string) (condition, error) {
	p := &condParser{expr: expr, toks: tokenize(expr)}
	if len(p.toks) == 0 {
		return nil, errors.NewInvalidGRDError("empty condition")
	}
	c, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, errors.NewInvalidGRDError("unexpected %q in condition %q", p.toks[p.pos], expr)
	}
	return c, nil
}

func tokenize(expr string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range expr {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

type condParser struct {
	expr string
	toks []string
	pos  int
}

func (p *condParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *condParser) parseOr() (condition, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "or" {
		p.pos++
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = orCond{l, r}
	}
	return l, nil
}

func (p *condParser) parseAnd() (condition, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "and" {
		p.pos++
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = andCond{l, r}
	}
	return l, nil
}

func (p *condParser) parseUnary() (condition, error) {
	if p.peek() == "not" {
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notCond{x}, nil
	}
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() (condition, error) {
	tok := p.peek()
	switch tok {
	case "":
		return nil, errors.NewInvalidGRDError("unexpected end of condition %q", p.expr)
	case "(":
		p.pos++
		c, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, errors.NewInvalidGRDError("missing ) in condition %q", p.expr)
		}
		p.pos++
		return c, nil
	case "True":
		p.pos++
		return constCond(true), nil
	case "False":
		p.pos++
		return constCond(false), nil
	}
	if !isIdent(tok) {
		return nil, errors.NewInvalidGRDError("unexpected %q in condition %q", tok, p.expr)
	}
	p.pos++
	return identCond(tok), nil
}

func isIdent(s string) bool {
	if s == "and" || s == "or" || s == "not" || s == ")" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return s != ""
}
