package smt

import (
	"strings"

	"github.com/pkg/errors"
)

// sexpr is an atom (list == nil) or a list.
type sexpr struct {
	atom string
	list []*sexpr
}

func (e *sexpr) isAtom() bool { return e.list == nil }

// parseValues reads a get-value response such as ((x 5) (y (- 3)) (p true))
// into symbol -> literal.
func parseValues(text string) (map[string]string, error) {
	p := &sexprParser{input: text}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	if root.isAtom() {
		return nil, errors.Errorf("expected value list, got %s", root.atom)
	}
	result := make(map[string]string, len(root.list))
	for _, pair := range root.list {
		if pair.isAtom() || len(pair.list) != 2 || !pair.list[0].isAtom() {
			return nil, errors.Errorf("malformed value pair")
		}
		value, err := literal(pair.list[1])
		if err != nil {
			return nil, err
		}
		result[unquote(pair.list[0].atom)] = value
	}
	return result, nil
}

// unquote strips the bars of a quoted symbol; |x| and x are the same symbol.
func unquote(symbol string) string {
	if len(symbol) >= 2 && strings.HasPrefix(symbol, "|") && strings.HasSuffix(symbol, "|") {
		return symbol[1 : len(symbol)-1]
	}
	return symbol
}

// literal renders an integer or boolean value; negatives arrive as (- n).
func literal(e *sexpr) (string, error) {
	if e.isAtom() {
		return e.atom, nil
	}
	if len(e.list) == 2 && e.list[0].isAtom() && e.list[0].atom == "-" && e.list[1].isAtom() {
		return "-" + e.list[1].atom, nil
	}
	return "", errors.New("unsupported model value")
}

type sexprParser struct {
	input string
	pos   int
}

func (p *sexprParser) parse() (*sexpr, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, errors.New("unexpected end of input")
	}
	switch c := p.input[p.pos]; c {
	case '(':
		p.pos++
		e := &sexpr{list: []*sexpr{}}
		for {
			p.skipSpace()
			if p.pos >= len(p.input) {
				return nil, errors.New("unbalanced parenthesis")
			}
			if p.input[p.pos] == ')' {
				p.pos++
				return e, nil
			}
			child, err := p.parse()
			if err != nil {
				return nil, err
			}
			e.list = append(e.list, child)
		}
	case ')':
		return nil, errors.Errorf("unexpected ) at %d", p.pos)
	case '|':
		end := strings.IndexByte(p.input[p.pos+1:], '|')
		if end < 0 {
			return nil, errors.New("unterminated quoted symbol")
		}
		atom := p.input[p.pos : p.pos+end+2]
		p.pos += end + 2
		return &sexpr{atom: atom}, nil
	}
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("() \t\r\n|", rune(p.input[p.pos])) {
		p.pos++
	}
	return &sexpr{atom: p.input[start:p.pos]}, nil
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.input) && strings.ContainsRune(" \t\r\n", rune(p.input[p.pos])) {
		p.pos++
	}
}
