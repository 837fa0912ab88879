package grammar

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Lexical is an EBNF description of a language whose productions can be
// matched directly against text. It documents a table and lets tests hold
// a hand-written lexer to the description.
type Lexical struct {
	grammar ebnf.Grammar
}

// ParseLexical reads an EBNF grammar in the notation of golang.org/x/exp/ebnf.
func ParseLexical(filename string, src io.Reader) (*Lexical, error) {
	g, err := ebnf.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &Lexical{grammar: g}, nil
}

func (l *Lexical) Grammar() ebnf.Grammar {
	return l.grammar
}

// Verify checks that every production is defined and reachable from start.
func (l *Lexical) Verify(start string) error {
	return ebnf.Verify(l.grammar, start)
}

func (l *Lexical) Has(name string) bool {
	prod, ok := l.grammar[name]
	return ok && prod.Expr != nil
}

// Match returns the length in bytes of the longest prefix of input derived
// by the production name. Sequences and repetitions match greedily and do
// not backtrack. A left-recursive reference matches nothing.
func (l *Lexical) Match(name string, input []byte) (int, bool) {
	m := &matcher{
		grammar:  l.grammar,
		input:    input,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	n := m.name(name, 0)
	return n, n >= 0
}

// MatchAll reports whether name derives all of input.
func (l *Lexical) MatchAll(name string, input []byte) bool {
	n, ok := l.Match(name, input)
	return ok && n == len(input)
}

type memoKey struct {
	name   string
	offset int
}

// matcher memoises match lengths per production and offset; -1 is no match.
type matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func (m *matcher) expr(x ebnf.Expression, offset int) int {
	switch x := x.(type) {
	case nil:
		return 0
	case *ebnf.Token:
		if bytes.HasPrefix(m.input[offset:], []byte(x.String)) {
			return len(x.String)
		}
		return -1
	case *ebnf.Range:
		return m.runeRange(x, offset)
	case ebnf.Sequence:
		total := 0
		for _, item := range x {
			n := m.expr(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total
	case ebnf.Alternative:
		best := -1
		for _, alt := range x {
			if n := m.expr(alt, offset); n > best {
				best = n
			}
		}
		return best
	case *ebnf.Repetition:
		total := 0
		for {
			n := m.expr(x.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}
	case *ebnf.Option:
		if n := m.expr(x.Body, offset); n > 0 {
			return n
		}
		return 0
	case *ebnf.Group:
		return m.expr(x.Body, offset)
	case *ebnf.Name:
		return m.name(x.String, offset)
	}
	return -1
}

func (m *matcher) name(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	if m.visiting[key] {
		return -1
	}
	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = -1
		return -1
	}

	m.visiting[key] = true
	n := m.expr(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = n
	return n
}

func (m *matcher) runeRange(x *ebnf.Range, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(x.Begin.String)
	hi, _ := utf8.DecodeRuneInString(x.End.String)
	r, size := utf8.DecodeRune(m.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return -1
	}
	if r < lo || r > hi {
		return -1
	}
	return size
}
