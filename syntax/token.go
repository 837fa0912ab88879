package syntax

import (
	"fmt"

	"github.com/dhamidi/able/grammar"
)

// Position is a location in the source. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open byte range [Start.Offset, End.Offset).
type Span struct {
	Start Position
	End   Position
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

func (s Span) IsEmpty() bool {
	return s.Len() == 0
}

func (s Span) Contains(offset int) bool {
	return s.Start.Offset <= offset && offset < s.End.Offset
}

// Cover returns the smallest span containing s and o.
func (s Span) Cover(o Span) Span {
	out := s
	if o.Start.Offset < out.Start.Offset {
		out.Start = o.Start
	}
	if o.End.Offset > out.End.Offset {
		out.End = o.End
	}
	return out
}

type Token struct {
	Symbol  grammar.Symbol
	Span    Span
	Literal string
	// Message describes the problem for error tokens.
	Message string
}

func (t Token) IsError() bool {
	return t.Symbol == grammar.ErrorSymbol
}
