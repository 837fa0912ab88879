package syntax

import (
	"unicode/utf8"

	"github.com/dhamidi/able/grammar"
)

// EOF is the lookahead reported at end of input.
const EOF rune = -1

// Cursor walks the source one rune at a time on behalf of a lexer. It
// tracks the start of the token being recognised and an optional
// committed end, so a lexer can look past the end of a token without
// consuming what it looked at.
type Cursor struct {
	input  []byte
	pos    Position
	start  Position
	end    Position
	marked bool
}

func NewCursor(input []byte, file string) *Cursor {
	c := &Cursor{input: input}
	c.pos = Position{File: file, Line: 1, Column: 1}
	c.Begin()
	return c
}

func (c *Cursor) Source() []byte {
	return c.input
}

// Position is the position of the lookahead rune.
func (c *Cursor) Position() Position {
	return c.pos
}

func (c *Cursor) AtEOF() bool {
	return c.pos.Offset >= len(c.input)
}

// Lookahead returns the rune at the cursor without consuming it. Invalid
// UTF-8 reads as utf8.RuneError one byte at a time.
func (c *Cursor) Lookahead() rune {
	if c.AtEOF() {
		return EOF
	}
	r, _ := utf8.DecodeRune(c.input[c.pos.Offset:])
	return r
}

// Advance consumes the lookahead into the current token.
func (c *Cursor) Advance() {
	if c.AtEOF() {
		return
	}
	r, size := utf8.DecodeRune(c.input[c.pos.Offset:])
	c.pos.Offset += size
	if r == '\n' {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}
}

// Skip consumes the lookahead and excludes it from the current token.
// It is only meaningful before any rune of the token has been advanced.
func (c *Cursor) Skip() {
	c.Advance()
	c.Begin()
}

// MarkEnd commits the current position as the end of the token. Runes
// advanced after the last MarkEnd are given back when the token is
// emitted.
func (c *Cursor) MarkEnd() {
	c.end = c.pos
	c.marked = true
}

// Begin starts a new token at the current position.
func (c *Cursor) Begin() {
	c.start = c.pos
	c.end = c.pos
	c.marked = false
}

// Reset moves the cursor back to p and starts a new token there.
func (c *Cursor) Reset(p Position) {
	c.pos = p
	c.Begin()
}

func (c *Cursor) Start() Position {
	return c.start
}

// End is the committed end of the current token, or the current
// position when MarkEnd was never called.
func (c *Cursor) End() Position {
	if c.marked {
		return c.end
	}
	return c.pos
}

// Emit finishes the current token as sym and leaves the cursor at its end.
func (c *Cursor) Emit(sym grammar.Symbol) Token {
	end := c.End()
	tok := Token{
		Symbol:  sym,
		Span:    Span{Start: c.start, End: end},
		Literal: string(c.input[c.start.Offset:end.Offset]),
	}
	c.pos = end
	c.Begin()
	return tok
}

// Fail finishes the current token as a lex error.
func (c *Cursor) Fail(message string) Token {
	tok := c.Emit(grammar.ErrorSymbol)
	tok.Message = message
	return tok
}
