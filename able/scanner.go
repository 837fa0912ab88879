package able

import (
	"unicode"

	"github.com/dhamidi/able/grammar"
	"github.com/dhamidi/able/syntax"
)

// maxWord bounds the identifier buffer. Longer words cannot be keywords.
const maxWord = 32

// typeStartDenylist holds the keywords that can never begin a type.
var typeStartDenylist = map[string]bool{
	"fn": true, "struct": true, "union": true, "interface": true,
	"impl": true, "methods": true, "type": true, "package": true,
	"import": true, "dynimport": true, "extern": true, "prelude": true,
	"private": true, "do": true, "return": true, "if": true,
	"elsif": true, "or": true, "else": true, "while": true,
	"loop": true, "for": true, "in": true, "match": true,
	"case": true, "breakpoint": true, "break": true, "continue": true,
	"raise": true, "rescue": true, "ensure": true, "rethrow": true,
	"spawn": true, "await": true, "as": true, "true": true,
	"false": true, "where": true,
}

// continuationKeywords continue the previous line when they start the next.
var continuationKeywords = map[string]bool{
	"or":     true,
	"ensure": true,
	"rescue": true,
	"where":  true,
}

// Scanner decides the two Able terminals that depend on parser state:
// the type-application separator and the statement-terminating newline.
// It keeps no state between calls.
type Scanner struct{}

func (Scanner) Scan(c *syntax.Cursor, valid grammar.SymbolSet) (grammar.Symbol, bool) {
	start := c.Position()
	if valid.Has(SymTypeApplicationSep) {
		if scanTypeApplicationSep(c) {
			return SymTypeApplicationSep, true
		}
		c.Reset(start)
	}
	if scanNewline(c, valid) {
		return SymNewline, true
	}
	return 0, false
}

// scanTypeApplicationSep matches the horizontal whitespace between a name
// and a type argument. The type itself is left for the next token.
func scanTypeApplicationSep(c *syntax.Cursor) bool {
	for isHorizontalSpace(c.Lookahead()) {
		c.Advance()
	}
	c.MarkEnd()

	switch ch := c.Lookahead(); {
	case ch == '?' || ch == '!' || ch == '(':
		return true
	case isIdentStart(ch):
		word, ok := scanBoundedWord(c)
		if !ok {
			return true
		}
		return !typeStartDenylist[word]
	}
	return false
}

// scanNewline matches one line terminator that ends a statement. The
// token is committed before looking at the next line, so a continuation
// never becomes part of it.
func scanNewline(c *syntax.Cursor, valid grammar.SymbolSet) bool {
	for isHorizontalSpace(c.Lookahead()) {
		c.Skip()
	}
	switch c.Lookahead() {
	case '\r':
		c.Advance()
		if c.Lookahead() == '\n' {
			c.Advance()
		}
	case '\n':
		c.Advance()
	default:
		return false
	}
	c.MarkEnd()

	for isHorizontalSpace(c.Lookahead()) {
		c.Advance()
	}
	if continuesLine(c) {
		return false
	}
	return valid.Has(SymNewline)
}

// continuesLine reports whether the next line starts with a continuation
// marker. Punctuation is checked first, then a binary + or -, then the
// continuation keywords.
func continuesLine(c *syntax.Cursor) bool {
	ch := c.Lookahead()
	switch ch {
	case '.', '>', '<', '*', '%', '^', '/':
		return true
	case '?':
		c.Advance()
		return c.Lookahead() == '.'
	case '|':
		c.Advance()
		return c.Lookahead() == '|' || c.Lookahead() == '>'
	case '&':
		c.Advance()
		return c.Lookahead() == '&'
	case '=', '!':
		c.Advance()
		return c.Lookahead() == '='
	}

	if ch == '+' || ch == '-' {
		c.Advance()
		return isHorizontalSpace(c.Lookahead())
	}

	if isIdentStart(ch) {
		word, ok := scanBoundedWord(c)
		return ok && continuationKeywords[word]
	}
	return false
}

// scanBoundedWord consumes an identifier. It reports false when the word
// did not fit the buffer.
func scanBoundedWord(c *syntax.Cursor) (string, bool) {
	var buf [maxWord]rune
	n := 0
	fits := true
	for ch := c.Lookahead(); ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch); ch = c.Lookahead() {
		if n < maxWord {
			buf[n] = ch
			n++
		} else {
			fits = false
		}
		c.Advance()
	}
	return string(buf[:n]), fits
}
