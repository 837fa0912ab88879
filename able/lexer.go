package able

import (
	"fmt"
	"unicode"

	"github.com/dhamidi/able/grammar"
	"github.com/dhamidi/able/syntax"
)

// Lexer recognises Able tokens. Each lex mode has its own alphabet: code,
// and the bodies of string, character and interpolated string literals.
type Lexer struct{}

func (Lexer) Lex(c *syntax.Cursor, mode grammar.LexMode) syntax.Token {
	switch mode {
	case ModeString:
		return lexStringBody(c)
	case ModeChar:
		return lexCharBody(c)
	case ModeInterpolation:
		return lexInterpolationBody(c)
	}
	return lexCode(c)
}

func lexCode(c *syntax.Cursor) syntax.Token {
	for isSpace(c.Lookahead()) {
		c.Skip()
	}

	ch := c.Lookahead()
	switch {
	case ch == syntax.EOF:
		return c.Emit(SymEnd)
	case ch == '#':
		return scanComment(c)
	case isDigit(ch):
		return scanNumber(c)
	case isIdentStart(ch):
		return scanWord(c)
	}

	if sym, ok := punctuation[ch]; ok {
		c.Advance()
		return c.Emit(sym)
	}
	c.Advance()
	return c.Fail("unexpected character")
}

var punctuation = map[rune]grammar.Symbol{
	';':  SymSemicolon,
	'+':  SymPlus,
	'-':  SymMinus,
	'*':  SymStar,
	'/':  SymSlash,
	'}':  SymInterpolationClose,
	'"':  SymDoubleQuote,
	'\'': SymSingleQuote,
	'`':  SymBacktick,
}

var keywords = map[string]grammar.Symbol{
	"true":  SymTrue,
	"false": SymFalse,
	"nil":   SymNilLiteral,
}

func scanComment(c *syntax.Cursor) syntax.Token {
	c.Advance()
	if c.Lookahead() != '#' {
		return c.Fail("unexpected character")
	}
	for ch := c.Lookahead(); ch != '\n' && ch != '\r' && ch != syntax.EOF; ch = c.Lookahead() {
		c.Advance()
	}
	return c.Emit(SymComment)
}

// scanWord reads an identifier-shaped word. Only the literal keywords are
// tokens of this grammar; any other word is a lex error.
func scanWord(c *syntax.Cursor) syntax.Token {
	for isIdentPart(c.Lookahead()) {
		c.Advance()
	}
	word := string(c.Source()[c.Start().Offset:c.Position().Offset])
	if sym, ok := keywords[word]; ok {
		return c.Emit(sym)
	}
	return c.Fail(fmt.Sprintf("unexpected identifier %q", word))
}

// scanNumber reads the longest numeric literal. Every accepted prefix is
// committed with MarkEnd so a failed probe ('.' without a digit, an
// exponent marker without digits, an incomplete suffix) gives back what it
// read.
func scanNumber(c *syntax.Cursor) syntax.Token {
	if c.Lookahead() == '0' {
		c.Advance()
		c.MarkEnd()
		if digit := baseDigit(c.Lookahead()); digit != nil {
			c.Advance()
			if !digit(c.Lookahead()) {
				return c.Emit(SymIntegerLiteral)
			}
			scanDigits(c, digit)
			c.MarkEnd()
			scanSuffix(c, true, false)
			return c.Emit(SymIntegerLiteral)
		}
	}

	scanDigits(c, isDigit)
	c.MarkEnd()
	sym := SymIntegerLiteral

	if c.Lookahead() == '.' {
		c.Advance()
		if !isDigit(c.Lookahead()) {
			return c.Emit(sym)
		}
		scanDigits(c, isDigit)
		c.MarkEnd()
		sym = SymFloatLiteral
	}

	if ch := c.Lookahead(); ch == 'e' || ch == 'E' {
		c.Advance()
		if ch := c.Lookahead(); ch == '+' || ch == '-' {
			c.Advance()
		}
		if !isDigit(c.Lookahead()) {
			return c.Emit(sym)
		}
		scanDigits(c, isDigit)
		c.MarkEnd()
		sym = SymFloatLiteral
	}

	if scanSuffix(c, sym == SymIntegerLiteral, true) == floatSuffix {
		sym = SymFloatLiteral
	}
	return c.Emit(sym)
}

func baseDigit(ch rune) func(rune) bool {
	switch ch {
	case 'x', 'X':
		return isHexDigit
	case 'o', 'O':
		return isOctalDigit
	case 'b', 'B':
		return isBinaryDigit
	}
	return nil
}

// scanDigits consumes digits and '_' separators.
func scanDigits(c *syntax.Cursor, digit func(rune) bool) {
	for ch := c.Lookahead(); digit(ch) || ch == '_'; ch = c.Lookahead() {
		c.Advance()
	}
}

type suffixKind int

const (
	noSuffix suffixKind = iota
	intSuffix
	floatSuffix
)

var suffixWidths = map[rune][]string{
	'i': {"8", "16", "32", "64", "128"},
	'u': {"8", "16", "32", "64", "128"},
	'f': {"32", "64"},
}

// scanSuffix consumes the longest type suffix at the cursor, which must
// sit at the committed end of the literal.
func scanSuffix(c *syntax.Cursor, allowInt, allowFloat bool) suffixKind {
	letter := c.Lookahead()
	kind := intSuffix
	switch {
	case (letter == 'i' || letter == 'u') && allowInt:
	case letter == 'f' && allowFloat:
		kind = floatSuffix
	default:
		return noSuffix
	}
	c.Advance()

	found := noSuffix
	width := ""
	for len(width) < 3 && isDigit(c.Lookahead()) {
		width += string(c.Lookahead())
		c.Advance()
		for _, w := range suffixWidths[letter] {
			if w == width {
				c.MarkEnd()
				found = kind
			}
		}
	}
	return found
}

func lexStringBody(c *syntax.Cursor) syntax.Token {
	switch c.Lookahead() {
	case syntax.EOF:
		return c.Fail("unterminated string literal")
	case '"':
		c.Advance()
		return c.Emit(SymDoubleQuote)
	case '\\':
		return scanEscape(c)
	}

	c.Advance()
	for ch := c.Lookahead(); ch != syntax.EOF && ch != '"' && ch != '\\' && ch != '#'; ch = c.Lookahead() {
		c.Advance()
	}
	return c.Emit(SymStringContent)
}

func lexCharBody(c *syntax.Cursor) syntax.Token {
	switch c.Lookahead() {
	case syntax.EOF, '\n', '\r':
		return c.Fail("unterminated character literal")
	case '\'':
		c.Advance()
		return c.Emit(SymSingleQuote)
	case '\\':
		return scanEscape(c)
	}

	c.Advance()
	for ch := c.Lookahead(); ch != syntax.EOF && ch != '\'' && ch != '\\' && ch != '\n' && ch != '\r'; ch = c.Lookahead() {
		c.Advance()
	}
	return c.Emit(SymCharContent)
}

func lexInterpolationBody(c *syntax.Cursor) syntax.Token {
	switch c.Lookahead() {
	case syntax.EOF:
		return c.Fail("unterminated interpolated string")
	case '`':
		c.Advance()
		return c.Emit(SymBacktick)
	case '\\':
		return scanEscape(c)
	case '$':
		c.Advance()
		if c.Lookahead() == '{' {
			c.Advance()
			return c.Emit(SymInterpolationOpen)
		}
	default:
		c.Advance()
	}

	for {
		ch := c.Lookahead()
		if ch == syntax.EOF || ch == '`' || ch == '\\' || ch == '#' {
			break
		}
		if ch == '$' {
			c.MarkEnd()
			c.Advance()
			if c.Lookahead() == '{' {
				return c.Emit(SymInterpolationText)
			}
			continue
		}
		c.Advance()
	}
	c.MarkEnd()
	return c.Emit(SymInterpolationText)
}

// scanEscape reads a backslash escape: one of the fixed single-character
// escapes or \u{...} with one to six hex digits.
func scanEscape(c *syntax.Cursor) syntax.Token {
	c.Advance()
	switch c.Lookahead() {
	case 'n', 'r', 't', '0', '\'', '"', '\\', '`', '$':
		c.Advance()
		return c.Emit(SymEscapeSequence)
	case 'u', 'U':
		c.Advance()
		if c.Lookahead() != '{' {
			return c.Fail("invalid unicode escape")
		}
		c.Advance()
		n := 0
		for n < 6 && isHexDigit(c.Lookahead()) {
			c.Advance()
			n++
		}
		if n == 0 || c.Lookahead() != '}' {
			return c.Fail("invalid unicode escape")
		}
		c.Advance()
		return c.Emit(SymEscapeSequence)
	case syntax.EOF:
		return c.Fail("unterminated escape sequence")
	}
	c.Advance()
	return c.Fail("invalid escape sequence")
}

func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\uFEFF', '\u2060', '\u200B':
		return true
	}
	return false
}

func isHorizontalSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOctalDigit(ch rune) bool {
	return ch >= '0' && ch <= '7'
}

func isBinaryDigit(ch rune) bool {
	return ch == '0' || ch == '1'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
