// Package able is the Able language: its parse table, its lexer and the
// external scanner that decides significant newlines.
package able

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/dhamidi/able/grammar"
	"github.com/dhamidi/able/syntax"
)

//go:embed able.yaml
var tableSource []byte

// Symbols of the Able table, in artifact order.
const (
	SymEnd grammar.Symbol = iota
	SymSemicolon
	SymNewline
	SymTypeApplicationSep
	SymPlus
	SymMinus
	SymStar
	SymSlash
	SymIntegerLiteral
	SymFloatLiteral
	SymTrue
	SymFalse
	SymNilLiteral
	SymDoubleQuote
	SymSingleQuote
	SymBacktick
	SymStringContent
	SymCharContent
	SymInterpolationText
	SymEscapeSequence
	SymInterpolationOpen
	SymInterpolationClose
	SymComment
	SymSourceFile
	SymExpressionStatement
	SymExpression
	SymStringLiteral
	SymCharLiteral
	SymInterpolatedString
	SymStringInterpolation
	SymStatements
	SymStringParts
	SymInterpolationParts
	SymBinaryExpression
	SymUnaryExpression
	SymBooleanLiteral
)

var symbolNames = [...]string{
	SymEnd:                 "end",
	SymSemicolon:           ";",
	SymNewline:             "_newline",
	SymTypeApplicationSep:  "_type_application_sep",
	SymPlus:                "+",
	SymMinus:               "-",
	SymStar:                "*",
	SymSlash:               "/",
	SymIntegerLiteral:      "integer_literal",
	SymFloatLiteral:        "float_literal",
	SymTrue:                "true",
	SymFalse:               "false",
	SymNilLiteral:          "nil_literal",
	SymDoubleQuote:         `"`,
	SymSingleQuote:         "'",
	SymBacktick:            "`",
	SymStringContent:       "_string_content",
	SymCharContent:         "_char_content",
	SymInterpolationText:   "interpolation_text",
	SymEscapeSequence:      "escape_sequence",
	SymInterpolationOpen:   "${",
	SymInterpolationClose:  "}",
	SymComment:             "comment",
	SymSourceFile:          "source_file",
	SymExpressionStatement: "expression_statement",
	SymExpression:          "_expression",
	SymStringLiteral:       "string_literal",
	SymCharLiteral:         "char_literal",
	SymInterpolatedString:  "interpolated_string",
	SymStringInterpolation: "string_interpolation",
	SymStatements:          "_statements",
	SymStringParts:         "_string_parts",
	SymInterpolationParts:  "_interpolation_parts",
	SymBinaryExpression:    "binary_expression",
	SymUnaryExpression:     "unary_expression",
	SymBooleanLiteral:      "boolean_literal",
}

// Lex modes of the Able table, in artifact order.
const (
	ModeCode grammar.LexMode = iota
	ModeString
	ModeChar
	ModeInterpolation
)

var modeNames = [...]string{
	ModeCode:          "code",
	ModeString:        "string",
	ModeChar:          "char",
	ModeInterpolation: "interpolation",
}

var (
	loadOnce sync.Once
	table    *grammar.Table
	loadErr  error
)

// Table returns the Able parse table. It is loaded on first use.
func Table() (*grammar.Table, error) {
	loadOnce.Do(func() {
		table, loadErr = loadTable()
	})
	return table, loadErr
}

func loadTable() (*grammar.Table, error) {
	t, err := grammar.Parse(tableSource)
	if err != nil {
		return nil, err
	}
	if len(t.Symbols) != len(symbolNames) {
		return nil, fmt.Errorf("able table has %d symbols, lexer knows %d", len(t.Symbols), len(symbolNames))
	}
	for i, name := range symbolNames {
		if got := t.Symbols[i].Name; got != name {
			return nil, fmt.Errorf("able table symbol %d is %q, lexer expects %q", i, got, name)
		}
	}
	if len(t.LexModes) != len(modeNames) {
		return nil, fmt.Errorf("able table has %d lex modes, lexer knows %d", len(t.LexModes), len(modeNames))
	}
	for i, name := range modeNames {
		if t.LexModes[i] != name {
			return nil, fmt.Errorf("able table lex mode %d is %q, lexer expects %q", i, t.LexModes[i], name)
		}
	}
	return t, nil
}

// Language returns the table together with the Able lexer and scanner.
func Language() (syntax.Language, error) {
	t, err := Table()
	if err != nil {
		return syntax.Language{}, err
	}
	return syntax.Language{Table: t, Lexer: Lexer{}, Scanner: Scanner{}}, nil
}

// NewParser returns a parser for Able source.
func NewParser(opts ...syntax.Option) (*syntax.Parser, error) {
	lang, err := Language()
	if err != nil {
		return nil, err
	}
	return syntax.NewParser(lang, opts...), nil
}

// Parse parses src as an Able source file.
func Parse(src []byte, opts ...syntax.Option) (*syntax.Tree, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(src), nil
}
