package able

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"reflect"

	"github.com/dhamidi/able/grammar"
)

//go:embed able.ebnf
var ebnfSource []byte

// ErrUndocumented is reported for a table symbol that has no production in
// able.ebnf.
var ErrUndocumented = errors.New("no production in able.ebnf")

// Grammar returns the EBNF description of Able.
func Grammar() (*grammar.Lexical, error) {
	return grammar.ParseLexical("able.ebnf", bytes.NewReader(ebnfSource))
}

// CheckGrammar verifies able.ebnf from start and checks that every named
// or structural symbol of the table is described by it.
func CheckGrammar(start string) []error {
	g, err := Grammar()
	if err != nil {
		return splitErrors(err)
	}
	var errs []error
	if err := g.Verify(start); err != nil {
		errs = append(errs, splitErrors(err)...)
	}

	t, err := Table()
	if err != nil {
		return append(errs, err)
	}
	for _, info := range t.Symbols {
		if !documented(info) {
			continue
		}
		if !g.Has(info.Name) {
			errs = append(errs, fmt.Errorf("%s: %w", info.Name, ErrUndocumented))
		}
	}
	return errs
}

// documented reports whether a symbol must have a production: all
// nonterminals and aliases, and the named terminals the lexer produces.
func documented(info grammar.SymbolInfo) bool {
	switch info.Kind {
	case grammar.Nonterminal, grammar.Alias:
		return true
	case grammar.Terminal:
		return info.Named && info.ID != grammar.End
	}
	return false
}

// splitErrors flattens the error lists returned by the ebnf package.
func splitErrors(err error) []error {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		return u.Unwrap()
	}
	var errs []error
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() != reflect.Slice {
			continue
		}
		for i := 0; i < v.Len(); i++ {
			if item, ok := v.Index(i).Interface().(error); ok {
				errs = append(errs, item)
			}
		}
		return errs
	}
	return []error{err}
}
