// Package grammar holds the read-only table artifact that drives the
// parse automaton: symbols, productions, states and their actions.
package grammar

import "math"

// Symbol identifies a terminal or nonterminal. Terminals and nonterminals
// share one id space.
type Symbol uint16

const (
	// End is the end-of-input terminal. It is always symbol 0.
	End Symbol = 0
	// ErrorSymbol is the builtin kind of error tokens and ERROR nodes. It
	// never appears in a table.
	ErrorSymbol Symbol = math.MaxUint16
)

type SymbolKind int

const (
	Terminal SymbolKind = iota
	External
	Nonterminal
	Alias
)

var symbolKindNames = map[SymbolKind]string{
	Terminal:    "terminal",
	External:    "external",
	Nonterminal: "nonterminal",
	Alias:       "alias",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether symbols of this kind are produced by a lexer.
func (k SymbolKind) IsTerminal() bool {
	return k == Terminal || k == External
}

// SymbolInfo is the metadata of one symbol.
type SymbolInfo struct {
	ID   Symbol
	Name string
	Kind SymbolKind
	// Visible symbols appear in the rendered tree.
	Visible bool
	// Named symbols carry a semantic tag rather than being a bare literal.
	Named bool
	// Extra terminals may appear between any two tokens.
	Extra bool
}

var errorSymbolInfo = SymbolInfo{
	ID:      ErrorSymbol,
	Name:    "ERROR",
	Kind:    Nonterminal,
	Visible: true,
	Named:   true,
}
