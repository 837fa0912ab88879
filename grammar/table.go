package grammar

import (
	"fmt"
	"slices"
)

// LexMode selects the token automaton entry state used while the parser
// is in a given state. Mode names are listed in Table.LexModes.
type LexMode uint8

type Production struct {
	ID   ProductionID
	Name string
	LHS  Symbol
	RHS  []Symbol
	// Alias replaces the kind of the built node when HasAlias is set.
	Alias    Symbol
	HasAlias bool
}

type State struct {
	ID      StateID
	Name    string
	LexMode LexMode
	actions map[Symbol]Action
	gotos   map[Symbol]StateID
	valid   SymbolSet
}

// Table is a loaded grammar artifact. It is never mutated after loading
// and may be shared by concurrent parses.
type Table struct {
	Name        string
	Start       StateID
	LexModes    []string
	Symbols     []SymbolInfo
	Productions []Production
	States      []State

	byName    map[string]Symbol
	externals SymbolSet
	extras    SymbolSet
}

// Action returns the action for sym in state s, or the error action.
func (t *Table) Action(s StateID, sym Symbol) Action {
	if int(s) >= len(t.States) {
		return Action{}
	}
	return t.States[s].actions[sym]
}

// Goto returns the state reached from s after reducing to nonterminal sym.
func (t *Table) Goto(s StateID, sym Symbol) (StateID, bool) {
	if int(s) >= len(t.States) {
		return 0, false
	}
	next, ok := t.States[s].gotos[sym]
	return next, ok
}

// Gotos returns the nonterminals with a goto from state s, in symbol order.
func (t *Table) Gotos(s StateID) []Symbol {
	if int(s) >= len(t.States) {
		return nil
	}
	syms := make([]Symbol, 0, len(t.States[s].gotos))
	for sym := range t.States[s].gotos {
		syms = append(syms, sym)
	}
	slices.Sort(syms)
	return syms
}

// Valid returns the terminals with a non-error action in state s.
func (t *Table) Valid(s StateID) SymbolSet {
	if int(s) >= len(t.States) {
		return SymbolSet{}
	}
	return t.States[s].valid
}

func (t *Table) LexMode(s StateID) LexMode {
	if int(s) >= len(t.States) {
		return 0
	}
	return t.States[s].LexMode
}

func (t *Table) Symbol(sym Symbol) SymbolInfo {
	if sym == ErrorSymbol {
		return errorSymbolInfo
	}
	if int(sym) >= len(t.Symbols) {
		return SymbolInfo{ID: sym, Name: fmt.Sprintf("symbol(%d)", sym)}
	}
	return t.Symbols[sym]
}

func (t *Table) SymbolName(sym Symbol) string {
	return t.Symbol(sym).Name
}

// Lookup finds a symbol by its display name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.byName[name]
	return sym, ok
}

// StateByName finds a state by the name it was given in the artifact.
func (t *Table) StateByName(name string) (StateID, bool) {
	for i := range t.States {
		if t.States[i].Name == name {
			return StateID(i), true
		}
	}
	return 0, false
}

func (t *Table) Production(id ProductionID) Production {
	return t.Productions[id]
}

// Externals is the set of terminals produced by the external scanner.
func (t *Table) Externals() SymbolSet {
	return t.externals
}

func (t *Table) IsExtra(sym Symbol) bool {
	return t.extras.Has(sym)
}

func (t *Table) Extras() SymbolSet {
	return t.extras
}
