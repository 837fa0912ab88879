package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSymbol     = errors.New("unknown symbol")
	ErrUnknownState      = errors.New("unknown state")
	ErrUnknownProduction = errors.New("unknown production")
	ErrConflict          = errors.New("conflicting entries")
	ErrMalformed         = errors.New("malformed table")
)

type artifact struct {
	Name        string                   `yaml:"name"`
	Start       string                   `yaml:"start"`
	LexModes    []string                 `yaml:"lex_modes"`
	Symbols     []artifactSymbol         `yaml:"symbols"`
	Productions []artifactProduction     `yaml:"productions"`
	Sets        map[string][]string      `yaml:"sets"`
	Groups      map[string]artifactBlock `yaml:"groups"`
	States      []artifactState          `yaml:"states"`
}

type artifactSymbol struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Visible bool   `yaml:"visible"`
	Named   bool   `yaml:"named"`
	Extra   bool   `yaml:"extra"`
}

type artifactProduction struct {
	Name  string   `yaml:"name"`
	LHS   string   `yaml:"lhs"`
	RHS   []string `yaml:"rhs"`
	Alias string   `yaml:"alias"`
}

type artifactBlock struct {
	Actions []artifactAction  `yaml:"actions"`
	Gotos   map[string]string `yaml:"gotos"`
}

type artifactState struct {
	Name    string            `yaml:"name"`
	Mode    string            `yaml:"mode"`
	Include []string          `yaml:"include"`
	Actions []artifactAction  `yaml:"actions"`
	Gotos   map[string]string `yaml:"gotos"`
}

type artifactAction struct {
	On       []string `yaml:"on"`
	Shift    string   `yaml:"shift"`
	Reduce   string   `yaml:"reduce"`
	Accept   bool     `yaml:"accept"`
	Reusable *bool    `yaml:"reusable"`
}

// Parse decodes a YAML grammar artifact.
func Parse(data []byte) (*Table, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes a YAML grammar artifact and checks its shape. It does not
// check that the tables form a correct LR automaton.
func Load(r io.Reader) (*Table, error) {
	var a artifact
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}
	l := &loader{a: &a, t: &Table{Name: a.Name, LexModes: a.LexModes}}
	if err := l.load(); err != nil {
		return nil, fmt.Errorf("grammar %s: %w", a.Name, err)
	}
	return l.t, nil
}

type loader struct {
	a *artifact
	t *Table

	productions map[string]ProductionID
	states      map[string]StateID
	modes       map[string]LexMode
	sets        map[string][]Symbol
}

func (l *loader) load() error {
	steps := []func() error{
		l.loadSymbols,
		l.loadProductions,
		l.loadSets,
		l.loadStates,
		l.check,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

var symbolKinds = map[string]SymbolKind{
	"terminal":    Terminal,
	"external":    External,
	"nonterminal": Nonterminal,
	"alias":       Alias,
}

func (l *loader) loadSymbols() error {
	if len(l.a.Symbols) == 0 || l.a.Symbols[0].Name != "end" {
		return fmt.Errorf("%w: first symbol must be end", ErrMalformed)
	}
	if len(l.a.Symbols) >= int(ErrorSymbol) {
		return fmt.Errorf("%w: too many symbols", ErrMalformed)
	}
	l.t.byName = make(map[string]Symbol, len(l.a.Symbols))
	var externals, extras []Symbol
	for i, as := range l.a.Symbols {
		kind, ok := symbolKinds[as.Type]
		if !ok {
			return fmt.Errorf("%w: symbol %q has type %q", ErrMalformed, as.Name, as.Type)
		}
		if _, dup := l.t.byName[as.Name]; dup {
			return fmt.Errorf("%w: symbol %q declared twice", ErrConflict, as.Name)
		}
		if as.Extra && !kind.IsTerminal() {
			return fmt.Errorf("%w: extra %q is not a terminal", ErrMalformed, as.Name)
		}
		sym := Symbol(i)
		l.t.byName[as.Name] = sym
		l.t.Symbols = append(l.t.Symbols, SymbolInfo{
			ID:      sym,
			Name:    as.Name,
			Kind:    kind,
			Visible: as.Visible,
			Named:   as.Named,
			Extra:   as.Extra,
		})
		if kind == External {
			externals = append(externals, sym)
		}
		if as.Extra {
			extras = append(extras, sym)
		}
	}
	if l.t.Symbols[End].Kind != Terminal {
		return fmt.Errorf("%w: end must be a terminal", ErrMalformed)
	}
	l.t.externals = NewSymbolSet(externals...)
	l.t.extras = NewSymbolSet(extras...)
	return nil
}

func (l *loader) symbol(name string, kinds ...SymbolKind) (Symbol, error) {
	sym, ok := l.t.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownSymbol, name)
	}
	if len(kinds) == 0 {
		return sym, nil
	}
	for _, k := range kinds {
		if l.t.Symbols[sym].Kind == k {
			return sym, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is a %s", ErrMalformed, name, l.t.Symbols[sym].Kind)
}

func (l *loader) loadProductions() error {
	l.productions = make(map[string]ProductionID, len(l.a.Productions))
	for i, ap := range l.a.Productions {
		if _, dup := l.productions[ap.Name]; dup {
			return fmt.Errorf("%w: production %q declared twice", ErrConflict, ap.Name)
		}
		lhs, err := l.symbol(ap.LHS, Nonterminal)
		if err != nil {
			return fmt.Errorf("production %q: %w", ap.Name, err)
		}
		p := Production{ID: ProductionID(i), Name: ap.Name, LHS: lhs}
		for _, name := range ap.RHS {
			sym, err := l.symbol(name)
			if err != nil {
				return fmt.Errorf("production %q: %w", ap.Name, err)
			}
			if l.t.Symbols[sym].Kind == Alias {
				return fmt.Errorf("production %q: %w: alias %q in rhs", ap.Name, ErrMalformed, name)
			}
			p.RHS = append(p.RHS, sym)
		}
		if ap.Alias != "" {
			alias, err := l.symbol(ap.Alias, Alias)
			if err != nil {
				return fmt.Errorf("production %q: %w", ap.Name, err)
			}
			p.Alias, p.HasAlias = alias, true
		}
		l.productions[ap.Name] = p.ID
		l.t.Productions = append(l.t.Productions, p)
	}
	return nil
}

func (l *loader) loadSets() error {
	l.sets = make(map[string][]Symbol, len(l.a.Sets))
	for name := range l.a.Sets {
		if _, err := l.expandSet(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) expandSet(name string, visiting []string) ([]Symbol, error) {
	if syms, ok := l.sets[name]; ok {
		return syms, nil
	}
	members, ok := l.a.Sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown set $%s", ErrMalformed, name)
	}
	for _, v := range visiting {
		if v == name {
			return nil, fmt.Errorf("%w: set cycle %s", ErrMalformed, strings.Join(append(visiting, name), " -> "))
		}
	}
	syms, err := l.expand(members, append(visiting, name))
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", name, err)
	}
	l.sets[name] = syms
	return syms, nil
}

// expand resolves a list of terminal names and $set references. A name
// that starts with $ is a terminal when a symbol by that name exists and
// no set is declared under the rest of it.
func (l *loader) expand(names []string, visiting []string) ([]Symbol, error) {
	var out []Symbol
	for _, name := range names {
		if ref, ok := strings.CutPrefix(name, "$"); ok && l.isSetRef(name, ref) {
			syms, err := l.expandSet(ref, visiting)
			if err != nil {
				return nil, err
			}
			out = append(out, syms...)
			continue
		}
		sym, err := l.symbol(name, Terminal, External)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, nil
}

func (l *loader) isSetRef(name, ref string) bool {
	if _, declared := l.a.Sets[ref]; declared {
		return true
	}
	_, terminal := l.t.byName[name]
	return !terminal
}

func (l *loader) loadStates() error {
	l.modes = make(map[string]LexMode, len(l.a.LexModes))
	for i, m := range l.a.LexModes {
		l.modes[m] = LexMode(i)
	}
	l.states = make(map[string]StateID, len(l.a.States))
	for i, as := range l.a.States {
		if _, dup := l.states[as.Name]; dup {
			return fmt.Errorf("%w: state %q declared twice", ErrConflict, as.Name)
		}
		l.states[as.Name] = StateID(i)
	}
	start, ok := l.states[l.a.Start]
	if !ok {
		return fmt.Errorf("start: %w %q", ErrUnknownState, l.a.Start)
	}
	l.t.Start = start

	for i, as := range l.a.States {
		mode, ok := l.modes[as.Mode]
		if !ok {
			return fmt.Errorf("state %q: %w: lex mode %q", as.Name, ErrMalformed, as.Mode)
		}
		s := State{
			ID:      StateID(i),
			Name:    as.Name,
			LexMode: mode,
			actions: make(map[Symbol]Action),
			gotos:   make(map[Symbol]StateID),
		}
		blocks := make([]artifactBlock, 0, len(as.Include)+1)
		for _, g := range as.Include {
			b, ok := l.a.Groups[g]
			if !ok {
				return fmt.Errorf("state %q: %w: unknown group %q", as.Name, ErrMalformed, g)
			}
			blocks = append(blocks, b)
		}
		blocks = append(blocks, artifactBlock{Actions: as.Actions, Gotos: as.Gotos})
		for _, b := range blocks {
			if err := l.addBlock(&s, b); err != nil {
				return fmt.Errorf("state %q: %w", as.Name, err)
			}
		}
		valid := make([]Symbol, 0, len(s.actions))
		for sym := range s.actions {
			valid = append(valid, sym)
		}
		s.valid = NewSymbolSet(valid...)
		l.t.States = append(l.t.States, s)
	}
	return nil
}

func (l *loader) addBlock(s *State, b artifactBlock) error {
	for _, aa := range b.Actions {
		action, err := l.action(aa)
		if err != nil {
			return err
		}
		syms, err := l.expand(aa.On, nil)
		if err != nil {
			return err
		}
		if len(syms) == 0 {
			return fmt.Errorf("%w: action without lookahead", ErrMalformed)
		}
		for _, sym := range syms {
			if _, dup := s.actions[sym]; dup {
				return fmt.Errorf("%w: two actions on %q", ErrConflict, l.t.Symbols[sym].Name)
			}
			s.actions[sym] = action
		}
	}
	for name, target := range b.Gotos {
		sym, err := l.symbol(name, Nonterminal)
		if err != nil {
			return fmt.Errorf("goto: %w", err)
		}
		next, ok := l.states[target]
		if !ok {
			return fmt.Errorf("goto %s: %w %q", name, ErrUnknownState, target)
		}
		if _, dup := s.gotos[sym]; dup {
			return fmt.Errorf("%w: two gotos on %q", ErrConflict, name)
		}
		s.gotos[sym] = next
	}
	return nil
}

func (l *loader) action(aa artifactAction) (Action, error) {
	a := Action{Reusable: true}
	if aa.Reusable != nil {
		a.Reusable = *aa.Reusable
	}
	if aa.Accept {
		if aa.Shift != "" || aa.Reduce != "" {
			return Action{}, fmt.Errorf("%w: accept combined with shift or reduce", ErrMalformed)
		}
		a.Kind = ActionAccept
		return a, nil
	}
	if aa.Reduce != "" {
		id, ok := l.productions[aa.Reduce]
		if !ok {
			return Action{}, fmt.Errorf("%w %q", ErrUnknownProduction, aa.Reduce)
		}
		a.Kind = ActionReduce
		a.Production = id
		a.PopCount = len(l.t.Productions[id].RHS)
	}
	if aa.Shift != "" {
		next, ok := l.states[aa.Shift]
		if !ok {
			return Action{}, fmt.Errorf("shift: %w %q", ErrUnknownState, aa.Shift)
		}
		a.State = next
		if a.Kind == ActionReduce {
			a.Kind = ActionReduceThenShift
		} else {
			a.Kind = ActionShift
		}
	}
	if a.Kind == ActionError {
		return Action{}, fmt.Errorf("%w: action has no shift, reduce or accept", ErrMalformed)
	}
	return a, nil
}

// check verifies shape properties that span states.
func (l *loader) check() error {
	hasGoto := make(map[Symbol]bool)
	for _, s := range l.t.States {
		for sym := range s.gotos {
			hasGoto[sym] = true
		}
	}
	for _, s := range l.t.States {
		if len(s.actions) == 0 {
			return fmt.Errorf("state %q: %w: no actions", s.Name, ErrMalformed)
		}
		for sym, a := range s.actions {
			if a.Kind != ActionReduce && a.Kind != ActionReduceThenShift {
				continue
			}
			lhs := l.t.Productions[a.Production].LHS
			if !hasGoto[lhs] {
				return fmt.Errorf("state %q: %w: reduce on %q to %q which no state can goto",
					s.Name, ErrMalformed, l.t.Symbols[sym].Name, l.t.Symbols[lhs].Name)
			}
		}
	}
	return nil
}
