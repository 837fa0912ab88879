// Package syntax is a table-driven shift/reduce parser. A Language pairs a
// grammar.Table with the lexer that produces its terminals; the parser
// asks the lexer for one token at a time, in the lex mode of its current
// state, and builds a concrete syntax tree as it reduces.
package syntax

import (
	"context"
	"unicode/utf8"

	"github.com/dhamidi/able/grammar"
	"github.com/tliron/commonlog"
)

// Lexer recognises one token at the cursor in the given lex mode. At end
// of input it returns a grammar.End token.
type Lexer interface {
	Lex(c *Cursor, mode grammar.LexMode) Token
}

// ExternalScanner recognises the terminals the lexer cannot decide from
// the text alone. It is called before the lexer whenever the parser could
// accept one of the table's external symbols, and reports false to defer.
type ExternalScanner interface {
	Scan(c *Cursor, valid grammar.SymbolSet) (grammar.Symbol, bool)
}

type Language struct {
	Table   *grammar.Table
	Lexer   Lexer
	Scanner ExternalScanner
}

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser holds configuration only. Each call to Parse owns its own cursor
// and stack, so a Parser may be used from several goroutines.
type Parser struct {
	lang Language
	file string
	log  commonlog.Logger
}

func NewParser(lang Language, opts ...Option) *Parser {
	p := &Parser{
		lang: lang,
		log:  commonlog.GetLogger("able.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Language() Language {
	return p.lang
}

// Parse always returns a tree. Syntax problems are reported as
// diagnostics and bracketed by ERROR nodes.
func (p *Parser) Parse(src []byte) *Tree {
	tree, _ := p.ParseContext(context.Background(), src)
	return tree
}

// ParseContext is Parse with cancellation checked between tokens.
func (p *Parser) ParseContext(ctx context.Context, src []byte) (*Tree, error) {
	r := &run{
		p:        p,
		t:        p.lang.Table,
		src:      src,
		cursor:   NewCursor(src, p.file),
		reported: make(map[int]bool),
		inserted: make(map[int]bool),
	}
	r.stack = append(r.stack, stackEntry{state: r.t.Start})
	root, err := r.loop(ctx)
	if err != nil {
		return nil, err
	}
	root.Span = Span{Start: r.positionAt(0), End: r.positionAt(len(src))}
	return &Tree{Root: root, Diagnostics: r.diags, Source: src}, nil
}

type stackEntry struct {
	state grammar.StateID
	node  *Node
}

// run is the state of a single parse.
type run struct {
	p      *Parser
	t      *grammar.Table
	src    []byte
	cursor *Cursor
	stack  []stackEntry
	diags  []Diagnostic

	la      Token
	haveLA  bool
	laFrom  Position
	laState grammar.StateID
	laMode  grammar.LexMode

	// reported holds the offsets of zero-width lex errors already
	// diagnosed, so that each is reported once.
	reported map[int]bool
	// inserted holds the offsets where recovery already stood in an
	// empty ERROR node for a missing construct.
	inserted map[int]bool
}

func (r *run) top() stackEntry {
	return r.stack[len(r.stack)-1]
}

func (r *run) push(state grammar.StateID, node *Node) {
	r.stack = append(r.stack, stackEntry{state: state, node: node})
}

func (r *run) loop(ctx context.Context) (*Node, error) {
	for {
		state := r.top().state
		if !r.haveLA {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r.next(state)
		}

		action := r.t.Action(state, r.la.Symbol)
		if r.laState != state && (r.laMode != r.t.LexMode(state) || (!action.IsError() && !action.Reusable)) {
			r.cursor.Reset(r.laFrom)
			r.next(state)
			action = r.t.Action(state, r.la.Symbol)
		}

		switch action.Kind {
		case grammar.ActionShift:
			r.push(action.State, r.leaf(r.la))
			r.haveLA = false
		case grammar.ActionReduce:
			if !r.reduce(action) {
				return r.exhaust(nil, "grammar table has no goto for the reduction"), nil
			}
		case grammar.ActionReduceThenShift:
			if !r.reduce(action) {
				return r.exhaust(nil, "grammar table has no goto for the reduction"), nil
			}
			r.push(action.State, r.leaf(r.la))
			r.haveLA = false
		case grammar.ActionAccept:
			return r.accept(), nil
		default:
			if r.t.IsExtra(r.la.Symbol) {
				extra := r.leaf(r.la)
				extra.Extra = true
				r.push(state, extra)
				r.haveLA = false
				continue
			}
			if root := r.recover(); root != nil {
				return root, nil
			}
		}
	}
}

// next lexes the lookahead for state.
func (r *run) next(state grammar.StateID) {
	r.laFrom = r.cursor.Position()
	r.laState = state
	r.laMode = r.t.LexMode(state)
	r.la = r.lex(state)
	r.haveLA = true
}

func (r *run) lex(state grammar.StateID) Token {
	valid := r.t.Valid(state)
	if scanner := r.p.lang.Scanner; scanner != nil && valid.Intersects(r.t.Externals()) {
		start := r.cursor.Position()
		r.cursor.Begin()
		if sym, ok := scanner.Scan(r.cursor, valid); ok && valid.Has(sym) {
			return r.cursor.Emit(sym)
		}
		r.cursor.Reset(start)
	}

	tok := r.p.lang.Lexer.Lex(r.cursor, r.laMode)
	if tok.IsError() && tok.Span.IsEmpty() && r.reported[tok.Span.Start.Offset] {
		if r.cursor.AtEOF() {
			r.cursor.Begin()
			return r.cursor.Emit(grammar.End)
		}
		r.cursor.Advance()
		tok = r.cursor.Fail(tok.Message)
	}
	return tok
}

func (r *run) leaf(tok Token) *Node {
	info := r.t.Symbol(tok.Symbol)
	n := &Node{
		Symbol:  tok.Symbol,
		Type:    info.Name,
		Visible: info.Visible,
		Named:   info.Named,
		Span:    tok.Span,
		Token:   &tok,
	}
	if tok.IsError() {
		n.Error = &Error{Message: tok.Message, Got: &tok}
	}
	return n
}

// reduce pops the production's children, builds its node and pushes it
// in the goto state. Extras on top of the stack stay on top.
func (r *run) reduce(a grammar.Action) bool {
	prod := r.t.Production(a.Production)

	i := len(r.stack)
	for i > 1 && r.stack[i-1].node.Extra {
		i--
	}
	trailing := append([]stackEntry(nil), r.stack[i:]...)

	j, n := i, 0
	for n < a.PopCount && j > 1 {
		j--
		if !r.stack[j].node.Extra {
			n++
		}
	}
	children := make([]*Node, 0, i-j)
	for _, e := range r.stack[j:i] {
		children = append(children, e.node)
	}
	base := r.stack[j-1].state
	r.stack = r.stack[:j]

	node := r.build(prod, children)
	next, ok := r.t.Goto(base, prod.LHS)
	if !ok {
		r.p.log.Errorf("no goto from state %d on %s", base, r.t.SymbolName(prod.LHS))
		r.push(base, node)
		for _, e := range trailing {
			r.push(base, e.node)
		}
		return false
	}
	r.push(next, node)
	for _, e := range trailing {
		r.push(next, e.node)
	}
	return true
}

func (r *run) accept() *Node {
	var root *Node
	var before, after []*Node
	for _, e := range r.stack[1:] {
		switch {
		case root == nil && e.node.Extra:
			before = append(before, e.node)
		case root == nil:
			root = e.node
		default:
			after = append(after, e.node)
		}
	}
	if root == nil {
		return r.exhaust(nil, "accepted without a root")
	}
	if len(before) > 0 || len(after) > 0 {
		children := make([]*Node, 0, len(before)+len(root.Children)+len(after))
		children = append(children, before...)
		children = append(children, root.Children...)
		children = append(children, after...)
		root.Children = children
	}
	r.p.log.Debugf("accepted %d bytes with %d diagnostics", len(r.src), len(r.diags))
	return root
}

// positionAt computes the position of a byte offset.
func (r *run) positionAt(offset int) Position {
	p := Position{File: r.p.file, Line: 1, Column: 1}
	for p.Offset < offset {
		ch, size := utf8.DecodeRune(r.src[p.Offset:])
		p.Offset += size
		if ch == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}
