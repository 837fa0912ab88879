package syntax

import (
	"fmt"

	"github.com/dhamidi/able/grammar"
)

// recover handles an error action on the current lookahead. When the
// lookahead would be shifted right after some missing construct, an empty
// ERROR node stands in for that construct and the lookahead is kept.
// Otherwise it discards the offending token and the tokens after it until
// some state on the stack has an action for the lookahead, then wraps
// everything between that state and the lookahead in an ERROR node. It
// returns a root only when no state accepts the end of input.
func (r *run) recover() *Node {
	state := r.top().state
	bad := r.la
	expected := r.expected(state)
	r.report(bad, expected)

	if r.insertMissing(state, bad, expected) {
		return nil
	}

	var skipped []Token
	if bad.Symbol != grammar.End {
		skipped = append(skipped, bad)
		r.haveLA = false
	}

	for {
		if !r.haveLA {
			r.next(state)
		}
		if r.la.IsError() {
			r.reportLex(r.la, expected)
			skipped = append(skipped, r.la)
			r.haveLA = false
			continue
		}
		if d := r.resumeAt(r.la.Symbol); d >= 0 {
			r.wrap(d, skipped, bad, expected)
			return nil
		}
		if r.la.Symbol == grammar.End {
			return r.exhaust(skipped, "no enclosing construct accepts the end of input")
		}
		skipped = append(skipped, r.la)
		r.haveLA = false
	}
}

// insertMissing pushes an empty ERROR node in place of a nonterminal
// missing before bad, when the state after that nonterminal shifts bad.
// It only repairs inside a construct already opened on the stack, and at
// most once per offset.
func (r *run) insertMissing(state grammar.StateID, bad Token, expected []string) bool {
	if len(r.stack) < 2 || bad.IsError() || bad.Symbol == grammar.End || r.inserted[bad.Span.Start.Offset] {
		return false
	}
	for _, sym := range r.t.Gotos(state) {
		next, _ := r.t.Goto(state, sym)
		if r.t.Action(next, bad.Symbol).Kind != grammar.ActionShift || r.t.LexMode(next) != r.laMode {
			continue
		}
		r.inserted[bad.Span.Start.Offset] = true
		node := r.errorNode(nil, nil, bad, expected)
		node.Extra = false
		r.p.log.Debugf("recovered at %s: missing %s", bad.Span.Start, r.t.SymbolName(sym))
		r.push(next, node)
		return true
	}
	return false
}

// resumeAt returns the index of the topmost stack entry whose state has an
// action for sym, or -1.
func (r *run) resumeAt(sym grammar.Symbol) int {
	if r.t.IsExtra(sym) {
		return len(r.stack) - 1
	}
	for i := len(r.stack) - 1; i >= 0; i-- {
		if !r.t.Action(r.stack[i].state, sym).IsError() {
			return i
		}
	}
	return -1
}

func (r *run) wrap(d int, skipped []Token, bad Token, expected []string) {
	entries := make([]*Node, 0, len(r.stack)-d-1)
	for _, e := range r.stack[d+1:] {
		entries = append(entries, e.node)
	}
	r.stack = r.stack[:d+1]

	node := r.errorNode(entries, skipped, bad, expected)
	if len(node.Children) == 0 && node.Span.IsEmpty() {
		return
	}
	r.p.log.Debugf("recovered at %s: wrapped %d entries and %d tokens", node.Span.Start, len(entries), len(skipped))
	r.push(r.stack[d].state, node)
}

// exhaust gives up structural recognition and returns a root ERROR node
// holding the whole stack and the skipped input.
func (r *run) exhaust(skipped []Token, message string) *Node {
	expected := r.expected(r.top().state)
	entries := make([]*Node, 0, len(r.stack)-1)
	for _, e := range r.stack[1:] {
		entries = append(entries, e.node)
	}
	root := r.errorNode(entries, skipped, r.la, expected)
	root.Extra = false
	root.Error.Message = message

	span := Span{Start: r.la.Span.Start, End: r.la.Span.End}
	if len(skipped) > 0 {
		span.Start = skipped[0].Span.Start
	}
	r.diags = append(r.diags, Diagnostic{
		Kind:     RecoveryExhausted,
		Span:     span,
		Message:  message,
		Expected: expected,
	})
	r.p.log.Debugf("recovery exhausted at %s", span.Start)
	return root
}

func (r *run) errorNode(entries []*Node, skipped []Token, bad Token, expected []string) *Node {
	got := bad
	n := &Node{
		Symbol:  grammar.ErrorSymbol,
		Type:    r.t.SymbolName(grammar.ErrorSymbol),
		Visible: true,
		Named:   true,
		Extra:   true,
		Error: &Error{
			Message:  r.describe(bad),
			Expected: expected,
			Got:      &got,
		},
	}
	all := append([]*Node(nil), entries...)
	for _, tok := range skipped {
		if tok.Span.IsEmpty() {
			continue
		}
		leaf := r.leaf(tok)
		if tok.IsError() {
			// The region carries the error; its lex-error tokens are
			// plain text inside it.
			leaf.Visible, leaf.Named = false, false
		}
		all = append(all, leaf)
	}
	for _, child := range all {
		n.appendChild(child)
	}
	n.Span = coverNodes(all, bad.Span.Start)
	return n
}

func (r *run) report(tok Token, expected []string) {
	if tok.IsError() {
		r.reportLex(tok, expected)
		return
	}
	r.diags = append(r.diags, Diagnostic{
		Kind:     ParseError,
		Span:     tok.Span,
		Message:  r.describe(tok),
		Expected: expected,
	})
}

// reportLex records a lex error. Zero-width errors are reported once per
// offset and adjacent errors with the same message are merged.
func (r *run) reportLex(tok Token, expected []string) {
	if tok.Span.IsEmpty() {
		if r.reported[tok.Span.Start.Offset] {
			return
		}
		r.reported[tok.Span.Start.Offset] = true
	}
	if n := len(r.diags); n > 0 {
		last := &r.diags[n-1]
		if last.Kind == LexError && last.Message == tok.Message && last.Span.End.Offset == tok.Span.Start.Offset {
			last.Span.End = tok.Span.End
			return
		}
	}
	r.diags = append(r.diags, Diagnostic{
		Kind:     LexError,
		Span:     tok.Span,
		Message:  tok.Message,
		Expected: expected,
	})
}

func (r *run) describe(tok Token) string {
	switch {
	case tok.IsError():
		return tok.Message
	case tok.Symbol == grammar.End:
		return "unexpected end of input"
	}
	return fmt.Sprintf("unexpected %q", tok.Literal)
}

func (r *run) expected(state grammar.StateID) []string {
	syms := r.t.Valid(state).Symbols()
	names := make([]string, 0, len(syms))
	for _, sym := range syms {
		names = append(names, r.t.SymbolName(sym))
	}
	return names
}
