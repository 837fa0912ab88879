package syntax

import (
	"fmt"
	"strings"
)

type DiagnosticKind int

const (
	// LexError: no token rule matched at the position.
	LexError DiagnosticKind = iota
	// ParseError: a well-formed token had no action in the current state.
	ParseError
	// RecoveryExhausted: no state on the stack could resume, so the rest of
	// the input was wrapped in a single error node.
	RecoveryExhausted
)

var diagnosticKindNames = map[DiagnosticKind]string{
	LexError:          "lex error",
	ParseError:        "parse error",
	RecoveryExhausted: "recovery exhausted",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Diagnostic struct {
	Kind     DiagnosticKind
	Span     Span
	Message  string
	Expected []string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", d.Span.Start, d.Kind, d.Message)
	if len(d.Expected) > 0 {
		b.WriteString("; ")
		b.WriteString(ExpectedText(d.Expected))
	}
	return b.String()
}

// ExpectedText phrases the terminals a parser state would have accepted:
// "expected x" or "expected one of x, y". It is empty for an empty list.
func ExpectedText(expected []string) string {
	switch len(expected) {
	case 0:
		return ""
	case 1:
		return "expected " + expected[0]
	}
	return "expected one of " + strings.Join(expected, ", ")
}

// Tree is the result of one parse.
type Tree struct {
	Root        *Node
	Diagnostics []Diagnostic
	Source      []byte
}

func (t *Tree) HasErrors() bool {
	return len(t.Diagnostics) > 0
}

// Text returns the source covered by n.
func (t *Tree) Text(n *Node) string {
	return string(t.Source[n.Span.Start.Offset:n.Span.End.Offset])
}
