package format

import (
	"io"
	"strings"

	"github.com/dhamidi/able/syntax"
)

// SExprEncoder writes the named nodes of a tree as one S-expression per
// tree, e.g. (source_file (expression_statement (integer_literal))).
type SExprEncoder struct {
	w    io.Writer
	opts Options
}

func NewSExprEncoder(w io.Writer, opts Options) *SExprEncoder {
	return &SExprEncoder{w: w, opts: opts}
}

func (e *SExprEncoder) Encode(tree *syntax.Tree) error {
	return encode(e.w, e, tree)
}

func (e *SExprEncoder) MarshalTree(tree *syntax.Tree) ([]byte, error) {
	var b strings.Builder
	writeSExpr(&b, tree.Root, e.opts.Positions)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// SExpr renders n and its named descendants.
func SExpr(n *syntax.Node) string {
	var b strings.Builder
	writeSExpr(&b, n, false)
	return b.String()
}

func writeSExpr(b *strings.Builder, n *syntax.Node, positions bool) {
	b.WriteString("(")
	b.WriteString(n.Type)
	if positions {
		b.WriteString(" [")
		b.WriteString(n.Span.Start.String())
		b.WriteString(" - ")
		b.WriteString(n.Span.End.String())
		b.WriteString("]")
	}
	for _, child := range n.NamedChildren() {
		b.WriteString(" ")
		writeSExpr(b, child, positions)
	}
	b.WriteString(")")
}
