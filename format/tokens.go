package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/able/syntax"
)

// TokenEncoder writes the leaves of a tree, the tokens the parser
// consumed, as tab-separated lines: span, type, literal.
type TokenEncoder struct {
	w io.Writer
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(tree *syntax.Tree) error {
	return encode(e.w, e, tree)
}

func (e *TokenEncoder) MarshalTree(tree *syntax.Tree) ([]byte, error) {
	var sb strings.Builder
	for _, leaf := range tree.Root.Leaves() {
		tok := leaf.Token
		kind := leaf.Type
		if tok.IsError() {
			kind = "ERROR"
		}
		fmt.Fprintf(&sb, "%d:%d-%d:%d\t%s\t%q\n",
			tok.Span.Start.Line, tok.Span.Start.Column,
			tok.Span.End.Line, tok.Span.End.Column,
			kind,
			tok.Literal,
		)
	}
	return []byte(sb.String()), nil
}
