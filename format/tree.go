package format

import (
	"io"

	"github.com/dhamidi/able/syntax"
)

// TreeEncoder writes every node, hidden leaves and anonymous tokens
// included, one per line and indented by depth.
type TreeEncoder struct {
	w    io.Writer
	opts Options
}

func NewTreeEncoder(w io.Writer, opts Options) *TreeEncoder {
	return &TreeEncoder{w: w, opts: opts}
}

func (e *TreeEncoder) Encode(tree *syntax.Tree) error {
	return encode(e.w, e, tree)
}

func (e *TreeEncoder) MarshalTree(tree *syntax.Tree) ([]byte, error) {
	if e.opts.Positions {
		return []byte(tree.Root.StringWithPositions()), nil
	}
	return []byte(tree.Root.String()), nil
}
