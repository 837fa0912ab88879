// Package format renders syntax trees and their diagnostics.
package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/able/syntax"
)

type Encoder interface {
	MarshalTree(tree *syntax.Tree) ([]byte, error)
	Encode(tree *syntax.Tree) error
}

type Options struct {
	// Positions adds spans to the tree and S-expression output.
	Positions bool
}

var encoders = map[string]func(io.Writer, Options) Encoder{
	"sexp": func(w io.Writer, o Options) Encoder { return NewSExprEncoder(w, o) },
	"tree": func(w io.Writer, o Options) Encoder { return NewTreeEncoder(w, o) },
	"json": func(w io.Writer, o Options) Encoder { return NewJSONEncoder(w) },
}

// Formats lists the names accepted by NewEncoder.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewEncoder(name string, w io.Writer, opts Options) (Encoder, error) {
	newEncoder, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Formats())
	}
	return newEncoder(w, opts), nil
}

func encode(w io.Writer, e Encoder, tree *syntax.Tree) error {
	text, err := e.MarshalTree(tree)
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
