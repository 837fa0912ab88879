package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/able/syntax"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(tree *syntax.Tree) error {
	return encode(e.w, e, tree)
}

func (e *JSONEncoder) MarshalTree(tree *syntax.Tree) ([]byte, error) {
	data := jsonTree{
		Root:        tree.Root,
		Diagnostics: make([]jsonDiagnostic, 0, len(tree.Diagnostics)),
	}
	for _, d := range tree.Diagnostics {
		data.Diagnostics = append(data.Diagnostics, jsonDiagnostic{
			Kind:     d.Kind.String(),
			Start:    jsonPosition{Line: d.Span.Start.Line, Column: d.Span.Start.Column},
			End:      jsonPosition{Line: d.Span.End.Line, Column: d.Span.End.Column},
			Message:  d.Message,
			Expected: d.Expected,
		})
	}
	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type jsonTree struct {
	Root        *syntax.Node     `json:"root"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonDiagnostic struct {
	Kind     string       `json:"kind"`
	Start    jsonPosition `json:"start"`
	End      jsonPosition `json:"end"`
	Message  string       `json:"message"`
	Expected []string     `json:"expected,omitempty"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}
