package syntax

import "encoding/json"

type jsonNode struct {
	Type     string      `json:"type"`
	Named    bool        `json:"named,omitempty"`
	Extra    bool        `json:"extra,omitempty"`
	Span     jsonSpan    `json:"span"`
	Token    *string     `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Type:  n.Type,
		Named: n.Named,
		Extra: n.Extra,
		Span: jsonSpan{
			Start: jsonPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		},
	}

	if n.Token != nil {
		literal := n.Token.Literal
		jn.Token = &literal
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message:  n.Error.Message,
			Expected: n.Error.Expected,
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}
