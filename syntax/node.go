package syntax

import (
	"strings"

	"github.com/dhamidi/able/grammar"
)

type Error struct {
	Message  string
	Expected []string
	Got      *Token
}

// Node is a node of the concrete syntax tree. Leaves carry the token they
// were built from; inner nodes carry their children in source order.
type Node struct {
	Symbol   grammar.Symbol
	Type     string
	Visible  bool
	Named    bool
	Extra    bool
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) IsError() bool {
	return n.Symbol == grammar.ErrorSymbol
}

func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

// HasError reports whether n or any descendant is an ERROR node.
func (n *Node) HasError() bool {
	if n.IsError() {
		return true
	}
	for _, child := range n.Children {
		if child.HasError() {
			return true
		}
	}
	return false
}

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// NamedChildren returns the visible, named children. Anonymous tokens
// and invisible terminals such as line terminators are skipped.
func (n *Node) NamedChildren() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Visible && child.Named {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) FirstChildOfType(typ string) *Node {
	for _, child := range n.Children {
		if child.Type == typ {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfType(typ string) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Type == typ {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Leaves returns every leaf below n in source order.
func (n *Node) Leaves() []*Node {
	var result []*Node
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() {
			result = append(result, node)
		}
		return true
	})
	return result
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// DescendantAt returns the path from n down to the innermost visible node
// whose span contains offset. The path is empty when n does not contain it.
func (n *Node) DescendantAt(offset int) []*Node {
	if !n.Span.Contains(offset) {
		return nil
	}
	path := []*Node{n}
	for {
		next := (*Node)(nil)
		for _, child := range path[len(path)-1].Children {
			if child.Visible && child.Span.Contains(offset) {
				next = child
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
	}
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Type)
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + quoteLiteral(n.Token.Literal))
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}

func quoteLiteral(s string) string {
	r := strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
