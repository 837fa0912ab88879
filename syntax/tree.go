package syntax

import "github.com/dhamidi/able/grammar"

// build makes the node for a reduction. An aliased production takes the
// alias's kind; a hidden production keeps its children for splicing.
func (r *run) build(prod grammar.Production, children []*Node) *Node {
	sym := prod.LHS
	if prod.HasAlias {
		sym = prod.Alias
	}
	info := r.t.Symbol(sym)
	n := &Node{
		Symbol:  sym,
		Type:    info.Name,
		Visible: info.Visible,
		Named:   info.Named,
	}
	for _, child := range children {
		n.appendChild(child)
	}
	n.Span = coverNodes(children, r.la.Span.Start)
	return n
}

// appendChild adds child, splicing the children of hidden inner nodes in
// its place. Hidden leaves stay: they still cover source text.
func (n *Node) appendChild(child *Node) {
	if child == nil {
		return
	}
	if child.spliced() {
		n.Children = append(n.Children, child.Children...)
		return
	}
	n.Children = append(n.Children, child)
}

func (n *Node) spliced() bool {
	return !n.Visible && !n.IsLeaf() && !n.IsError() && !n.Extra
}

// coverNodes returns the union of the spans of nodes, or a zero-width span
// at pos when there are none.
func coverNodes(nodes []*Node, pos Position) Span {
	if len(nodes) == 0 {
		return Span{Start: pos, End: pos}
	}
	span := nodes[0].Span
	for _, n := range nodes[1:] {
		span = span.Cover(n.Span)
	}
	return span
}
