package ast

import "cellc/src/symtab"

// Node is one node of the typed syntax tree the IR generator walks. It
// follows the original compiler's ASTNode shape (parent/first-child/
// next-sibling links) rather than the teacher compiler's slice-of-children
// Node, because the IR generator's pre/post visitor (src/irgen) is written
// against exactly this shape: walk FirstChild, then each sibling's
// NextSibling, recursing into grandchildren as needed.
type Node struct {
	Rule Rule
	Text string
	Pos  Position

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	NextSibling *Node
	PrevSibling *Node

	// Visitable is set true by NewNode. Neither the parser nor irgen's
	// traversal reads or clears it.
	Visitable bool

	// Symbol is a slot for binding a declaration or identifier node to its
	// symbol-table entry, a dedicated field rather than a generic tag. The
	// IR generator resolves names through its own symtab.Table and does
	// not set this field.
	Symbol *symtab.Symbol

	// Node-kind-specific payload. Exactly one of these is meaningful for
	// any given Rule; Build sets it according to the node's Rule.
	Op       Operator
	Type     TypeSpecifier
	IntVal   int32
	IntRadix int
	RealVal  float32
	IsSystem bool // identifier node originated from a `#`-prefixed system identifier
	BoolVal  bool
}

// AppendChild links c as the new last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	c.PrevSibling = n.LastChild
	c.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
}

// Children materializes the sibling chain as a slice for callers that find
// that more convenient than walking links directly (tests, printers).
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of direct children of n.
func (n *Node) ChildCount() int {
	c := 0
	for e := n.FirstChild; e != nil; e = e.NextSibling {
		c++
	}
	return c
}

// NewNode constructs a bare node for rule r at position pos with source
// slice text. Node-kind-specific payload fields are left zero; callers set
// them during value extraction in Build.
func NewNode(r Rule, text string, pos Position) *Node {
	return &Node{Rule: r, Text: text, Pos: pos, Visitable: true}
}

// Print writes an indented dump of the subtree rooted at n, in the
// teacher's ir.Node.Print style: one line per node, rule name, then text
// if non-empty.
func (n *Node) Print(depth int, w func(string)) {
	indent := make([]byte, depth*2)
	for i1 := range indent {
		indent[i1] = ' '
	}
	line := string(indent) + n.Rule.String()
	if n.Text != "" {
		line += " " + n.Text
	}
	w(line)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Print(depth+1, w)
	}
}
