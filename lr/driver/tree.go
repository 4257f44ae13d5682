package driver

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gramma"
	"github.com/npillmayer/gramma/lr"
)

// Node is a node of a concrete parse tree. Leaf nodes carry a token, inner nodes
// carry the rule they have been reduced with.
type Node struct {
	Symbol   *lr.Symbol
	Token    gramma.Token // nil for non-terminals
	Rule     *lr.Rule     // nil for terminals
	Span     gramma.Span
	Children []*Node
}

// IsLeaf returns true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Rule == nil
}

// Leaves returns the tokens of the tree's terminal nodes, left to right.
func (n *Node) Leaves() []gramma.Token {
	var tokens []gramma.Token
	n.Walk(func(node *Node, depth int) {
		if node.IsLeaf() && node.Token != nil {
			tokens = append(tokens, node.Token)
		}
	})
	return tokens
}

// Walk visits the tree in pre-order.
func (n *Node) Walk(f func(node *Node, depth int)) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.walk(f, depth+1)
	}
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%s(%q)", n.Symbol.Name, n.Token.Lexeme())
	}
	return fmt.Sprintf("%s%s", n.Symbol.Name, n.Span)
}

// Dump returns an indented representation of the tree, one node per line.
func (n *Node) Dump() string {
	var b strings.Builder
	n.Walk(func(node *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(node.String())
		b.WriteByte('\n')
	})
	return b.String()
}
