package vdom

import "strings"

// Bounds is a contiguous run of sibling nodes inside one parent element.
type Bounds interface {
	ParentElement() *Node
	FirstNode() *Node
	LastNode() *Node
}

// SingleNode bounds exactly one node.
type SingleNode struct {
	Parent *Node
	Node   *Node
}

func (b SingleNode) ParentElement() *Node { return b.Parent }
func (b SingleNode) FirstNode() *Node     { return b.Node }
func (b SingleNode) LastNode() *Node      { return b.Node }

// Range bounds First through Last inclusive.
type Range struct {
	Parent *Node
	First  *Node
	Last   *Node
}

func (b Range) ParentElement() *Node { return b.Parent }
func (b Range) FirstNode() *Node     { return b.First }
func (b Range) LastNode() *Node      { return b.Last }

// Nodes returns the nodes covered by b in document order.
func Nodes(b Bounds) []*Node {
	first, last := b.FirstNode(), b.LastNode()
	if first == nil {
		return nil
	}
	var out []*Node
	for n := first; n != nil; n = n.next {
		out = append(out, n)
		if n == last {
			break
		}
	}
	return out
}

// Mutator is the part of a document the bounds helpers write through.
type Mutator interface {
	InsertBefore(parent, node, ref *Node)
	Remove(node *Node)
}

// Clear removes every node in b and returns the node that followed it.
func Clear(d Mutator, b Bounds) *Node {
	nodes := Nodes(b)
	if len(nodes) == 0 {
		return nil
	}
	next := nodes[len(nodes)-1].next
	for _, n := range nodes {
		d.Remove(n)
	}
	return next
}

// Move relocates every node in b to parent before ref.
func Move(d Mutator, b Bounds, parent, ref *Node) {
	for _, n := range Nodes(b) {
		d.InsertBefore(parent, n, ref)
	}
}

// HTMLOf serializes the nodes covered by b.
func HTMLOf(b Bounds) string {
	var sb strings.Builder
	for _, n := range Nodes(b) {
		writeNode(&sb, n)
	}
	return sb.String()
}
