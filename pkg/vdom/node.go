package vdom

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement  NodeKind = iota // <div>, <button>, etc.
	KindText                     // Plain text node
	KindComment                  // <!--...-->
	KindFragment                 // Root container with no markup of its own
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Attr is a single attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the output document.
type Node struct {
	Kind NodeKind
	Tag  string // element tag name
	Data string // text or comment content

	id    uint64
	attrs []Attr

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint64 { return n.id }

func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) FirstChild() *Node  { return n.firstChild }
func (n *Node) LastChild() *Node   { return n.lastChild }
func (n *Node) NextSibling() *Node { return n.next }
func (n *Node) PrevSibling() *Node { return n.prev }

// Children returns the node's children in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns the element's attributes in the order they were first set.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Data
	}
	var s string
	for c := n.firstChild; c != nil; c = c.next {
		if c.Kind != KindComment {
			s += c.TextContent()
		}
	}
	return s
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) setAttr(name, value string) (changed bool) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			if n.attrs[i].Value == value {
				return false
			}
			n.attrs[i].Value = value
			return true
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	return true
}

func (n *Node) removeAttr(name string) bool {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Node) unlink() {
	p := n.parent
	if p == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		p.firstChild = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		p.lastChild = n.prev
	}
	n.parent, n.prev, n.next = nil, nil, nil
}

func (n *Node) link(parent, ref *Node) {
	n.parent = parent
	if ref == nil {
		n.prev = parent.lastChild
		if parent.lastChild != nil {
			parent.lastChild.next = n
		} else {
			parent.firstChild = n
		}
		parent.lastChild = n
		return
	}
	n.next = ref
	n.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = n
	} else {
		parent.firstChild = n
	}
	ref.prev = n
}
