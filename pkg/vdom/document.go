package vdom

// Document owns the nodes of one output tree and journals every mutation.
type Document struct {
	nextID  uint64
	journal []Patch
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) newNode(kind NodeKind) *Node {
	d.nextID++
	return &Node{Kind: kind, id: d.nextID}
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *Node {
	n := d.newNode(KindElement)
	n.Tag = tag
	return n
}

// CreateText returns a detached text node.
func (d *Document) CreateText(text string) *Node {
	n := d.newNode(KindText)
	n.Data = text
	return n
}

// CreateComment returns a detached comment node.
func (d *Document) CreateComment(text string) *Node {
	n := d.newNode(KindComment)
	n.Data = text
	return n
}

// CreateFragment returns a container used as a render root.
func (d *Document) CreateFragment() *Node {
	return d.newNode(KindFragment)
}

// InsertBefore inserts node into parent before ref, or at the end when ref
// is nil. An attached node is moved.
func (d *Document) InsertBefore(parent, node, ref *Node) {
	if ref == node {
		return
	}
	if ref != nil && ref.parent != parent {
		panic("vdom: reference node is not a child of parent")
	}
	op := PatchInsertNode
	if node.parent != nil {
		if node.parent == parent && node.next == ref {
			return
		}
		op = PatchMoveNode
		node.unlink()
	}
	node.link(parent, ref)

	p := Patch{Op: op, NodeID: node.id, ParentID: parent.id}
	if ref != nil {
		p.BeforeID = ref.id
	}
	d.journal = append(d.journal, p)
}

// AppendChild inserts node as the last child of parent.
func (d *Document) AppendChild(parent, node *Node) {
	d.InsertBefore(parent, node, nil)
}

// Remove detaches node from its parent.
func (d *Document) Remove(node *Node) {
	if node.parent == nil {
		return
	}
	node.unlink()
	d.journal = append(d.journal, Patch{Op: PatchRemoveNode, NodeID: node.id})
}

// SetText replaces the content of a text or comment node.
func (d *Document) SetText(node *Node, text string) {
	if node.Data == text {
		return
	}
	node.Data = text
	d.journal = append(d.journal, Patch{Op: PatchSetText, NodeID: node.id, Value: text})
}

// SetAttr sets an attribute on an element.
func (d *Document) SetAttr(el *Node, name, value string) {
	if !el.setAttr(name, value) {
		return
	}
	d.journal = append(d.journal, Patch{Op: PatchSetAttr, NodeID: el.id, Key: name, Value: value})
}

// RemoveAttr removes an attribute from an element.
func (d *Document) RemoveAttr(el *Node, name string) {
	if !el.removeAttr(name) {
		return
	}
	d.journal = append(d.journal, Patch{Op: PatchRemoveAttr, NodeID: el.id, Key: name})
}

// Journal returns the operations recorded since the last Reset.
func (d *Document) Journal() []Patch {
	out := make([]Patch, len(d.journal))
	copy(out, d.journal)
	return out
}

// ResetJournal discards recorded operations.
func (d *Document) ResetJournal() {
	d.journal = d.journal[:0]
}

// TakeJournal returns the recorded operations and resets the journal.
func (d *Document) TakeJournal() []Patch {
	out := d.journal
	d.journal = nil
	return out
}
