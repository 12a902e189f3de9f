package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ops(patches []Patch) []string {
	out := make([]string, len(patches))
	for i, p := range patches {
		out[i] = p.Op.String()
	}
	return out
}

func TestInsertAndSerialize(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateFragment()
	div := doc.CreateElement("div")
	doc.SetAttr(div, "class", "ember-view")
	doc.SetAttr(div, "id", "ember1")
	doc.AppendChild(root, div)
	doc.AppendChild(div, doc.CreateText("a < b"))
	doc.AppendChild(div, doc.CreateComment(""))
	doc.AppendChild(div, doc.CreateElement("br"))

	want := `<div class="ember-view" id="ember1">a &lt; b<!----><br></div>`
	if got := HTML(root); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if got := InnerHTML(div); got != `a &lt; b<!----><br>` {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestInsertBeforeMovesAttachedNodes(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateFragment()
	a, b, c := doc.CreateText("a"), doc.CreateText("b"), doc.CreateText("c")
	for _, n := range []*Node{a, b, c} {
		doc.AppendChild(root, n)
	}
	doc.ResetJournal()

	doc.InsertBefore(root, c, a)
	if got := InnerHTML(root); got != "cab" {
		t.Errorf("InnerHTML() = %q, want cab", got)
	}
	if diff := cmp.Diff([]string{"MoveNode"}, ops(doc.Journal())); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}

	doc.ResetJournal()
	doc.InsertBefore(root, c, a)
	if len(doc.Journal()) != 0 {
		t.Errorf("no-op move journaled %v", doc.Journal())
	}
}

func TestRemoveAndAttrs(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateFragment()
	el := doc.CreateElement("p")
	doc.AppendChild(root, el)
	doc.ResetJournal()

	doc.SetAttr(el, "title", "x")
	doc.SetAttr(el, "title", "x")
	doc.RemoveAttr(el, "title")
	doc.RemoveAttr(el, "title")
	doc.Remove(el)
	doc.Remove(el)

	want := []string{"SetAttr", "RemoveAttr", "RemoveNode"}
	if diff := cmp.Diff(want, ops(doc.TakeJournal())); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
	if root.FirstChild() != nil {
		t.Error("root should be empty")
	}
	if el.Parent() != nil {
		t.Error("removed node should be detached")
	}
}

func TestSetTextSkipsEqual(t *testing.T) {
	doc := NewDocument()
	text := doc.CreateText("hello")
	doc.SetText(text, "hello")
	doc.SetText(text, "bye")
	if diff := cmp.Diff([]string{"SetText"}, ops(doc.Journal())); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundsHelpers(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateFragment()
	var nodes []*Node
	for _, s := range []string{"1", "2", "3", "4"} {
		n := doc.CreateText(s)
		doc.AppendChild(root, n)
		nodes = append(nodes, n)
	}

	mid := Range{Parent: root, First: nodes[1], Last: nodes[2]}
	if got := HTMLOf(mid); got != "23" {
		t.Errorf("HTMLOf() = %q", got)
	}

	Move(doc, mid, root, nil)
	if got := InnerHTML(root); got != "1423" {
		t.Errorf("after Move = %q", got)
	}

	next := Clear(doc, mid)
	if next != nil {
		t.Errorf("Clear() next = %v, want nil", next)
	}
	if got := InnerHTML(root); got != "14" {
		t.Errorf("after Clear = %q", got)
	}

	single := SingleNode{Parent: root, Node: nodes[0]}
	if single.FirstNode() != single.LastNode() {
		t.Error("single node bounds should start and end at the same node")
	}
}

func TestEscaping(t *testing.T) {
	if got := escapeHTML(`<a href="x">'&'</a>`); got != "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;" {
		t.Errorf("escapeHTML() = %q", got)
	}
	if got := escapeAttr("a\n\"b\""); got != "a&#10;&quot;b&quot;" {
		t.Errorf("escapeAttr() = %q", got)
	}
}

func TestNodeKindString(t *testing.T) {
	tests := map[NodeKind]string{
		KindElement:  "Element",
		KindText:     "Text",
		KindComment:  "Comment",
		KindFragment: "Fragment",
		NodeKind(99): "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
