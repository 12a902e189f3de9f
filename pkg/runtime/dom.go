package runtime

import "github.com/vango-dev/vtree/pkg/vdom"

// DOM is the output container a tree renders into. *vdom.Document
// implements it.
type DOM interface {
	CreateElement(tag string) *vdom.Node
	CreateText(text string) *vdom.Node
	CreateComment(text string) *vdom.Node
	CreateFragment() *vdom.Node
	InsertBefore(parent, node, ref *vdom.Node)
	Remove(node *vdom.Node)
	SetText(node *vdom.Node, text string)
	SetAttr(el *vdom.Node, name, value string)
	RemoveAttr(el *vdom.Node, name string)
}

var _ DOM = (*vdom.Document)(nil)
