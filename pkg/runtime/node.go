package runtime

import (
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// renderNode is one node of a render tree. Every node covers at least one
// DOM node, so its bounds are always addressable.
type renderNode interface {
	firstNode() *vdom.Node
	lastNode() *vdom.Node

	// update brings the node's output up to date.
	update(p *pass)

	// destroy tears down components and modifiers under the node, outer
	// before inner. It leaves the DOM alone; see pass.remove.
	destroy(p *pass)
}

func span(n renderNode) vdom.Range {
	first := n.firstNode()
	return vdom.Range{Parent: first.Parent(), First: first, Last: n.lastNode()}
}

// remove destroys n, then detaches its nodes. It returns the node that
// followed n.
func (p *pass) remove(n renderNode) *vdom.Node {
	b := span(n)
	n.destroy(p)
	return vdom.Clear(p.env.dom, b)
}

// replace removes old and builds its successor in the same place. If the
// build fails the failure is recorded and the region is left empty.
func (p *pass) replace(old renderNode, build builder) renderNode {
	parent := old.firstNode().Parent()
	before := p.remove(old)
	n, err := build(p, parent, before)
	if err != nil {
		p.fail(err)
		return p.emptyBlock(parent, before)
	}
	return n
}

// staticNode is a text or comment node that never changes.
type staticNode struct {
	node *vdom.Node
}

func (n *staticNode) firstNode() *vdom.Node { return n.node }
func (n *staticNode) lastNode() *vdom.Node  { return n.node }
func (n *staticNode) update(*pass)          {}
func (n *staticNode) destroy(*pass)         {}

// blockNode is a statement list. An empty list keeps a comment placeholder.
type blockNode struct {
	children    []renderNode
	placeholder *vdom.Node
}

func (b *blockNode) firstNode() *vdom.Node {
	if len(b.children) == 0 {
		return b.placeholder
	}
	return b.children[0].firstNode()
}

func (b *blockNode) lastNode() *vdom.Node {
	if len(b.children) == 0 {
		return b.placeholder
	}
	return b.children[len(b.children)-1].lastNode()
}

func (b *blockNode) update(p *pass) {
	for _, c := range b.children {
		c.update(p)
	}
}

func (b *blockNode) destroy(p *pass) {
	for _, c := range b.children {
		c.destroy(p)
	}
}

func (p *pass) emptyBlock(parent, before *vdom.Node) *blockNode {
	b := &blockNode{placeholder: p.env.dom.CreateComment("")}
	p.env.dom.InsertBefore(parent, b.placeholder, before)
	return b
}

// buildBlock builds stmts into parent before the given node. On failure the
// statements already built are removed again.
func (p *pass) buildBlock(stmts []template.Stmt, sc *scope, parent, before *vdom.Node) (*blockNode, error) {
	if len(stmts) == 0 {
		return p.emptyBlock(parent, before), nil
	}
	b := &blockNode{children: make([]renderNode, 0, len(stmts))}
	for _, s := range stmts {
		n, err := p.buildStmt(s, sc, parent, before)
		if err != nil {
			for _, c := range b.children {
				p.remove(c)
			}
			return nil, err
		}
		b.children = append(b.children, n)
	}
	return b, nil
}

// buildChildren builds stmts as the whole content of an element.
func (p *pass) buildChildren(stmts []template.Stmt, sc *scope, el *vdom.Node) ([]renderNode, error) {
	out := make([]renderNode, 0, len(stmts))
	for _, s := range stmts {
		n, err := p.buildStmt(s, sc, el, nil)
		if err != nil {
			for _, c := range out {
				p.remove(c)
			}
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *pass) buildStmt(s template.Stmt, sc *scope, parent, before *vdom.Node) (renderNode, error) {
	dom := p.env.dom
	switch s := s.(type) {
	case *template.TextStmt:
		n := dom.CreateText(s.Text)
		dom.InsertBefore(parent, n, before)
		return &staticNode{node: n}, nil
	case *template.CommentStmt:
		n := dom.CreateComment(s.Text)
		dom.InsertBefore(parent, n, before)
		return &staticNode{node: n}, nil
	case *template.ElementStmt:
		return p.buildElement(s, sc, parent, before)
	case *template.AppendStmt:
		return p.buildAppend(s, sc, parent, before)
	case *template.IfStmt:
		return p.buildIf(s, sc, parent, before)
	case *template.EachStmt:
		return p.buildEach(s, sc, parent, before)
	case *template.WithStmt:
		return p.buildWith(s, sc, parent, before)
	case *template.LetStmt:
		refs, err := p.refs(sc, s.Values)
		if err != nil {
			return nil, err
		}
		return p.buildBlock(s.Body.Body, sc.bind(s.Body.Symbols, refs), parent, before)
	case *template.InvokeStmt:
		if s.Dynamic != nil {
			return p.buildDynamicInvoke(s, sc, parent, before)
		}
		return p.buildInvoke(s, sc, parent, before)
	case *template.YieldStmt:
		return p.buildYield(s, sc, parent, before)
	case *template.DynamicVarsStmt:
		names := make([]string, len(s.Named))
		exprs := make([]template.Expr, len(s.Named))
		for i, n := range s.Named {
			names[i], exprs[i] = n.Name, n.Value
		}
		refs, err := p.refs(sc, exprs)
		if err != nil {
			return nil, err
		}
		return p.buildBlock(s.Body, sc.withDynamic(names, refs), parent, before)
	}
	return nil, errors.New(errors.CodeInvalidTemplate).WithDetailf("cannot render statement %T", s)
}
