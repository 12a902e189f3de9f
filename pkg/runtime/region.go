package runtime

import (
	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// builder builds a region's content at a position.
type builder func(p *pass, parent, before *vdom.Node) (renderNode, error)

// branchNode renders one of two blocks depending on a condition. It backs
// if, unless and with.
type branchNode struct {
	cond     reactive.Reference
	snapshot reactive.Revision
	negate   bool
	branch   bool
	build    func(branch bool) builder
	content  renderNode
}

func (n *branchNode) firstNode() *vdom.Node { return n.content.firstNode() }
func (n *branchNode) lastNode() *vdom.Node  { return n.content.lastNode() }

func (p *pass) buildBranch(n *branchNode, parent, before *vdom.Node) (*branchNode, error) {
	v, err := n.cond.Value()
	if err != nil {
		return nil, err
	}
	n.snapshot = p.stamp(n.cond.Tag())
	n.branch = truthy(v) != n.negate
	if n.content, err = n.build(n.branch)(p, parent, before); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *branchNode) update(p *pass) {
	if !n.cond.Tag().Validate(n.snapshot) {
		v, err := n.cond.Value()
		if err != nil {
			p.fail(err)
		} else {
			n.snapshot = p.stamp(n.cond.Tag())
			if b := truthy(v) != n.negate; b != n.branch {
				p.env.logger.Debug("branch switched", "to", b)
				n.branch = b
				n.content = p.replace(n.content, n.build(b))
				return
			}
		}
	}
	n.content.update(p)
}

func (n *branchNode) destroy(p *pass) { n.content.destroy(p) }

func blockBuilder(stmts []template.Stmt, sc *scope) builder {
	return func(p *pass, parent, before *vdom.Node) (renderNode, error) {
		return p.buildBlock(stmts, sc, parent, before)
	}
}

func (p *pass) buildIf(s *template.IfStmt, sc *scope, parent, before *vdom.Node) (renderNode, error) {
	cond, err := p.ref(sc, s.Cond)
	if err != nil {
		return nil, err
	}
	n := &branchNode{cond: cond, negate: s.Unless}
	n.build = func(branch bool) builder {
		if branch {
			return blockBuilder(s.Then, sc)
		}
		return blockBuilder(s.Inverse, sc)
	}
	return p.buildBranch(n, parent, before)
}

func (p *pass) buildWith(s *template.WithStmt, sc *scope, parent, before *vdom.Node) (renderNode, error) {
	value, err := p.ref(sc, s.Value)
	if err != nil {
		return nil, err
	}
	n := &branchNode{cond: value}
	n.build = func(branch bool) builder {
		if branch {
			return blockBuilder(s.Body.Body, sc.bind(s.Body.Symbols, []reactive.Reference{value}))
		}
		return blockBuilder(s.Inverse, sc)
	}
	return p.buildBranch(n, parent, before)
}

// textIdentity marks an append region that currently renders text.
type textIdentity struct{}

// appendNode renders a value: text, or a component when the value is a
// component definition. Switching between the two, or between
// definitions, replaces the region.
type appendNode struct {
	scope    *scope
	ref      reactive.Reference
	snapshot reactive.Revision
	ident    any
	text     *vdom.Node
	content  renderNode
}

func (n *appendNode) firstNode() *vdom.Node { return n.content.firstNode() }
func (n *appendNode) lastNode() *vdom.Node  { return n.content.lastNode() }

func identityOf(v any) any {
	if invocable(v) {
		return v
	}
	return textIdentity{}
}

func (p *pass) buildAppend(s *template.AppendStmt, sc *scope, parent, before *vdom.Node) (*appendNode, error) {
	ref, err := p.ref(sc, s.Value)
	if err != nil {
		return nil, err
	}
	n := &appendNode{scope: sc, ref: ref}
	v, err := ref.Value()
	if err != nil {
		return nil, err
	}
	n.snapshot = p.stamp(ref.Tag())
	n.ident = identityOf(v)
	if n.content, err = n.builder(v)(p, parent, before); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *appendNode) builder(v any) builder {
	if !invocable(v) {
		return func(p *pass, parent, before *vdom.Node) (renderNode, error) {
			n.text = p.env.dom.CreateText(component.Stringify(v))
			p.env.dom.InsertBefore(parent, n.text, before)
			return &staticNode{node: n.text}, nil
		}
	}
	return func(p *pass, parent, before *vdom.Node) (renderNode, error) {
		n.text = nil
		def, layers, err := p.env.registry.Resolve(v)
		if err != nil {
			return nil, err
		}
		inv := invocation{def: def, args: args.Merge(layers...), caller: n.scope}
		return p.buildComponent(inv, parent, before)
	}
}

func (n *appendNode) update(p *pass) {
	if !n.ref.Tag().Validate(n.snapshot) {
		v, err := n.ref.Value()
		if err != nil {
			p.fail(err)
		} else {
			n.snapshot = p.stamp(n.ref.Tag())
			ident := identityOf(v)
			switch {
			case ident != n.ident:
				p.env.logger.Debug("append region replaced")
				n.ident = ident
				n.content = p.replace(n.content, n.builder(v))
				return
			case n.text != nil:
				p.env.dom.SetText(n.text, component.Stringify(v))
				return
			}
		}
	}
	n.content.update(p)
}

func (n *appendNode) destroy(p *pass) { n.content.destroy(p) }

// buildYield renders the caller's block in the caller's scope, binding its
// params to the yielded values. A missing block leaves a placeholder.
func (p *pass) buildYield(s *template.YieldStmt, sc *scope, parent, before *vdom.Node) (renderNode, error) {
	br := sc.blocks[s.To]
	if br == nil {
		return p.emptyBlock(parent, before), nil
	}
	refs, err := p.refs(sc, s.Positional)
	if err != nil {
		return nil, err
	}
	return p.buildBlock(br.block.Body, br.scope.bind(br.block.Symbols, refs), parent, before)
}
