package runtime

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// invocation is everything a component node needs from its call site.
type invocation struct {
	def    *component.Definition
	args   args.Map
	blocks map[string]*blockRef
	attrs  []splatAttr
	caller *scope
}

func (p *pass) invocationOf(s *template.InvokeStmt, sc *scope) (invocation, error) {
	a, err := p.argsOf(sc, s.Positional, s.Named)
	if err != nil {
		return invocation{}, err
	}
	inv := invocation{args: a, caller: sc}
	if s.Block != nil || s.Inverse != nil {
		inv.blocks = make(map[string]*blockRef, 2)
		if s.Block != nil {
			inv.blocks["default"] = &blockRef{block: s.Block, scope: sc}
		}
		if s.Inverse != nil {
			inv.blocks["inverse"] = &blockRef{block: s.Inverse, scope: sc}
		}
	}
	for _, a := range s.Attrs {
		inv.attrs = append(inv.attrs, splatAttr{spec: a, scope: sc})
	}
	return inv, nil
}

func (p *pass) buildInvoke(s *template.InvokeStmt, sc *scope, parent, before *vdom.Node) (renderNode, error) {
	def, err := p.env.registry.Component(s.Name)
	if err != nil {
		return nil, err
	}
	inv, err := p.invocationOf(s, sc)
	if err != nil {
		return nil, err
	}
	inv.def = def
	return p.buildComponent(inv, parent, before)
}

// componentNode is one component instance and the layout it rendered.
type componentNode struct {
	inv      invocation
	mgr      component.Manager
	inst     *component.Instance
	snapshot reactive.Revision

	// Wrapped components render their layout into wrapper.
	wrapper      *vdom.Node
	wrapperAttrs []*attrNode
	body         []renderNode

	// Unwrapped components render their layout as a block.
	block renderNode
}

func (n *componentNode) firstNode() *vdom.Node {
	if n.wrapper != nil {
		return n.wrapper
	}
	return n.block.firstNode()
}

func (n *componentNode) lastNode() *vdom.Node {
	if n.wrapper != nil {
		return n.wrapper
	}
	return n.block.lastNode()
}

// ParentElement, FirstNode and LastNode expose the node as the instance's
// bounds.
func (n *componentNode) ParentElement() *vdom.Node { return n.firstNode().Parent() }
func (n *componentNode) FirstNode() *vdom.Node     { return n.firstNode() }
func (n *componentNode) LastNode() *vdom.Node      { return n.lastNode() }

func (p *pass) buildComponent(inv invocation, parent, before *vdom.Node) (*componentNode, error) {
	mgr := inv.def.Manager()
	blocks := make(map[string]bool, len(inv.blocks))
	for name := range inv.blocks {
		blocks[name] = true
	}
	inst, err := mgr.Create(inv.def, inv.args, component.CreateOptions{
		ID:           p.env.newID(),
		Clock:        p.env.clock,
		Blocks:       blocks,
		Caller:       inv.caller.self,
		DynamicScope: inv.caller.readDynamic,
	})
	if err != nil {
		if inst != nil {
			_ = mgr.Destroy(inst)
		}
		return nil, err
	}
	p.env.observer.ComponentCreated(p.ctx, mgr.Kind())
	n := &componentNode{inv: inv, mgr: mgr, inst: inst}

	if err := n.build(p, parent, before); err != nil {
		_ = mgr.Destroy(inst)
		p.env.observer.ComponentDestroyed(p.ctx, mgr.Kind())
		return nil, err
	}
	p.env.logger.Debug("component created", "component", inv.def.Name, "id", inst.ID, "kind", mgr.Kind())
	return n, nil
}

func (n *componentNode) build(p *pass, parent, before *vdom.Node) error {
	inst := n.inst
	for _, h := range []schema.Hook{schema.HookDidReceiveAttrs, schema.HookWillRender} {
		if err := n.mgr.Hook(inst, h); err != nil {
			return err
		}
	}
	n.snapshot = p.stamp(inst.Tag())

	layout, err := p.env.registry.Layout(n.mgr.Layout(inst))
	if err != nil {
		return err
	}
	sc := n.inv.caller.component(inst, n.inv.blocks, nil)
	if n.mgr.Capabilities().Attributes {
		sc.splat = n.inv.attrs
	}

	if tag, ok := n.tagName(); ok {
		n.wrapper = p.env.dom.CreateElement(tag)
		refs, err := n.wrapperRefs(p)
		if err != nil {
			return err
		}
		if n.wrapperAttrs, err = p.buildAttrs(n.wrapper, refs); err != nil {
			return err
		}
		for _, a := range n.bindings(p) {
			if err := a.build(p); err != nil {
				return err
			}
			n.wrapperAttrs = append(n.wrapperAttrs, a)
		}
		p.env.dom.InsertBefore(parent, n.wrapper, before)
		if n.body, err = p.buildChildren(layout.Body, sc, n.wrapper); err != nil {
			p.env.dom.Remove(n.wrapper)
			return err
		}
	} else if n.block, err = p.buildBlock(layout.Body, sc, parent, before); err != nil {
		return err
	}

	inst.Attach(n, n.wrapper)
	if err := inst.Transition(component.StateRendered); err != nil {
		n.unbuild(p)
		return err
	}
	n.scheduleHooks(p, schema.HookDidInsertElement, schema.HookDidRender)
	return nil
}

// unbuild destroys and removes the layout built for n.
func (n *componentNode) unbuild(p *pass) {
	if n.wrapper != nil {
		for _, c := range n.body {
			c.destroy(p)
		}
		p.env.dom.Remove(n.wrapper)
	} else if n.block != nil {
		p.remove(n.block)
	}
	n.body, n.block, n.wrapper = nil, nil, nil
}

// tagName reports the wrapper tag of a wrapped component. A tagName of ""
// renders the layout without a wrapper.
func (n *componentNode) tagName() (string, bool) {
	if !n.mgr.Capabilities().Wrapped {
		return "", false
	}
	switch t := n.inst.Self().Peek("tagName").(type) {
	case nil:
		return "div", true
	case string:
		return t, t != ""
	}
	return "div", true
}

// wrapperRefs returns the wrapper's id and class followed by the
// invocation's attributes.
func (n *componentNode) wrapperRefs(p *pass) ([]namedRef, error) {
	self := n.inst.Self()
	id := n.inst.ID
	for _, key := range []string{"elementId", "id"} {
		if s, ok := self.Peek(key).(string); ok && s != "" {
			id = s
			break
		}
	}
	classes := reactive.NewComputed(p.env.clock, func() (any, error) {
		names, err := self.Get("classNames")
		if err != nil {
			return nil, err
		}
		extra, err := self.Get("class")
		if err != nil {
			return nil, err
		}
		parts := append([]string{"ember-view"}, schema.Strings(names)...)
		parts = append(parts, schema.Strings(extra)...)
		return strings.Join(parts, " "), nil
	}).Labeled("classNames")

	invoked, err := p.attrRefs(n.inv.attrs)
	if err != nil {
		return nil, err
	}
	refs := []namedRef{
		{name: "id", ref: reactive.Const(id)},
		{name: "class", ref: classes},
	}
	return append(refs, invoked...), nil
}

// bindings returns an attribute per attributeBindings entry. An entry is a
// property name, or "property:attribute". class is already covered by the
// wrapper's class list. A nil value removes the attribute, except value,
// which is cleared to "".
func (n *componentNode) bindings(p *pass) []*attrNode {
	self := n.inst.Self()
	var out []*attrNode
	for _, b := range schema.Strings(self.Peek("attributeBindings")) {
		prop, attr, found := strings.Cut(b, ":")
		if !found {
			attr = prop
		}
		if attr == "class" {
			continue
		}
		out = append(out, &attrNode{
			el:      n.wrapper,
			name:    attr,
			ref:     reactive.Property(p.env.clock, reactive.Const(self), prop),
			binding: attr == "value",
		})
	}
	return out
}

func (n *componentNode) scheduleHooks(p *pass, hooks ...schema.Hook) {
	inst, mgr := n.inst, n.mgr
	for _, h := range hooks {
		h := h
		p.env.schedule(string(h), func() error {
			if !inst.Alive() {
				return nil
			}
			return mgr.Hook(inst, h)
		})
	}
}

func (n *componentNode) update(p *pass) {
	inst := n.inst
	if !inst.Alive() {
		return
	}
	dirty := !inst.Tag().Validate(n.snapshot)
	if dirty {
		if err := n.mgr.Update(inst, n.inv.args); err != nil {
			p.fail(err)
		}
		for _, h := range []schema.Hook{
			schema.HookDidUpdateAttrs,
			schema.HookDidReceiveAttrs,
			schema.HookWillUpdate,
			schema.HookWillRender,
		} {
			if err := n.mgr.Hook(inst, h); err != nil {
				p.fail(err)
			}
		}
		n.snapshot = p.stamp(inst.Tag())
	}
	n.refreshDynamicScope()

	for _, a := range n.wrapperAttrs {
		a.update(p)
	}
	for _, c := range n.body {
		c.update(p)
	}
	if n.block != nil {
		n.block.update(p)
	}

	if dirty {
		if err := inst.Transition(component.StateUpdated); err != nil {
			p.fail(err)
		}
		n.scheduleHooks(p, schema.HookDidUpdate, schema.HookDidRender)
	}
}

func (n *componentNode) refreshDynamicScope() {
	names := n.inst.Def.FromDynamicScope
	if len(names) == 0 || !n.mgr.Capabilities().DynamicScope {
		return
	}
	values := make(map[string]any, len(names))
	for _, name := range names {
		values[name] = n.inv.caller.readDynamic(name)
	}
	n.inst.Self().SetProperties(values)
}

func (n *componentNode) destroy(p *pass) {
	switch n.inst.State() {
	case component.StateDestroying, component.StateDestroyed:
		return
	}
	if err := n.mgr.Destroy(n.inst); err != nil {
		p.fail(err)
	}
	p.env.observer.ComponentDestroyed(p.ctx, n.mgr.Kind())
	p.env.logger.Debug("component destroyed", "component", n.inst.Def.Name, "id", n.inst.ID)
	for _, c := range n.body {
		c.destroy(p)
	}
	if n.block != nil {
		n.block.destroy(p)
	}
}

// dynamicNode invokes whatever component its target resolves to: a name,
// a definition or a curried definition. A nil or empty target renders a
// placeholder. A change of definition replaces the region.
type dynamicNode struct {
	stmt     *template.InvokeStmt
	scope    *scope
	target   reactive.Reference
	snapshot reactive.Revision
	ident    any
	content  renderNode
}

func (n *dynamicNode) firstNode() *vdom.Node { return n.content.firstNode() }
func (n *dynamicNode) lastNode() *vdom.Node  { return n.content.lastNode() }

func (p *pass) buildDynamicInvoke(s *template.InvokeStmt, sc *scope, parent, before *vdom.Node) (*dynamicNode, error) {
	target, err := p.ref(sc, s.Dynamic)
	if err != nil {
		return nil, err
	}
	n := &dynamicNode{stmt: s, scope: sc, target: target}
	v, err := target.Value()
	if err != nil {
		return nil, err
	}
	n.snapshot = p.stamp(target.Tag())
	build, ident, err := n.resolve(p, v)
	if err != nil {
		return nil, err
	}
	n.ident = ident
	if n.content, err = build(p, parent, before); err != nil {
		return nil, err
	}
	return n, nil
}

// resolve returns the builder for target value v and the identity that
// decides whether a later value can reuse the region.
func (n *dynamicNode) resolve(p *pass, v any) (builder, any, error) {
	def, layers, err := p.env.registry.Resolve(v)
	if err != nil {
		return nil, nil, err
	}
	if def == nil {
		return func(p *pass, parent, before *vdom.Node) (renderNode, error) {
			return p.emptyBlock(parent, before), nil
		}, nil, nil
	}
	var ident any = def
	if c, ok := v.(*component.Curried); ok {
		ident = c
	}
	return func(p *pass, parent, before *vdom.Node) (renderNode, error) {
		inv, err := p.invocationOf(n.stmt, n.scope)
		if err != nil {
			return nil, err
		}
		all := make([]args.Map, 0, len(layers)+1)
		inv.def = def
		inv.args = args.Merge(append(append(all, layers...), inv.args)...)
		return p.buildComponent(inv, parent, before)
	}, ident, nil
}

func (n *dynamicNode) update(p *pass) {
	if !n.target.Tag().Validate(n.snapshot) {
		v, err := n.target.Value()
		if err != nil {
			p.fail(err)
		} else {
			n.snapshot = p.stamp(n.target.Tag())
			build, ident, err := n.resolve(p, v)
			switch {
			case err != nil:
				p.fail(err)
			case ident != n.ident:
				p.env.logger.Debug("dynamic component replaced")
				n.ident = ident
				n.content = p.replace(n.content, build)
				return
			}
		}
	}
	n.content.update(p)
}

func (n *dynamicNode) destroy(p *pass) { n.content.destroy(p) }
