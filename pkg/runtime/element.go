package runtime

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

type elementNode struct {
	el       *vdom.Node
	attrs    []*attrNode
	mods     []*modifierNode
	children []renderNode
}

func (n *elementNode) firstNode() *vdom.Node { return n.el }
func (n *elementNode) lastNode() *vdom.Node  { return n.el }

func (n *elementNode) update(p *pass) {
	for _, a := range n.attrs {
		a.update(p)
	}
	for _, c := range n.children {
		c.update(p)
	}
	for _, m := range n.mods {
		m.update(p)
	}
}

func (n *elementNode) destroy(p *pass) {
	for _, m := range n.mods {
		m.destroy(p)
	}
	for _, c := range n.children {
		c.destroy(p)
	}
}

func (p *pass) buildElement(s *template.ElementStmt, sc *scope, parent, before *vdom.Node) (*elementNode, error) {
	dom := p.env.dom
	n := &elementNode{el: dom.CreateElement(s.Tag)}

	specs := make([]splatAttr, 0, len(s.Attrs)+len(sc.splat))
	for _, a := range s.Attrs {
		specs = append(specs, splatAttr{spec: a, scope: sc})
	}
	if s.Splat {
		specs = append(specs, sc.splat...)
	}
	refs, err := p.attrRefs(specs)
	if err != nil {
		return nil, err
	}
	if n.attrs, err = p.buildAttrs(n.el, refs); err != nil {
		return nil, err
	}

	dom.InsertBefore(parent, n.el, before)
	if n.children, err = p.buildChildren(s.Children, sc, n.el); err != nil {
		dom.Remove(n.el)
		return nil, err
	}

	for _, call := range s.Modifiers {
		m, err := p.buildModifier(call, sc, n.el)
		if err != nil {
			n.destroy(p)
			dom.Remove(n.el)
			return nil, err
		}
		n.mods = append(n.mods, m)
	}
	return n, nil
}

// namedRef is an attribute name and the reference producing its value.
type namedRef struct {
	name string
	ref  reactive.Reference
}

func (p *pass) attrRefs(specs []splatAttr) ([]namedRef, error) {
	out := make([]namedRef, 0, len(specs))
	for _, sa := range specs {
		ref, err := p.attrRef(sa.scope, sa.spec.Parts)
		if err != nil {
			return nil, err
		}
		out = append(out, namedRef{name: sa.spec.Name, ref: ref})
	}
	return out, nil
}

// buildAttrs sets attributes on el in order. A later attribute with the
// same name replaces an earlier one, except class, whose values are joined.
func (p *pass) buildAttrs(el *vdom.Node, refs []namedRef) ([]*attrNode, error) {
	var order []string
	byName := make(map[string][]reactive.Reference)
	for _, nr := range refs {
		if _, seen := byName[nr.name]; !seen {
			order = append(order, nr.name)
		}
		if nr.name == "class" {
			byName[nr.name] = append(byName[nr.name], nr.ref)
		} else {
			byName[nr.name] = []reactive.Reference{nr.ref}
		}
	}

	out := make([]*attrNode, 0, len(order))
	for _, name := range order {
		refs := byName[name]
		ref := refs[0]
		if len(refs) > 1 {
			ref = joinClasses(p.env.clock, refs...)
		}
		a := &attrNode{el: el, name: name, ref: ref}
		if err := a.build(p); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// joinClasses joins the non-empty string forms of refs with spaces.
func joinClasses(clock *reactive.Clock, refs ...reactive.Reference) reactive.Reference {
	return reactive.NewComputed(clock, func() (any, error) {
		parts := make([]string, 0, len(refs))
		for _, r := range refs {
			v, err := r.Value()
			if err != nil {
				return nil, err
			}
			if s, ok := attrValue(v, false); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), nil
	}).Labeled("class")
}

// attrNode keeps one attribute in sync with a reference.
type attrNode struct {
	el       *vdom.Node
	name     string
	ref      reactive.Reference
	binding  bool
	snapshot reactive.Revision
}

func (a *attrNode) build(p *pass) error {
	v, err := a.ref.Value()
	if err != nil {
		return err
	}
	a.snapshot = p.stamp(a.ref.Tag())
	a.apply(p.env.dom, v)
	return nil
}

func (a *attrNode) update(p *pass) {
	if a.ref.Tag().Validate(a.snapshot) {
		return
	}
	v, err := a.ref.Value()
	if err != nil {
		p.fail(err)
		return
	}
	a.snapshot = p.stamp(a.ref.Tag())
	a.apply(p.env.dom, v)
}

func (a *attrNode) apply(dom DOM, v any) {
	if s, ok := attrValue(v, a.binding); ok {
		dom.SetAttr(a.el, a.name, s)
	} else {
		dom.RemoveAttr(a.el, a.name)
	}
}

// modifierNode drives one element modifier. Installs and updates run at
// commit, after the element is in the document.
type modifierNode struct {
	name      string
	el        *vdom.Node
	mod       component.Modifier
	args      args.Map
	snapshot  reactive.Revision
	installed bool
	destroyed bool
}

func (p *pass) buildModifier(call template.ModifierCall, sc *scope, el *vdom.Node) (*modifierNode, error) {
	factory, err := p.env.registry.Modifier(call.Name)
	if err != nil {
		return nil, err
	}
	a, err := p.argsOf(sc, call.Positional, call.Named)
	if err != nil {
		return nil, err
	}
	m := &modifierNode{name: call.Name, el: el, mod: factory(), args: a}
	pos, named, err := m.read(p)
	if err != nil {
		return nil, err
	}
	p.env.schedule("install "+call.Name, func() error {
		if m.destroyed {
			return nil
		}
		m.installed = true
		return m.mod.Install(m.el, pos, named)
	})
	return m, nil
}

func (m *modifierNode) read(p *pass) ([]any, map[string]any, error) {
	pos, err := m.args.PositionalValues()
	if err != nil {
		return nil, nil, err
	}
	named, err := m.args.Values()
	if err != nil {
		return nil, nil, err
	}
	m.snapshot = p.stamp(m.args.Tag())
	return pos, named, nil
}

func (m *modifierNode) update(p *pass) {
	if m.args.Tag().Validate(m.snapshot) {
		return
	}
	pos, named, err := m.read(p)
	if err != nil {
		p.fail(err)
		return
	}
	p.env.schedule("update "+m.name, func() error {
		if m.destroyed || !m.installed {
			return nil
		}
		return m.mod.Update(pos, named)
	})
}

func (m *modifierNode) destroy(p *pass) {
	if m.destroyed {
		return
	}
	m.destroyed = true
	if !m.installed {
		return
	}
	if err := m.mod.Destroy(); err != nil {
		p.fail(err)
	}
}
