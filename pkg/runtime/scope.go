package runtime

import (
	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/template"
)

// scope is the lexical environment expressions are evaluated in. Scopes are
// copied, never mutated, when a block binds locals.
type scope struct {
	self    *reactive.Object
	selfRef reactive.Reference
	inst    *component.Instance
	args    args.Map
	locals  map[int]reactive.Reference
	blocks  map[string]*blockRef
	splat   []splatAttr
	dynamic map[string]reactive.Reference
}

// blockRef is a block passed to a component, closed over the caller's
// scope.
type blockRef struct {
	block *template.Block
	scope *scope
}

// splatAttr is an invocation attribute forwarded through ...attributes.
type splatAttr struct {
	spec  template.AttrSpec
	scope *scope
}

func rootScope(self *reactive.Object) *scope {
	return &scope{self: self, selfRef: reactive.Const(self)}
}

func (s *scope) bind(symbols []int, refs []reactive.Reference) *scope {
	c := *s
	c.locals = make(map[int]reactive.Reference, len(s.locals)+len(symbols))
	for k, v := range s.locals {
		c.locals[k] = v
	}
	for i, sym := range symbols {
		if i < len(refs) {
			c.locals[sym] = refs[i]
		} else {
			c.locals[sym] = reactive.Const(nil)
		}
	}
	return &c
}

func (s *scope) withDynamic(names []string, refs []reactive.Reference) *scope {
	c := *s
	c.dynamic = make(map[string]reactive.Reference, len(s.dynamic)+len(names))
	for k, v := range s.dynamic {
		c.dynamic[k] = v
	}
	for i, n := range names {
		c.dynamic[n] = refs[i]
	}
	return &c
}

func (s *scope) readDynamic(name string) any {
	ref, ok := s.dynamic[name]
	if !ok {
		return nil
	}
	v, _ := ref.Value()
	return v
}

// component returns the scope a component's layout renders in.
func (s *scope) component(inst *component.Instance, blocks map[string]*blockRef, splat []splatAttr) *scope {
	return &scope{
		self:    inst.Self(),
		selfRef: reactive.Const(inst.Self()),
		inst:    inst,
		args:    inst.Args(),
		blocks:  blocks,
		splat:   splat,
		dynamic: s.dynamic,
	}
}
