package component

import (
	"fmt"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// State is a position in an instance's lifecycle.
type State uint8

const (
	StateUninitialized State = iota
	StateCreated
	StateRendered
	StateUpdated
	StateDestroying
	StateDestroyed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCreated:
		return "created"
	case StateRendered:
		return "rendered"
	case StateUpdated:
		return "updated"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	StateUninitialized: {StateCreated},
	StateCreated:       {StateRendered, StateDestroying},
	StateRendered:      {StateUpdated, StateDestroying},
	StateUpdated:       {StateUpdated, StateDestroying},
	StateDestroying:    {StateDestroyed},
}

// Instance is one live component.
type Instance struct {
	// ID is unique within the environment that created the instance.
	ID  string
	Def *Definition

	self    *reactive.Object
	attrs   *reactive.Object
	args    args.Map
	blocks  map[string]bool
	state   State
	dirty   *reactive.DirtyableTag
	bounds  vdom.Bounds
	element *vdom.Node
}

func newInstance(id string, def *Definition, clock *reactive.Clock, a args.Map, blocks map[string]bool) *Instance {
	return &Instance{
		ID:     id,
		Def:    def,
		args:   a,
		blocks: blocks,
		dirty:  reactive.NewDirtyableTag(clock),
	}
}

// Self is the instance's property object.
func (i *Instance) Self() *reactive.Object { return i.self }

// Attr returns the current value of a named argument without tracking it.
func (i *Instance) Attr(name string) any {
	if i.attrs == nil {
		return nil
	}
	return i.attrs.Peek(name)
}

// Attrs is the object holding the current named argument values.
func (i *Instance) Attrs() *reactive.Object { return i.attrs }

// Args returns the resolved invocation arguments.
func (i *Instance) Args() args.Map { return i.args }

// HasBlock reports whether the invocation supplied the named block
// ("default" or "inverse").
func (i *Instance) HasBlock(name string) bool { return i.blocks[name] }

// Recompute makes the next rerender update the instance as if its
// arguments had changed. It fires nothing by itself.
func (i *Instance) Recompute() { i.dirty.Dirty() }

// Tag covers the arguments and forced recomputes.
func (i *Instance) Tag() reactive.Tag {
	return reactive.Combine(i.args.Tag(), i.dirty)
}

// State returns the lifecycle state.
func (i *Instance) State() State { return i.state }

// Bounds returns the nodes the instance rendered.
func (i *Instance) Bounds() vdom.Bounds { return i.bounds }

// Element returns the wrapper element, or nil for unwrapped instances.
func (i *Instance) Element() *vdom.Node { return i.element }

// Attach records where the instance rendered.
func (i *Instance) Attach(b vdom.Bounds, element *vdom.Node) {
	i.bounds = b
	i.element = element
}

// Transition moves the instance to state to.
func (i *Instance) Transition(to State) error {
	for _, allowed := range transitions[i.state] {
		if allowed == to {
			i.state = to
			return nil
		}
	}
	return errors.New(errors.CodeLifecycle).
		WithSite(i.Def.Name, "").
		WithDetailf("%s cannot move from %s to %s", i.ID, i.state, to)
}

// Alive reports whether the instance has been created and not yet torn
// down.
func (i *Instance) Alive() bool {
	return i.state == StateCreated || i.state == StateRendered || i.state == StateUpdated
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s(%s)", i.Def.Name, i.ID)
}
