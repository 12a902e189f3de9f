// Package schema declares component classes as composable layers.
//
// A Layer carries default property values, the names of concatenated
// properties (such as classNames), computed properties and lifecycle hooks.
// Compose flattens a set of layers, dependencies first and each layer at
// most once, into a Schema that instantiates component state.
package schema

import (
	"fmt"

	"github.com/vango-dev/vtree/pkg/reactive"
)

// Hook names a lifecycle event.
type Hook string

const (
	HookInit             Hook = "init"
	HookDidReceiveAttrs  Hook = "didReceiveAttrs"
	HookDidUpdateAttrs   Hook = "didUpdateAttrs"
	HookWillRender       Hook = "willRender"
	HookWillUpdate       Hook = "willUpdate"
	HookDidInsertElement Hook = "didInsertElement"
	HookDidRender        Hook = "didRender"
	HookDidUpdate        Hook = "didUpdate"
	HookDestroy          Hook = "destroy"
)

// Host is the component instance a hook runs against.
type Host interface {
	// Self is the instance's property object.
	Self() *reactive.Object

	// Attr returns the current value of a named argument.
	Attr(name string) any

	// Recompute makes the next rerender treat the instance as if its
	// arguments changed.
	Recompute()
}

// HookFunc handles one lifecycle event.
type HookFunc func(h Host) error

// ComputedFunc derives a property from other properties of self.
type ComputedFunc func(self *reactive.Object) (any, error)

// Layer is one mixin-style slice of a component class.
type Layer struct {
	Name string

	// Dependencies are applied before this layer.
	Dependencies []*Layer

	// Concatenated lists property names whose values accumulate across
	// layers and instance properties instead of being replaced.
	Concatenated []string

	// Defaults are property values. Values for concatenated properties
	// must be slices.
	Defaults map[string]any

	Computed map[string]ComputedFunc

	Hooks map[Hook]HookFunc
}

// Schema is a composed, immutable set of layers.
type Schema struct {
	layers       []*Layer
	concatenated map[string][]any
	concatOrder  []string
	defaults     map[string]any
	computed     map[string]ComputedFunc
	hooks        map[Hook][]HookFunc
}

// Compose applies layers in order. Each layer's dependencies are applied
// before it; a layer reachable more than once is applied once.
func Compose(layers ...*Layer) *Schema {
	s := &Schema{
		concatenated: make(map[string][]any),
		defaults:     make(map[string]any),
		computed:     make(map[string]ComputedFunc),
		hooks:        make(map[Hook][]HookFunc),
	}
	applied := make(map[*Layer]bool)
	for _, l := range layers {
		s.apply(l, applied)
	}
	return s
}

func (s *Schema) apply(l *Layer, applied map[*Layer]bool) {
	if l == nil || applied[l] {
		return
	}
	applied[l] = true
	for _, dep := range l.Dependencies {
		s.apply(dep, applied)
	}
	s.layers = append(s.layers, l)

	for _, k := range l.Concatenated {
		if _, ok := s.concatenated[k]; !ok {
			s.concatenated[k] = []any{}
			s.concatOrder = append(s.concatOrder, k)
		}
	}
	for k, v := range l.Defaults {
		if _, ok := s.concatenated[k]; ok {
			s.concatenated[k] = append(s.concatenated[k], toSlice(v)...)
			continue
		}
		s.defaults[k] = v
		delete(s.computed, k)
	}
	for k, fn := range l.Computed {
		s.computed[k] = fn
		delete(s.defaults, k)
	}
	for h, fn := range l.Hooks {
		s.hooks[h] = append(s.hooks[h], fn)
	}
}

// Layers returns the applied layers in application order.
func (s *Schema) Layers() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.Name
	}
	return names
}

// IsConcatenated reports whether key accumulates.
func (s *Schema) IsConcatenated(key string) bool {
	_, ok := s.concatenated[key]
	return ok
}

// Concatenated returns the accumulated class-level values of key.
func (s *Schema) Concatenated(key string) []any {
	return append([]any(nil), s.concatenated[key]...)
}

// Default returns the class-level value of key.
func (s *Schema) Default(key string) (any, bool) {
	if v, ok := s.concatenated[key]; ok {
		return append([]any(nil), v...), true
	}
	v, ok := s.defaults[key]
	return v, ok
}

// HasHook reports whether any layer handles h.
func (s *Schema) HasHook(h Hook) bool {
	return len(s.hooks[h]) > 0
}

// Instantiate builds the property object of a new instance. props override
// defaults, except for concatenated properties where they are appended to
// the class-level values.
func (s *Schema) Instantiate(clock *reactive.Clock, props map[string]any) *reactive.Object {
	init := make(map[string]any, len(s.defaults)+len(s.concatenated)+len(props))
	for k, v := range s.defaults {
		init[k] = v
	}
	for _, k := range s.concatOrder {
		init[k] = append([]any(nil), s.concatenated[k]...)
	}
	for k, v := range props {
		if s.IsConcatenated(k) {
			init[k] = append(init[k].([]any), toSlice(v)...)
			continue
		}
		init[k] = v
	}
	obj := reactive.NewObject(clock, init)
	for k, fn := range s.computed {
		if _, overridden := props[k]; overridden {
			continue
		}
		obj.Define(k, fn)
	}
	return obj
}

// Run fires every handler for h, in layer order. The first error stops the
// chain.
func (s *Schema) Run(h Hook, host Host) error {
	for _, fn := range s.hooks[h] {
		if err := fn(host); err != nil {
			return fmt.Errorf("%s: %w", h, err)
		}
	}
	return nil
}

func toSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// Strings converts a concatenated value to strings, dropping nil, false and
// empty entries.
func Strings(v any) []string {
	var out []string
	for _, item := range toSlice(v) {
		switch t := item.(type) {
		case nil:
		case bool:
			if t {
				out = append(out, "true")
			}
		case string:
			if t != "" {
				out = append(out, t)
			}
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
