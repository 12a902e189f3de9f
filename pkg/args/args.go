// Package args models component invocation arguments: positional and named
// references, the positional parameter contract a component declares, and
// the layering of curried argument sets.
package args

import (
	"fmt"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/reactive"
)

// Named is one named argument.
type Named struct {
	Name string
	Ref  reactive.Reference
}

// Map is an immutable set of invocation arguments. Named arguments keep the
// order they were first supplied in.
type Map struct {
	positional []reactive.Reference
	names      []string
	named      map[string]reactive.Reference
}

// Empty is a Map with no arguments.
var Empty = Map{}

// New returns a Map. Later named entries replace earlier ones with the same
// name.
func New(positional []reactive.Reference, named ...Named) Map {
	m := Map{positional: append([]reactive.Reference(nil), positional...)}
	for _, n := range named {
		m = m.with(n.Name, n.Ref)
	}
	return m
}

func (m Map) with(name string, ref reactive.Reference) Map {
	out := Map{
		positional: m.positional,
		names:      m.names,
		named:      make(map[string]reactive.Reference, len(m.named)+1),
	}
	for k, v := range m.named {
		out.named[k] = v
	}
	if _, ok := out.named[name]; !ok {
		out.names = append(append([]string(nil), m.names...), name)
	}
	out.named[name] = ref
	return out
}

// With returns a copy of m with name bound to ref.
func (m Map) With(name string, ref reactive.Reference) Map {
	return m.with(name, ref)
}

// Positional returns the positional references.
func (m Map) Positional() []reactive.Reference {
	return m.positional
}

// At returns the positional reference at i, or nil.
func (m Map) At(i int) reactive.Reference {
	if i < 0 || i >= len(m.positional) {
		return nil
	}
	return m.positional[i]
}

// Names returns the named argument names in order.
func (m Map) Names() []string {
	return m.names
}

// Get returns the named reference.
func (m Map) Get(name string) (reactive.Reference, bool) {
	r, ok := m.named[name]
	return r, ok
}

// Has reports whether name was supplied.
func (m Map) Has(name string) bool {
	_, ok := m.named[name]
	return ok
}

// Len returns the number of positional and named arguments.
func (m Map) Len() int {
	return len(m.positional) + len(m.names)
}

// Tag combines the tags of every argument.
func (m Map) Tag() reactive.Tag {
	tags := make([]reactive.Tag, 0, m.Len())
	for _, r := range m.positional {
		tags = append(tags, r.Tag())
	}
	for _, n := range m.names {
		tags = append(tags, m.named[n].Tag())
	}
	return reactive.Combine(tags...)
}

// Values reads every named argument. The first failure is returned after
// all arguments have been read.
func (m Map) Values() (map[string]any, error) {
	out := make(map[string]any, len(m.names))
	var first error
	for _, n := range m.names {
		v, err := m.named[n].Value()
		if err != nil && first == nil {
			first = fmt.Errorf("argument %s: %w", n, err)
		}
		out[n] = v
	}
	return out, first
}

// PositionalValues reads every positional argument.
func (m Map) PositionalValues() ([]any, error) {
	out := make([]any, len(m.positional))
	for i, r := range m.positional {
		v, err := r.Value()
		if err != nil {
			return out, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Merge layers argument sets outer to inner. Positional arguments are
// concatenated in layer order. A named argument in a later layer replaces
// the same name from an earlier one.
func Merge(layers ...Map) Map {
	var out Map
	for _, l := range layers {
		out.positional = append(append([]reactive.Reference(nil), out.positional...), l.positional...)
		for _, n := range l.names {
			out = out.with(n, l.named[n])
		}
	}
	return out
}

// Params is a component's positional parameter contract: either a fixed
// list of names or a single rest name collecting every positional argument.
type Params struct {
	Names []string
	Rest  string
}

// Fixed declares positional parameters bound by position.
func Fixed(names ...string) Params {
	return Params{Names: names}
}

// Rest declares one name receiving all positional arguments as a list.
func Rest(name string) Params {
	return Params{Rest: name}
}

// IsZero reports whether no positional parameters are declared.
func (p Params) IsZero() bool {
	return len(p.Names) == 0 && p.Rest == ""
}

// ErrArgumentConflict matches every conflict reported by Resolve.
var ErrArgumentConflict = errors.New(errors.CodeArgumentConflict)

// Resolve binds m's positional arguments to p's names and returns the
// resulting named arguments. component is used in error reports.
//
// A positional argument and a named argument for the same parameter
// conflict. Supplying more positional arguments than fixed names is also a
// conflict. With a rest parameter, the named argument may stand in for the
// whole positional list, but not be combined with it.
func Resolve(p Params, m Map, component string) (Map, error) {
	if p.IsZero() {
		return m, nil
	}
	out := Map{names: m.names, named: m.named}

	if p.Rest != "" {
		if len(m.positional) == 0 {
			return out, nil
		}
		if m.Has(p.Rest) {
			return Map{}, errors.New(errors.CodeArgumentConflict).
				WithSite(component, p.Rest).
				WithDetailf("You cannot specify positional parameters and the hash argument `%s`.", p.Rest)
		}
		return out.with(p.Rest, reactive.List(m.positional...)), nil
	}

	if len(m.positional) > len(p.Names) {
		return Map{}, errors.New(errors.CodeArgumentConflict).
			WithSite(component, "").
			WithDetailf("%d positional arguments were passed but only %d positional params are declared (%v).",
				len(m.positional), len(p.Names), p.Names)
	}
	for i, ref := range m.positional {
		name := p.Names[i]
		if m.Has(name) {
			return Map{}, errors.New(errors.CodeArgumentConflict).
				WithSite(component, name).
				WithDetailf("You cannot specify both a positional param (at position %d) and the hash argument `%s`.", i, name)
		}
		out = out.with(name, ref)
	}
	return out, nil
}
