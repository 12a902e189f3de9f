package component

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Helper computes a value from evaluated arguments.
type Helper func(positional []any, named map[string]any) (any, error)

// Modifier manages behavior attached to one element.
type Modifier interface {
	Install(el *vdom.Node, positional []any, named map[string]any) error
	Update(positional []any, named map[string]any) error
	Destroy() error
}

// ModifierFactory creates a modifier for each element it is used on.
type ModifierFactory func() Modifier

// Registry resolves component, helper and modifier names.
// Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*Definition
	helpers    map[string]Helper
	modifiers  map[string]ModifierFactory
	layouts    map[*template.Template]*template.Layout
}

// NewRegistry returns a registry with the built-in helpers installed.
func NewRegistry() *Registry {
	r := &Registry{
		components: make(map[string]*Definition),
		helpers:    make(map[string]Helper),
		modifiers:  make(map[string]ModifierFactory),
		layouts:    make(map[*template.Template]*template.Layout),
	}
	r.helpers["concat"] = concatHelper
	r.helpers["hash"] = hashHelper
	r.helpers["array"] = arrayHelper
	return r
}

// Register adds component definitions, replacing any with the same name.
func (r *Registry) Register(defs ...*Definition) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range defs {
		r.components[d.Name] = d
	}
	return r
}

// RegisterHelper adds a helper.
func (r *Registry) RegisterHelper(name string, h Helper) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[name] = h
	return r
}

// RegisterModifier adds a modifier factory.
func (r *Registry) RegisterModifier(name string, f ModifierFactory) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modifiers[name] = f
	return r
}

// Component returns the definition registered under name.
func (r *Registry) Component(name string) (*Definition, error) {
	r.mu.RLock()
	d, ok := r.components[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.CodeUnknownComponent).WithSite(name, "").
			WithDetailf("no component named %q is registered", name)
	}
	return d, nil
}

// Helper returns the helper registered under name.
func (r *Registry) Helper(name string) (Helper, error) {
	r.mu.RLock()
	h, ok := r.helpers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.CodeUnknownHelper).WithSite("", name).
			WithDetailf("no helper named %q is registered", name)
	}
	return h, nil
}

// Modifier returns the modifier factory registered under name.
func (r *Registry) Modifier(name string) (ModifierFactory, error) {
	r.mu.RLock()
	f, ok := r.modifiers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.CodeUnknownModifier).WithSite("", name).
			WithDetailf("no modifier named %q is registered", name)
	}
	return f, nil
}

// Components returns the registered component names, sorted.
func (r *Registry) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for n := range r.components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Layout compiles t, caching the result per template.
func (r *Registry) Layout(t *template.Template) (*template.Layout, error) {
	r.mu.RLock()
	l, ok := r.layouts[t]
	r.mu.RUnlock()
	if ok {
		return l, nil
	}
	l, err := template.Compile(t)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.layouts[t] = l
	r.mu.Unlock()
	return l, nil
}

// Resolve turns the value of a dynamic component expression into a
// definition and its curried argument layers. nil and "" resolve to no
// component.
func (r *Registry) Resolve(v any) (*Definition, []args.Map, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil, nil
	case string:
		if t == "" {
			return nil, nil, nil
		}
		d, err := r.Component(t)
		return d, nil, err
	case *Definition:
		return t, nil, nil
	case *Curried:
		return t.Def, t.Layers, nil
	}
	return nil, nil, errors.New(errors.CodeNotInvocable).
		WithDetailf("a value of type %T cannot be invoked as a component", v)
}

// Curry resolves target and layers a on top of it.
func (r *Registry) Curry(target any, a args.Map) (*Curried, error) {
	switch t := target.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		d, err := r.Component(t)
		if err != nil {
			return nil, err
		}
		return Curry(d, a), nil
	case *Definition, *Curried:
		return Curry(t, a), nil
	}
	return nil, errors.New(errors.CodeNotInvocable).
		WithDetailf("a value of type %T cannot be curried", target)
}

func concatHelper(positional []any, _ map[string]any) (any, error) {
	var sb strings.Builder
	for _, p := range positional {
		sb.WriteString(Stringify(p))
	}
	return sb.String(), nil
}

func hashHelper(_ []any, named map[string]any) (any, error) {
	out := make(map[string]any, len(named))
	for k, v := range named {
		out[k] = v
	}
	return out, nil
}

func arrayHelper(positional []any, _ map[string]any) (any, error) {
	return append([]any{}, positional...), nil
}

// Stringify renders a value the way text nodes and attributes show it.
// nil renders as "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
