package component

import (
	"sync"

	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
)

// Definition describes a component class.
type Definition struct {
	Name string
	Kind ManagerKind

	// Template is the layout. When nil, the layout is read from the
	// instance's "layout" property at render time.
	Template *template.Template

	// Params is the positional parameter contract.
	Params args.Params

	// Layers compose the instance schema.
	Layers []*schema.Layer

	// FromDynamicScope names dynamic scope variables copied onto self.
	FromDynamicScope []string

	once   sync.Once
	schema *schema.Schema
}

// Schema returns the composed schema of the definition's layers.
func (d *Definition) Schema() *schema.Schema {
	d.once.Do(func() {
		d.schema = schema.Compose(d.Layers...)
	})
	return d.schema
}

// Manager returns the manager for the definition's kind.
func (d *Definition) Manager() Manager {
	return ManagerFor(d.Kind)
}

// Curried is a definition with pre-applied argument layers, produced by the
// component helper.
type Curried struct {
	Def    *Definition
	Layers []args.Map
}

// Curry layers a on top of target, which must be a *Definition or a
// *Curried.
func Curry(target any, a args.Map) *Curried {
	switch t := target.(type) {
	case *Definition:
		return &Curried{Def: t, Layers: []args.Map{a}}
	case *Curried:
		layers := make([]args.Map, 0, len(t.Layers)+1)
		layers = append(layers, t.Layers...)
		return &Curried{Def: t.Def, Layers: append(layers, a)}
	}
	return nil
}

// Args flattens the curried layers with the invocation's own arguments,
// outermost layer first.
func (c *Curried) Args(invocation args.Map) args.Map {
	layers := make([]args.Map, 0, len(c.Layers)+1)
	layers = append(layers, c.Layers...)
	return args.Merge(append(layers, invocation)...)
}
