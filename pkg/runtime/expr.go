package runtime

import (
	"reflect"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/args"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/template"
)

// ref turns a compiled expression into a reference evaluated in sc.
func (p *pass) ref(sc *scope, e template.Expr) (reactive.Reference, error) {
	clock := p.env.clock
	switch e := e.(type) {
	case *template.LitExpr:
		return reactive.Const(e.Value), nil
	case *template.HasBlockExpr:
		return reactive.Const(sc.blocks[e.Block] != nil), nil
	case *template.RefExpr:
		var root reactive.Reference
		switch e.Root {
		case template.RootSelf:
			root = sc.selfRef
		case template.RootArg:
			r, ok := sc.args.Get(e.Name)
			if !ok {
				r = reactive.Const(nil)
			}
			root = r
		case template.RootLocal:
			r, ok := sc.locals[e.Symbol]
			if !ok {
				return nil, errors.New(errors.CodeInvalidTemplate).WithSite("", e.Name).
					WithDetailf("local %q is not bound", e.Name)
			}
			root = r
		}
		return reactive.Path(clock, root, e.Tail...), nil
	case *template.HelperExpr:
		return p.helper(sc, e)
	case *template.PathExpr:
		return nil, errors.New(errors.CodeInvalidTemplate).WithDetailf("path %q was not compiled", e.Path)
	}
	return nil, errors.New(errors.CodeInvalidTemplate).WithDetailf("cannot evaluate expression %T", e)
}

func (p *pass) refs(sc *scope, exprs []template.Expr) ([]reactive.Reference, error) {
	out := make([]reactive.Reference, len(exprs))
	for i, e := range exprs {
		r, err := p.ref(sc, e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (p *pass) argsOf(sc *scope, positional []template.Expr, named []template.Named) (args.Map, error) {
	pos, err := p.refs(sc, positional)
	if err != nil {
		return args.Map{}, err
	}
	ns := make([]args.Named, len(named))
	for i, n := range named {
		r, err := p.ref(sc, n.Value)
		if err != nil {
			return args.Map{}, err
		}
		ns[i] = args.Named{Name: n.Name, Ref: r}
	}
	return args.New(pos, ns...), nil
}

func (p *pass) helper(sc *scope, e *template.HelperExpr) (reactive.Reference, error) {
	clock := p.env.clock
	reg := p.env.registry

	if e.Name == "component" {
		target, err := p.ref(sc, e.Positional[0])
		if err != nil {
			return nil, err
		}
		curried, err := p.argsOf(sc, e.Positional[1:], e.Named)
		if err != nil {
			return nil, err
		}
		// The curried definition is the region identity downstream, so it
		// is reused while the target value stays the same.
		var (
			last   any
			cached *component.Curried
		)
		return reactive.NewComputed(clock, func() (any, error) {
			v, err := target.Value()
			if err != nil {
				return nil, err
			}
			if cached != nil && reactive.Equal(v, last) {
				return cached, nil
			}
			c, err := reg.Curry(v, curried)
			if err != nil || c == nil {
				return nil, err
			}
			last, cached = v, c
			return c, nil
		}).Labeled("component"), nil
	}

	h, err := reg.Helper(e.Name)
	if err != nil {
		return nil, err
	}
	a, err := p.argsOf(sc, e.Positional, e.Named)
	if err != nil {
		return nil, err
	}
	return reactive.NewComputed(clock, func() (any, error) {
		pos, err := a.PositionalValues()
		if err != nil {
			return nil, err
		}
		named, err := a.Values()
		if err != nil {
			return nil, err
		}
		return h(pos, named)
	}).Labeled(e.Name), nil
}

// attrRef evaluates an attribute's parts. Several parts are joined as
// strings.
func (p *pass) attrRef(sc *scope, parts []template.Expr) (reactive.Reference, error) {
	refs, err := p.refs(sc, parts)
	if err != nil {
		return nil, err
	}
	switch len(refs) {
	case 0:
		return reactive.Const(""), nil
	case 1:
		return refs[0], nil
	}
	return reactive.NewComputed(p.env.clock, func() (any, error) {
		var sb strings.Builder
		for _, r := range refs {
			v, err := r.Value()
			if err != nil {
				return nil, err
			}
			sb.WriteString(component.Stringify(v))
		}
		return sb.String(), nil
	}).Labeled("concat"), nil
}

// truthy reports whether v selects the main branch of if and with. nil,
// false, zero numbers, "" and empty collections are falsy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// attrValue renders an attribute value. ok is false when the attribute
// should be absent: nil and false remove it, true renders it empty. For
// bindings nil renders as an empty value instead.
func attrValue(v any, binding bool) (s string, ok bool) {
	switch t := v.(type) {
	case nil:
		return "", binding
	case bool:
		return "", t
	}
	return component.Stringify(v), true
}

// invocable reports whether v renders as a component when appended.
func invocable(v any) bool {
	switch t := v.(type) {
	case *component.Definition:
		return t != nil
	case *component.Curried:
		return t != nil
	}
	return false
}
