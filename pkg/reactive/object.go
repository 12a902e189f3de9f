package reactive

import (
	"fmt"
	"reflect"
	"sort"
)

// Object is a bag of named properties, each behind its own tag. It is the
// state a component instance or a test fixture mutates.
type Object struct {
	clock    *Clock
	values   map[string]any
	tags     map[string]*DirtyableTag
	computed map[string]*Computed
}

// NewObject returns an object seeded with init. The map is copied.
func NewObject(clock *Clock, init map[string]any) *Object {
	o := &Object{
		clock:    clock,
		values:   make(map[string]any, len(init)),
		tags:     make(map[string]*DirtyableTag),
		computed: make(map[string]*Computed),
	}
	for k, v := range init {
		o.values[k] = v
	}
	return o
}

// Clock returns the clock the object's tags use.
func (o *Object) Clock() *Clock {
	return o.clock
}

func (o *Object) keyTag(key string) *DirtyableTag {
	t, ok := o.tags[key]
	if !ok {
		t = NewDirtyableTag(o.clock)
		o.tags[key] = t
	}
	return t
}

// TagFor returns the tag guarding key. For computed keys this also covers
// the computation's dependencies.
func (o *Object) TagFor(key string) Tag {
	if c, ok := o.computed[key]; ok {
		return Combine(o.keyTag(key), c.Tag())
	}
	return o.keyTag(key)
}

// Get reads key and records the dependency.
func (o *Object) Get(key string) (any, error) {
	o.clock.Consume(o.keyTag(key))
	if c, ok := o.computed[key]; ok {
		return c.Value()
	}
	return o.values[key], nil
}

// Peek reads key without recording a dependency. Computed keys return their
// last value.
func (o *Object) Peek(key string) any {
	if c, ok := o.computed[key]; ok {
		return c.Peek()
	}
	return o.values[key]
}

// Has reports whether key holds a value or a computed slot.
func (o *Object) Has(key string) bool {
	if _, ok := o.computed[key]; ok {
		return true
	}
	_, ok := o.values[key]
	return ok
}

// Set writes key. Writing an equal value is a no-op. It reports whether the
// value changed.
func (o *Object) Set(key string, v any) bool {
	if _, ok := o.computed[key]; ok {
		delete(o.computed, key)
	} else if old, ok := o.values[key]; ok && Equal(old, v) {
		return false
	}
	o.values[key] = v
	o.keyTag(key).Dirty()
	return true
}

// SetProperties writes several keys in one transaction.
func (o *Object) SetProperties(props map[string]any) {
	_ = o.clock.Tx(func() error {
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.Set(k, props[k])
		}
		return nil
	})
}

// Define installs a computed slot under key. fn reads other keys through
// the object so its dependencies are tracked.
func (o *Object) Define(key string, fn func(o *Object) (any, error)) *Computed {
	c := NewComputed(o.clock, func() (any, error) { return fn(o) }).Labeled(key)
	o.computed[key] = c
	delete(o.values, key)
	if t, ok := o.tags[key]; ok {
		t.Dirty()
	}
	return c
}

// Keys returns the object's keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.values)+len(o.computed))
	for k := range o.values {
		keys = append(keys, k)
	}
	for k := range o.computed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ref returns a reference to key on this object.
func (o *Object) Ref(key string) Reference {
	return Property(o.clock, Const(o), key)
}

// Getter is implemented by values that resolve their own properties.
type Getter interface {
	Get(key string) (any, error)
}

// Lookup resolves key on v. It understands Getter (which includes *Object),
// maps keyed by string, and exported struct fields or methods. A missing key
// resolves to nil.
func Lookup(v any, key string) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Getter:
		return t.Get(key)
	case map[string]any:
		return t[key], nil
	case map[string]string:
		if s, ok := t[key]; ok {
			return s, nil
		}
		return nil, nil
	}

	rv := reflect.ValueOf(v)
	if m := rv.MethodByName(key); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
		return m.Call(nil)[0].Interface(), nil
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		f := rv.FieldByName(key)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), nil
		}
		return nil, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot look up %q on %s", key, rv.Type())
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil
	case reflect.Slice, reflect.Array:
		if key == "length" {
			return rv.Len(), nil
		}
	}
	return nil, nil
}
