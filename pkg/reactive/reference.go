package reactive

import (
	"fmt"

	"github.com/vango-dev/vtree/internal/errors"
)

// Reference is a value behind a tag.
type Reference interface {
	Tag() Tag
	Value() (any, error)
}

var (
	// ErrRecomputeFailure matches every error returned by a computed
	// reference whose function failed.
	ErrRecomputeFailure = errors.New(errors.CodeRecomputeFailure)

	// ErrCycle matches a computed reference that read itself.
	ErrCycle = errors.New(errors.CodeCycle)
)

// ConstReference holds a value that never changes.
type ConstReference struct {
	value any
}

// Const returns a constant reference to v.
func Const(v any) *ConstReference {
	return &ConstReference{value: v}
}

func (r *ConstReference) Tag() Tag            { return ConstantTag }
func (r *ConstReference) Value() (any, error) { return r.value, nil }

// UpdatableReference is a root value that can be replaced from outside.
type UpdatableReference struct {
	clock *Clock
	tag   *DirtyableTag
	value any
}

// NewUpdatable returns a settable reference holding v.
func NewUpdatable(clock *Clock, v any) *UpdatableReference {
	return &UpdatableReference{clock: clock, tag: NewDirtyableTag(clock), value: v}
}

func (r *UpdatableReference) Tag() Tag { return r.tag }

func (r *UpdatableReference) Value() (any, error) {
	r.clock.Consume(r.tag)
	return r.value, nil
}

// Peek returns the value without recording a dependency.
func (r *UpdatableReference) Peek() any {
	return r.value
}

// Update replaces the value. It reports whether anything changed.
func (r *UpdatableReference) Update(v any) bool {
	if Equal(r.value, v) {
		return false
	}
	r.value = v
	r.tag.Dirty()
	return true
}

// Computed caches the result of a function and recomputes it only after one
// of the tags it consumed has moved.
type Computed struct {
	clock   *Clock
	compute func() (any, error)
	label   string

	tag  *UpdatableTag
	deps Tag

	value     any
	snapshot  Revision
	valid     bool
	computing bool
}

// NewComputed returns a lazily evaluated, cached reference.
func NewComputed(clock *Clock, compute func() (any, error)) *Computed {
	return &Computed{
		clock:   clock,
		compute: compute,
		tag:     NewUpdatableTag(VolatileTag),
	}
}

// Labeled names the computation in error messages.
func (c *Computed) Labeled(label string) *Computed {
	c.label = label
	return c
}

// Tag returns a tag that advances whenever a dependency does.
func (c *Computed) Tag() Tag {
	return c.tag
}

// Value returns the cached value if still valid, otherwise recomputes. A
// failing computation keeps the previous value and returns it together with
// a RecomputeFailure; the next read tries again.
func (c *Computed) Value() (any, error) {
	if c.valid && c.deps.Validate(c.snapshot) {
		c.clock.Consume(c.tag)
		return c.value, nil
	}
	if c.computing {
		c.clock.Consume(c.tag)
		return c.value, errors.New(errors.CodeCycle).WithSite("", c.label)
	}

	c.computing = true
	var v any
	deps, err := c.clock.Track(func() error {
		var cerr error
		v, cerr = c.compute()
		return cerr
	})
	c.computing = false

	c.deps = deps
	c.tag.Update(deps)
	c.clock.Consume(c.tag)

	if err != nil {
		c.valid = false
		if errors.HasCode(err, errors.CodeRecomputeFailure) || errors.HasCode(err, errors.CodeCycle) {
			return c.value, err
		}
		return c.value, errors.New(errors.CodeRecomputeFailure).WithSite("", c.label).Wrap(err)
	}

	c.value = v
	c.snapshot = c.clock.Stamp(deps)
	c.valid = true
	return v, nil
}

// Peek returns the last computed value without recomputing.
func (c *Computed) Peek() any {
	return c.value
}

// Invalidate forces the next read to recompute.
func (c *Computed) Invalidate() {
	c.valid = false
}

func (c *Computed) String() string {
	if c.label != "" {
		return fmt.Sprintf("computed(%s)", c.label)
	}
	return "computed"
}

// PropertyReference reads one key from the value of a parent reference.
type PropertyReference struct {
	*Computed
	parent Reference
	key    string
}

// Property returns a reference to parent.key. The parent may produce an
// *Object, a map with string keys or a struct; see Lookup.
func Property(clock *Clock, parent Reference, key string) *PropertyReference {
	p := &PropertyReference{parent: parent, key: key}
	p.Computed = NewComputed(clock, func() (any, error) {
		pv, err := parent.Value()
		if err != nil {
			return nil, err
		}
		return Lookup(pv, key)
	}).Labeled(key)
	return p
}

// Path walks keys from root, one PropertyReference per step.
func Path(clock *Clock, root Reference, keys ...string) Reference {
	ref := root
	for _, k := range keys {
		ref = Property(clock, ref, k)
	}
	return ref
}

// Key returns the property name this reference reads.
func (p *PropertyReference) Key() string {
	return p.key
}

// ListReference combines several references into a []any. It is not cached.
type ListReference struct {
	refs []Reference
}

// List returns a reference whose value is the values of refs in order.
func List(refs ...Reference) *ListReference {
	return &ListReference{refs: refs}
}

func (l *ListReference) Tag() Tag {
	tags := make([]Tag, len(l.refs))
	for i, r := range l.refs {
		tags[i] = r.Tag()
	}
	return Combine(tags...)
}

func (l *ListReference) Value() (any, error) {
	out := make([]any, len(l.refs))
	for i, r := range l.refs {
		v, err := r.Value()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Len returns the number of references.
func (l *ListReference) Len() int {
	return len(l.refs)
}

// MapReference combines named references into a map[string]any. It is not
// cached.
type MapReference struct {
	names []string
	refs  map[string]Reference
}

// Map returns a reference over names, read from refs.
func Map(names []string, refs map[string]Reference) *MapReference {
	return &MapReference{names: names, refs: refs}
}

func (m *MapReference) Tag() Tag {
	tags := make([]Tag, 0, len(m.names))
	for _, n := range m.names {
		tags = append(tags, m.refs[n].Tag())
	}
	return Combine(tags...)
}

func (m *MapReference) Value() (any, error) {
	out := make(map[string]any, len(m.names))
	for _, n := range m.names {
		v, err := m.refs[n].Value()
		if err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}
