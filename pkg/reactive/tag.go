package reactive

// Tag is a versioned validity token.
type Tag interface {
	// Value returns the tag's current revision.
	Value() Revision

	// Validate reports whether a consumer that remembered snapshot is
	// still up to date.
	Validate(snapshot Revision) bool
}

type constantTag struct{}

func (constantTag) Value() Revision           { return ConstantRevision }
func (constantTag) Validate(_ Revision) bool { return true }

// ConstantTag never changes.
var ConstantTag Tag = constantTag{}

type volatileTag struct{}

func (volatileTag) Value() Revision           { return VolatileRevision }
func (volatileTag) Validate(_ Revision) bool { return false }

// VolatileTag never validates.
var VolatileTag Tag = volatileTag{}

// DirtyableTag is a writable leaf tag.
type DirtyableTag struct {
	clock    *Clock
	revision Revision
}

// NewDirtyableTag returns a leaf tag at InitialRevision.
func NewDirtyableTag(clock *Clock) *DirtyableTag {
	return &DirtyableTag{clock: clock, revision: InitialRevision}
}

func (t *DirtyableTag) Value() Revision {
	return t.revision
}

// Validate is true only if nothing has been written since snapshot.
func (t *DirtyableTag) Validate(snapshot Revision) bool {
	return snapshot == t.revision
}

// Dirty moves the tag to a fresh revision.
func (t *DirtyableTag) Dirty() {
	t.revision = t.clock.Bump()
}

// CombinedTag is the max of its children. It cannot be written.
type CombinedTag struct {
	tags []Tag
}

func (t *CombinedTag) Value() Revision {
	var max Revision
	for _, child := range t.tags {
		if v := child.Value(); v > max {
			max = v
		}
	}
	return max
}

func (t *CombinedTag) Validate(snapshot Revision) bool {
	v := t.Value()
	return v != VolatileRevision && snapshot >= v
}

// Combine returns a tag whose revision is the max of tags. Constant tags are
// dropped; a single remaining tag is returned as is.
func Combine(tags ...Tag) Tag {
	var live []Tag
	for _, t := range tags {
		if t == nil || t == ConstantTag {
			continue
		}
		if t == VolatileTag {
			return VolatileTag
		}
		live = append(live, t)
	}
	switch len(live) {
	case 0:
		return ConstantTag
	case 1:
		return live[0]
	}
	return &CombinedTag{tags: live}
}

// UpdatableTag follows a replaceable inner tag. Swapping the inner tag never
// moves the value backwards.
type UpdatableTag struct {
	inner       Tag
	lastUpdated Revision
}

// NewUpdatableTag returns a tag following inner.
func NewUpdatableTag(inner Tag) *UpdatableTag {
	if inner == nil {
		inner = ConstantTag
	}
	return &UpdatableTag{inner: inner}
}

func (t *UpdatableTag) Value() Revision {
	v := t.inner.Value()
	if t.lastUpdated > v {
		return t.lastUpdated
	}
	return v
}

func (t *UpdatableTag) Validate(snapshot Revision) bool {
	v := t.Value()
	return v != VolatileRevision && snapshot >= v
}

// Update replaces the inner tag.
func (t *UpdatableTag) Update(inner Tag) {
	if inner == nil {
		inner = ConstantTag
	}
	prev := t.Value()
	t.inner = inner
	if prev > t.lastUpdated && prev != VolatileRevision {
		t.lastUpdated = prev
	}
}

// Inner returns the tag currently followed.
func (t *UpdatableTag) Inner() Tag {
	return t.inner
}
