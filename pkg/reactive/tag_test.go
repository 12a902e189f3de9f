package reactive

import "testing"

func TestDirtyableTagValidatesByEquality(t *testing.T) {
	clock := NewClock()
	tag := NewDirtyableTag(clock)

	snap := tag.Value()
	if !tag.Validate(snap) {
		t.Fatal("fresh snapshot should validate")
	}

	tag.Dirty()
	if tag.Validate(snap) {
		t.Error("snapshot should be stale after Dirty")
	}
	if tag.Value() <= snap {
		t.Errorf("revision went from %d to %d", snap, tag.Value())
	}
}

func TestCombinedTagIsMaxOfChildren(t *testing.T) {
	clock := NewClock()
	a, b := NewDirtyableTag(clock), NewDirtyableTag(clock)
	combined := Combine(a, b)

	snap := combined.Value()
	b.Dirty()
	if combined.Value() != b.Value() {
		t.Errorf("combined = %d, want %d", combined.Value(), b.Value())
	}
	if combined.Validate(snap) {
		t.Error("combined tag should be stale after a child moved")
	}
	if !combined.Validate(combined.Value()) {
		t.Error("combined tag should validate its own value")
	}
}

func TestCombineCollapses(t *testing.T) {
	clock := NewClock()
	a := NewDirtyableTag(clock)

	if got := Combine(); got != ConstantTag {
		t.Errorf("Combine() = %v, want ConstantTag", got)
	}
	if got := Combine(ConstantTag, a, nil); got != Tag(a) {
		t.Errorf("Combine(const, a) = %v, want a", got)
	}
	if got := Combine(a, VolatileTag); got != VolatileTag {
		t.Errorf("Combine with volatile = %v", got)
	}
}

func TestTagSnapshotMonotonic(t *testing.T) {
	clock := NewClock()
	leaf := NewDirtyableTag(clock)
	up := NewUpdatableTag(leaf)
	combined := Combine(leaf, up)

	tags := []Tag{leaf, up, combined}
	last := make([]Revision, len(tags))
	for i := 0; i < 20; i++ {
		if i%3 == 0 {
			up.Update(NewDirtyableTag(clock))
		}
		leaf.Dirty()
		for j, tag := range tags {
			v := tag.Value()
			if v < last[j] {
				t.Fatalf("tag %d moved backwards: %d -> %d", j, last[j], v)
			}
			last[j] = v
		}
	}
}

func TestUpdatableTagNeverMovesBackwards(t *testing.T) {
	clock := NewClock()
	old := NewDirtyableTag(clock)
	old.Dirty()
	old.Dirty()

	up := NewUpdatableTag(old)
	before := up.Value()

	up.Update(NewDirtyableTag(clock))
	if up.Value() < before {
		t.Errorf("Value() = %d after swap, want >= %d", up.Value(), before)
	}
	if !up.Validate(before) {
		t.Error("swapping in an older tag should not invalidate")
	}
}

func TestConstantAndVolatile(t *testing.T) {
	if !ConstantTag.Validate(0) {
		t.Error("constant tag should always validate")
	}
	if VolatileTag.Validate(VolatileRevision) {
		t.Error("volatile tag should never validate")
	}
	if Combine(VolatileTag, ConstantTag).Validate(^Revision(0)) {
		t.Error("combination with volatile should never validate")
	}
}
