package reactive

import (
	"testing"

	"github.com/vango-dev/vtree/internal/errors"
)

func TestBumpOutsideTransaction(t *testing.T) {
	clock := NewClock()
	if clock.Current() != InitialRevision {
		t.Fatalf("Current() = %d, want %d", clock.Current(), InitialRevision)
	}
	a := clock.Bump()
	b := clock.Bump()
	if b <= a {
		t.Errorf("Bump() = %d then %d, want increasing", a, b)
	}
}

func TestTransactionCoalescesWrites(t *testing.T) {
	clock := NewClock()
	a, b := NewDirtyableTag(clock), NewDirtyableTag(clock)

	clock.Begin()
	a.Dirty()
	clock.Begin()
	b.Dirty()
	if err := clock.Commit(); err != nil {
		t.Fatal(err)
	}
	a.Dirty()
	if err := clock.Commit(); err != nil {
		t.Fatal(err)
	}

	if a.Value() != b.Value() {
		t.Errorf("writes in one transaction got revisions %d and %d", a.Value(), b.Value())
	}
	if clock.Current() != InitialRevision+1 {
		t.Errorf("Current() = %d, want %d", clock.Current(), InitialRevision+1)
	}
}

func TestCommitWithoutBegin(t *testing.T) {
	clock := NewClock()
	err := clock.Commit()
	if !errors.HasCode(err, errors.CodeTransaction) {
		t.Errorf("Commit() = %v, want %s", err, errors.CodeTransaction)
	}
}

func TestTxReturnsError(t *testing.T) {
	clock := NewClock()
	want := errors.New(errors.CodeHookFailure)
	if err := clock.Tx(func() error { return want }); err != want {
		t.Errorf("Tx() = %v, want %v", err, want)
	}
	if clock.InTransaction() {
		t.Error("Tx should close its transaction")
	}
}

func TestStampAfterBumpInTransaction(t *testing.T) {
	clock := NewClock()
	tag := NewDirtyableTag(clock)

	clock.Begin()
	tag.Dirty()
	snap := clock.Stamp(tag)
	tag.Dirty()
	_ = clock.Commit()

	if tag.Validate(snap) {
		t.Error("a write later in the same transaction must invalidate the stamp")
	}
}

func TestTrackCollectsConsumedTags(t *testing.T) {
	clock := NewClock()
	a, b, c := NewDirtyableTag(clock), NewDirtyableTag(clock), NewDirtyableTag(clock)

	deps, err := clock.Track(func() error {
		clock.Consume(a)
		clock.Consume(b)
		clock.Consume(a)
		clock.Untracked(func() {
			clock.Consume(c)
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	snap := deps.Value()
	c.Dirty()
	if !deps.Validate(snap) {
		t.Error("untracked read leaked into dependencies")
	}
	b.Dirty()
	if deps.Validate(snap) {
		t.Error("tracked dependency did not invalidate")
	}
	if clock.Tracking() {
		t.Error("Track should pop its frame")
	}
}
