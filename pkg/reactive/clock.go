package reactive

import (
	"github.com/vango-dev/vtree/internal/errors"
)

// Revision is a point on a Clock's timeline.
type Revision uint64

const (
	// ConstantRevision is the revision of values that never change.
	ConstantRevision Revision = 0

	// InitialRevision is where every clock starts.
	InitialRevision Revision = 1

	// VolatileRevision never validates.
	VolatileRevision Revision = ^Revision(0)
)

// Clock hands out revisions and records the tags consumed by tracked
// computations.
type Clock struct {
	current Revision

	// depth counts nested Begin calls.
	depth int

	// bumped is set once the open transaction has advanced the clock.
	bumped bool

	// observed is set when a consumer stamped the current revision after
	// the last bump. The next write then needs a fresh revision.
	observed bool

	// start is the revision the outermost transaction began at.
	start Revision

	frames []*frame
}

// NewClock returns a clock positioned at InitialRevision.
func NewClock() *Clock {
	return &Clock{current: InitialRevision}
}

// Current returns the latest revision handed out.
func (c *Clock) Current() Revision {
	return c.current
}

// Bump advances the clock and returns the new revision. Inside a transaction
// writes reuse the revision of the first bump until a consumer stamps it.
func (c *Clock) Bump() Revision {
	if c.depth > 0 && c.bumped && !c.observed {
		return c.current
	}
	c.current++
	c.observed = false
	if c.depth > 0 {
		c.bumped = true
	}
	return c.current
}

// Begin opens a transaction. Transactions nest.
func (c *Clock) Begin() {
	if c.depth == 0 {
		c.start = c.current
		c.bumped = false
	}
	c.depth++
}

// Commit closes the innermost transaction.
func (c *Clock) Commit() error {
	if c.depth == 0 {
		return errors.New(errors.CodeTransaction)
	}
	c.depth--
	if c.depth == 0 {
		c.bumped = false
	}
	return nil
}

// InTransaction reports whether a transaction is open.
func (c *Clock) InTransaction() bool {
	return c.depth > 0
}

// TransactionStart returns the revision the open transaction began at, or
// the current revision when none is open.
func (c *Clock) TransactionStart() Revision {
	if c.depth == 0 {
		return c.current
	}
	return c.start
}

// Tx runs fn inside a transaction.
func (c *Clock) Tx(fn func() error) (err error) {
	c.Begin()
	defer func() {
		if cerr := c.Commit(); err == nil {
			err = cerr
		}
	}()
	return fn()
}

// Stamp returns the revision a consumer should remember for t. Stamping the
// current revision stops later writes in the same transaction from reusing
// it.
func (c *Clock) Stamp(t Tag) Revision {
	v := t.Value()
	if v >= c.current && v != VolatileRevision {
		c.observed = true
	}
	return v
}
