package reactive

// frame collects the tags consumed by one tracked computation.
type frame struct {
	tags []Tag
	seen map[Tag]struct{}
}

func (f *frame) add(t Tag) {
	if t == nil || t == ConstantTag {
		return
	}
	if _, ok := f.seen[t]; ok {
		return
	}
	if f.seen == nil {
		f.seen = make(map[Tag]struct{})
	}
	f.seen[t] = struct{}{}
	f.tags = append(f.tags, t)
}

// Consume records t as a dependency of the computation currently being
// tracked, if any.
func (c *Clock) Consume(t Tag) {
	if n := len(c.frames); n > 0 {
		c.frames[n-1].add(t)
	}
}

// Track runs fn and returns the combination of every tag consumed while it
// ran. Nested Track calls each see their own dependencies; the inner result
// is not forwarded to the outer frame automatically.
func (c *Clock) Track(fn func() error) (Tag, error) {
	f := &frame{}
	c.frames = append(c.frames, f)
	defer func() {
		c.frames = c.frames[:len(c.frames)-1]
	}()
	err := fn()
	return Combine(f.tags...), err
}

// Untracked runs fn without recording dependencies.
func (c *Clock) Untracked(fn func()) {
	saved := c.frames
	c.frames = nil
	defer func() {
		c.frames = saved
	}()
	fn()
}

// Tracking reports whether a tracked computation is running.
func (c *Clock) Tracking() bool {
	return len(c.frames) > 0
}
