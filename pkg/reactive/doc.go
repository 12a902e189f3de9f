// Package reactive implements revision based dependency tracking.
//
// Every piece of mutable state carries a Tag. A tag exposes a monotonically
// increasing Revision; a consumer remembers the revision it last saw and asks
// the tag to Validate it later. Leaf tags validate by equality, combined tags
// (the max over their children) validate with >=.
//
// Revisions come from a Clock. There is one clock per render environment and
// it is never shared. Writes inside a Begin/Commit transaction all collapse
// onto a single revision, so a burst of writes causes one recompute
// downstream.
//
// References wrap values behind tags:
//
//	clock := reactive.NewClock()
//	person := reactive.NewObject(clock, map[string]any{"first": "Ada", "last": "Lovelace"})
//	full := reactive.NewComputed(clock, func() (any, error) {
//	    first, _ := person.Get("first")
//	    last, _ := person.Get("last")
//	    return fmt.Sprintf("%s %s", first, last), nil
//	})
//
//	v, _ := full.Value()   // computes, tracking "first" and "last"
//	v, _ = full.Value()    // cached
//	person.Set("first", "Augusta")
//	v, _ = full.Value()    // recomputes once
//
// Nothing in this package is safe for concurrent use. Callers serialize
// access through the owning environment.
package reactive
