package reactive

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vtree/internal/errors"
)

func TestComputedCachesUntilDependencyChanges(t *testing.T) {
	clock := NewClock()
	person := NewObject(clock, map[string]any{"first": "Ada", "last": "Lovelace"})

	runs := 0
	full := NewComputed(clock, func() (any, error) {
		runs++
		first, _ := person.Get("first")
		last, _ := person.Get("last")
		return fmt.Sprintf("%s %s", first, last), nil
	})

	for i := 0; i < 3; i++ {
		v, err := full.Value()
		if err != nil {
			t.Fatal(err)
		}
		if v != "Ada Lovelace" {
			t.Errorf("Value() = %v", v)
		}
	}
	if runs != 1 {
		t.Errorf("compute ran %d times, want 1", runs)
	}

	person.Set("first", "Augusta")
	v, _ := full.Value()
	if v != "Augusta Lovelace" {
		t.Errorf("Value() = %v", v)
	}
	if runs != 2 {
		t.Errorf("compute ran %d times, want 2", runs)
	}

	person.Set("first", "Augusta")
	full.Value()
	if runs != 2 {
		t.Error("writing an equal value should not invalidate")
	}
}

func TestManyWritesOneRecompute(t *testing.T) {
	clock := NewClock()
	obj := NewObject(clock, map[string]any{"a": 1, "b": 2, "c": 3})

	runs := 0
	sum := NewComputed(clock, func() (any, error) {
		runs++
		total := 0
		for _, k := range []string{"a", "b", "c"} {
			v, _ := obj.Get(k)
			total += v.(int)
		}
		return total, nil
	})
	sum.Value()
	tagSnap := clock.Stamp(sum.Tag())

	obj.SetProperties(map[string]any{"a": 10, "b": 20, "c": 30})

	if sum.Tag().Validate(tagSnap) {
		t.Error("tag should be stale after the transaction")
	}
	v, _ := sum.Value()
	if v != 60 {
		t.Errorf("Value() = %v, want 60", v)
	}
	if runs != 2 {
		t.Errorf("compute ran %d times, want 2", runs)
	}
}

func TestComputedFailureKeepsPreviousValue(t *testing.T) {
	clock := NewClock()
	src := NewUpdatable(clock, 1)
	boom := stderrors.New("boom")

	c := NewComputed(clock, func() (any, error) {
		v, _ := src.Value()
		if v.(int) < 0 {
			return nil, boom
		}
		return v.(int) * 10, nil
	}).Labeled("times-ten")

	if v, err := c.Value(); err != nil || v != 10 {
		t.Fatalf("Value() = %v, %v", v, err)
	}

	src.Update(-1)
	v, err := c.Value()
	if v != 10 {
		t.Errorf("Value() after failure = %v, want previous value 10", v)
	}
	if !stderrors.Is(err, ErrRecomputeFailure) {
		t.Errorf("err = %v, want RecomputeFailure", err)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("err = %v, want cause preserved", err)
	}

	src.Update(2)
	if v, err := c.Value(); err != nil || v != 20 {
		t.Errorf("Value() after recovery = %v, %v", v, err)
	}
}

func TestComputedCycle(t *testing.T) {
	clock := NewClock()
	var self *Computed
	self = NewComputed(clock, func() (any, error) {
		return self.Value()
	})
	_, err := self.Value()
	if !errors.HasCode(err, errors.CodeCycle) {
		t.Errorf("err = %v, want %s", err, errors.CodeCycle)
	}
}

func TestNestedComputedPropagates(t *testing.T) {
	clock := NewClock()
	obj := NewObject(clock, map[string]any{"n": 2})
	obj.Define("double", func(o *Object) (any, error) {
		n, _ := o.Get("n")
		return n.(int) * 2, nil
	})
	quad := NewComputed(clock, func() (any, error) {
		d, err := obj.Get("double")
		if err != nil {
			return nil, err
		}
		return d.(int) * 2, nil
	})

	if v, _ := quad.Value(); v != 8 {
		t.Errorf("Value() = %v, want 8", v)
	}
	obj.Set("n", 5)
	if v, _ := quad.Value(); v != 20 {
		t.Errorf("Value() = %v, want 20", v)
	}
}

func TestPropertyReference(t *testing.T) {
	clock := NewClock()
	inner := NewObject(clock, map[string]any{"name": "inner"})
	root := NewUpdatable(clock, map[string]any{"child": inner})

	ref := Path(clock, root, "child", "name")
	snap := func() Revision { return clock.Stamp(ref.Tag()) }

	if v, _ := ref.Value(); v != "inner" {
		t.Fatalf("Value() = %v", v)
	}
	s := snap()

	inner.Set("name", "renamed")
	if ref.Tag().Validate(s) {
		t.Error("leaf change should invalidate the path")
	}
	if v, _ := ref.Value(); v != "renamed" {
		t.Errorf("Value() = %v", v)
	}
	s = snap()

	other := NewObject(clock, map[string]any{"name": "other"})
	root.Update(map[string]any{"child": other})
	if ref.Tag().Validate(s) {
		t.Error("root change should invalidate the path")
	}
	if v, _ := ref.Value(); v != "other" {
		t.Errorf("Value() = %v", v)
	}
}

func TestListAndMapReferences(t *testing.T) {
	clock := NewClock()
	a := NewUpdatable(clock, "a")
	b := Const("b")

	list := List(a, b)
	v, _ := list.Value()
	if diff := cmp.Diff([]any{"a", "b"}, v); diff != "" {
		t.Errorf("List value mismatch (-want +got):\n%s", diff)
	}

	m := Map([]string{"x", "y"}, map[string]Reference{"x": a, "y": b})
	snap := m.Tag().Value()
	a.Update("A")
	if m.Tag().Validate(snap) {
		t.Error("map tag should follow its members")
	}
	mv, _ := m.Value()
	if diff := cmp.Diff(map[string]any{"x": "A", "y": "b"}, mv); diff != "" {
		t.Errorf("Map value mismatch (-want +got):\n%s", diff)
	}
}

type person struct {
	Name string
	tags []string
}

func (p *person) Greeting() string { return "hi " + p.Name }

func TestLookup(t *testing.T) {
	clock := NewClock()
	tests := []struct {
		name string
		v    any
		key  string
		want any
	}{
		{"nil", nil, "x", nil},
		{"object", NewObject(clock, map[string]any{"x": 1}), "x", 1},
		{"map any", map[string]any{"x": 2}, "x", 2},
		{"map string", map[string]string{"x": "s"}, "x", "s"},
		{"struct field", person{Name: "p"}, "Name", "p"},
		{"pointer field", &person{Name: "q"}, "Name", "q"},
		{"method", &person{Name: "r"}, "Greeting", "hi r"},
		{"unexported", person{tags: []string{"t"}}, "tags", nil},
		{"slice length", []int{1, 2, 3}, "length", 3},
		{"missing", map[string]any{}, "x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.v, tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Lookup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"same int", 1, 1, true},
		{"different types", 1, int64(1), false},
		{"strings", "a", "a", true},
		{"slices never equal", []int{1}, []int{1}, false},
		{"maps never equal", map[string]any{}, map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
