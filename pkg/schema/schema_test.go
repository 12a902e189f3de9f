package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vtree/pkg/reactive"
)

type fakeHost struct {
	self *reactive.Object
	log  *[]string
}

func (h fakeHost) Self() *reactive.Object { return h.self }
func (h fakeHost) Attr(string) any        { return nil }
func (h fakeHost) Recompute()             {}

func TestComposeConcatenatesAcrossLayers(t *testing.T) {
	base := &Layer{
		Name:         "view",
		Concatenated: []string{"classNames", "attributeBindings"},
		Defaults:     map[string]any{"tagName": "div", "classNames": []string{"ember-view"}},
	}
	styled := &Layer{
		Name:         "styled",
		Dependencies: []*Layer{base},
		Defaults:     map[string]any{"classNames": []string{"styled"}, "attributeBindings": "style"},
	}
	aside := &Layer{
		Name:         "aside",
		Dependencies: []*Layer{base},
		Defaults:     map[string]any{"tagName": "aside"},
	}

	s := Compose(styled, aside)
	if diff := cmp.Diff([]string{"view", "styled", "aside"}, s.Layers()); diff != "" {
		t.Errorf("layer order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"ember-view", "styled"}, s.Concatenated("classNames")); diff != "" {
		t.Errorf("classNames mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.Default("tagName"); v != "aside" {
		t.Errorf("tagName = %v, want aside", v)
	}

	obj := s.Instantiate(reactive.NewClock(), map[string]any{
		"classNames": "extra",
		"tagName":    "span",
	})
	if diff := cmp.Diff([]string{"ember-view", "styled", "extra"}, Strings(obj.Peek("classNames"))); diff != "" {
		t.Errorf("instance classNames mismatch (-want +got):\n%s", diff)
	}
	if obj.Peek("tagName") != "span" {
		t.Errorf("tagName = %v, want span", obj.Peek("tagName"))
	}
	if diff := cmp.Diff([]string{"style"}, Strings(obj.Peek("attributeBindings"))); diff != "" {
		t.Errorf("attributeBindings mismatch (-want +got):\n%s", diff)
	}
}

func TestHooksRunInLayerOrder(t *testing.T) {
	var log []string
	record := func(name string) HookFunc {
		return func(h Host) error {
			log = append(log, name)
			return nil
		}
	}
	base := &Layer{Name: "base", Hooks: map[Hook]HookFunc{HookDidRender: record("base")}}
	child := &Layer{Name: "child", Dependencies: []*Layer{base}, Hooks: map[Hook]HookFunc{HookDidRender: record("child")}}

	s := Compose(child, base)
	host := fakeHost{self: s.Instantiate(reactive.NewClock(), nil)}
	if err := s.Run(HookDidRender, host); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"base", "child"}, log); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}
	if s.HasHook(HookDestroy) {
		t.Error("no layer handles destroy")
	}
	if err := s.Run(HookDestroy, host); err != nil {
		t.Errorf("Run() with no handlers = %v", err)
	}
}

func TestHookErrorStopsChain(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	s := Compose(
		&Layer{Name: "a", Hooks: map[Hook]HookFunc{HookWillRender: func(Host) error { return boom }}},
		&Layer{Name: "b", Hooks: map[Hook]HookFunc{HookWillRender: func(Host) error { ran = true; return nil }}},
	)
	err := s.Run(HookWillRender, fakeHost{})
	if !errors.Is(err, boom) {
		t.Errorf("Run() = %v, want boom", err)
	}
	if ran {
		t.Error("later hooks should not run after a failure")
	}
}

func TestComputedProperties(t *testing.T) {
	s := Compose(&Layer{
		Name:     "person",
		Defaults: map[string]any{"first": "Tom", "last": "Dale"},
		Computed: map[string]ComputedFunc{
			"full": func(self *reactive.Object) (any, error) {
				first, _ := self.Get("first")
				last, _ := self.Get("last")
				return first.(string) + " " + last.(string), nil
			},
		},
	})
	obj := s.Instantiate(reactive.NewClock(), nil)
	if v, _ := obj.Get("full"); v != "Tom Dale" {
		t.Errorf("full = %v", v)
	}
	obj.Set("first", "Yehuda")
	if v, _ := obj.Get("full"); v != "Yehuda Dale" {
		t.Errorf("full = %v", v)
	}

	overridden := s.Instantiate(reactive.NewClock(), map[string]any{"full": "fixed"})
	if v, _ := overridden.Get("full"); v != "fixed" {
		t.Errorf("overridden full = %v", v)
	}
}

func TestStrings(t *testing.T) {
	got := Strings([]any{"a", nil, false, "", 0, true})
	if diff := cmp.Diff([]string{"a", "0", "true"}, got); diff != "" {
		t.Errorf("Strings mismatch (-want +got):\n%s", diff)
	}
}
