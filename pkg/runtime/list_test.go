package runtime

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/schema"
	T "github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func listTemplate(key string) *T.Template {
	return T.New("list", T.El("ul",
		T.Each(T.Get("list"), key, "item", T.El("li", T.Append(T.Get("item")))),
	))
}

func ul(items ...string) string {
	out := "<ul>"
	for _, it := range items {
		out += "<li>" + it + "</li>"
	}
	return out + "</ul>"
}

func patchOps(j []vdom.Patch) []vdom.PatchOp {
	out := make([]vdom.PatchOp, len(j))
	for i, p := range j {
		out[i] = p.Op
	}
	return out
}

func TestEachRendersItems(t *testing.T) {
	h := newHarness(t)
	h.render(listTemplate(T.KeyPrimitive), map[string]any{"list": []any{"a", "b", "c"}})
	h.assertHTML(ul("a", "b", "c"))
	h.assertStable()
}

func TestEachReorderMovesNodes(t *testing.T) {
	h := newHarness(t)
	h.render(listTemplate(T.KeyPrimitive), map[string]any{"list": []any{"1", "2", "3", "4"}})
	before := map[string]*vdom.Node{}
	for _, li := range h.root.FirstChild().Children() {
		before[li.TextContent()] = li
	}

	h.doc.ResetJournal()
	h.rerender(map[string]any{"list": []any{"4", "2", "3", "1"}})
	h.assertHTML(ul("4", "2", "3", "1"))

	for _, op := range patchOps(h.doc.Journal()) {
		if op != vdom.PatchMoveNode {
			t.Errorf("unexpected %s patch, want only moves", op)
		}
	}
	for _, li := range h.root.FirstChild().Children() {
		if before[li.TextContent()] != li {
			t.Errorf("item %s was rebuilt", li.TextContent())
		}
	}
}

func TestEachInsertAndRemove(t *testing.T) {
	tests := []struct {
		name   string
		before []any
		after  []any
	}{
		{"append", []any{"a", "b"}, []any{"a", "b", "c"}},
		{"prepend", []any{"b", "c"}, []any{"a", "b", "c"}},
		{"insert middle", []any{"a", "c"}, []any{"a", "b", "c"}},
		{"remove first", []any{"a", "b", "c"}, []any{"b", "c"}},
		{"remove middle", []any{"a", "b", "c"}, []any{"a", "c"}},
		{"replace all", []any{"a", "b"}, []any{"c", "d"}},
		{"shuffle and grow", []any{"a", "b", "c"}, []any{"d", "c", "a", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.render(T.New("list",
				T.Text("<"),
				T.Each(T.Get("list"), T.KeyPrimitive, "item", T.Append(T.Get("item"))),
				T.Text(">"),
			), map[string]any{"list": tt.before})
			h.rerender(map[string]any{"list": tt.after})
			want := "<"
			for _, v := range tt.after {
				want += v.(string)
			}
			want += ">"
			if got := h.root.TextContent(); got != want {
				t.Errorf("text = %q, want %q", got, want)
			}
		})
	}
}

func TestEachDuplicateKeys(t *testing.T) {
	h := newHarness(t)
	h.render(listTemplate(T.KeyPrimitive), map[string]any{"list": []any{"a", "a", "b"}})
	h.assertHTML(ul("a", "a", "b"))

	h.rerender(map[string]any{"list": []any{"a", "b", "a"}})
	h.assertHTML(ul("a", "b", "a"))

	h.rerender(map[string]any{"list": []any{"b", "b", "a"}})
	h.assertHTML(ul("b", "b", "a"))
}

func TestEachIndex(t *testing.T) {
	h := newHarness(t)
	h.render(T.New("list",
		T.Each(T.Get("list"), T.KeyPrimitive, "item",
			T.Append(T.Get("i")), T.Text(":"), T.Append(T.Get("item")), T.Text(" "),
		).WithIndex("i"),
	), map[string]any{"list": []any{"a", "b", "c"}})
	h.assertHTML("0:a 1:b 2:c ")

	h.rerender(map[string]any{"list": []any{"c", "a"}})
	h.assertHTML("0:c 1:a ")
}

func TestEachFieldKey(t *testing.T) {
	h := newHarness(t)
	h.render(T.New("list", T.El("ul",
		T.Each(T.Get("list"), "id", "item", T.El("li", T.Append(T.Get("item.name")))),
	)), map[string]any{"list": []any{
		map[string]any{"id": 1, "name": "a"},
		map[string]any{"id": 2, "name": "b"},
	}})
	h.assertHTML(ul("a", "b"))
	first := h.root.FirstChild().FirstChild()

	h.rerender(map[string]any{"list": []any{
		map[string]any{"id": 2, "name": "B"},
		map[string]any{"id": 1, "name": "A"},
	}})
	h.assertHTML(ul("B", "A"))
	if h.root.FirstChild().LastChild() != first {
		t.Error("item with id 1 was rebuilt instead of moved")
	}
}

func TestEachIndexKeyUpdatesInPlace(t *testing.T) {
	h := newHarness(t)
	h.render(listTemplate(T.KeyIndex), map[string]any{"list": []any{"a", "b"}})

	h.doc.ResetJournal()
	h.rerender(map[string]any{"list": []any{"b", "a"}})
	h.assertHTML(ul("b", "a"))
	want := []vdom.PatchOp{vdom.PatchSetText, vdom.PatchSetText}
	if diff := cmp.Diff(want, patchOps(h.doc.Journal())); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}

func TestEachElse(t *testing.T) {
	h := newHarness(t)
	h.render(T.New("list",
		T.Each(T.Get("list"), T.KeyPrimitive, "item", T.Append(T.Get("item"))).Else(T.Text("none")),
	), map[string]any{"list": nil})
	h.assertHTML("none")
	h.assertStable()

	h.rerender(map[string]any{"list": []any{"x", "y"}})
	h.assertHTML("xy")

	h.rerender(map[string]any{"list": []any{}})
	h.assertHTML("none")
}

func TestEachEmptyPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.render(T.New("list",
		T.Text("a"),
		T.Each(T.Get("list"), T.KeyPrimitive, "item", T.Append(T.Get("item"))),
		T.Text("b"),
	), map[string]any{"list": []any{}})
	h.assertHTML("a<!---->b")

	h.rerender(map[string]any{"list": []any{"x"}})
	h.assertHTML("axb")

	h.rerender(map[string]any{"list": []any{}})
	h.assertHTML("a<!---->b")
}

func TestEachTypedSlice(t *testing.T) {
	h := newHarness(t)
	h.render(listTemplate(T.KeyPrimitive), map[string]any{"list": []string{"a", "b"}})
	h.assertHTML(ul("a", "b"))
}

// boxed is comparable by type but may hold an uncomparable value.
type boxed struct{ V any }

func TestEachPrimitiveKeyUncomparableValue(t *testing.T) {
	h := newHarness(t)
	tmpl := T.New("list", T.El("ul",
		T.Each(T.Get("list"), T.KeyPrimitive, "item", T.El("li", T.Text("*"))),
	))
	h.render(tmpl, map[string]any{"list": []any{boxed{V: []int{1}}, boxed{V: []int{2}}}})
	h.assertHTML(ul("*", "*"))

	keep := h.root.FirstChild().Children()[1]
	h.rerender(map[string]any{"list": []any{boxed{V: []int{2}}}})
	h.assertHTML(ul("*"))
	if h.root.FirstChild().FirstChild() != keep {
		t.Error("retained item was rebuilt")
	}
}

func TestEachNotIterable(t *testing.T) {
	h := newHarness(t)
	_, err := h.tryRender(listTemplate(T.KeyPrimitive), map[string]any{"list": 42})
	if !errors.HasCode(err, errors.CodeInvalidTemplate) {
		t.Fatalf("err = %v, want %s", err, errors.CodeInvalidTemplate)
	}
}

func TestEachUnknownKeyMode(t *testing.T) {
	h := newHarness(t)
	_, err := h.tryRender(listTemplate("@bogus"), map[string]any{"list": []any{1}})
	if !errors.HasCode(err, errors.CodeUnknownKeyMode) {
		t.Fatalf("err = %v, want %s", err, errors.CodeUnknownKeyMode)
	}
}

func TestEachReorderDoesNotRecreateComponents(t *testing.T) {
	counter := newHookCounter()
	h := newHarness(t, &component.Definition{
		Name:     "list-item",
		Kind:     component.KindGlimmer,
		Template: T.New("list-item", T.El("li", T.Append(T.Get("@item")))),
		Layers:   []*schema.Layer{counter.layer()},
	})
	h.render(T.New("list", T.El("ul",
		T.Each(T.Get("list"), T.KeyPrimitive, "item", T.Invoke("list-item").Arg("item", T.Get("item"))),
	)), map[string]any{"list": []any{"a", "b", "c"}})
	h.assertHTML(ul("a", "b", "c"))

	h.rerender(map[string]any{"list": []any{"c", "a", "b"}})
	h.assertHTML(ul("c", "a", "b"))
	if got := counter.counts[schema.HookInit]; got != 3 {
		t.Errorf("init fired %d times, want 3", got)
	}
	if got := counter.counts[schema.HookDestroy]; got != 0 {
		t.Errorf("destroy fired %d times, want 0", got)
	}
}
