package demo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
)

// Scenario is a template plus the state it is driven through.
type Scenario struct {
	Name        string
	Description string
	Template    *template.Template
	Components  []*component.Definition
	Helpers     map[string]component.Helper

	// State returns the root context for tick n. Tick 0 is the first render.
	State func(tick int) map[string]any
}

// Registry returns a registry holding the scenario's components and helpers.
func (s *Scenario) Registry() *component.Registry {
	r := component.NewRegistry().Register(s.Components...)
	for name, h := range s.Helpers {
		r.RegisterHelper(name, h)
	}
	return r
}

var scenarios = map[string]*Scenario{}

func register(s *Scenario) {
	scenarios[s.Name] = s
}

func init() {
	register(listScenario())
	register(curryScenario())
	register(toggleScenario())
}

// Names returns the registered scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scenario called name.
func Lookup(name string) (*Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown scenario %q", name).
			WithSuggestion("Available scenarios: " + strings.Join(Names(), ", "))
	}
	return s, nil
}

// listSteps is the keyed list sequence: shrink, reverse, empty.
var listSteps = [][]any{
	{1, 2, 3, 4, 5},
	{1, 2, 3},
	{3, 2, 1},
	{},
}

func listScenario() *Scenario {
	item := &component.Definition{
		Name: "list-item",
		Kind: component.KindGlimmer,
		Template: template.New("list-item",
			template.El("li", template.Text("item "), template.Append(template.Get("@item"))).SplatAttributes(),
		),
	}
	return &Scenario{
		Name:        "list",
		Description: "keyed list that shrinks, reverses and empties",
		Components:  []*component.Definition{item},
		Helpers:     map[string]component.Helper{"count-label": countLabel},
		Template: template.New("list",
			template.El("h1", template.Append(template.Call("count-label", template.Get("items.length")))),
			template.El("ul",
				template.Each(template.Get("items"), template.KeyPrimitive, "item",
					template.Invoke("list-item").
						Arg("item", template.Get("item")).
						Attr("class", template.Lit("item")),
				).Else(template.El("li", template.Text("nothing here"))),
			),
		),
		State: func(tick int) map[string]any {
			return map[string]any{"items": listSteps[tick%len(listSteps)]}
		},
	}
}

func countLabel(positional []any, _ map[string]any) (any, error) {
	if len(positional) != 1 {
		return nil, fmt.Errorf("count-label: want 1 argument, got %d", len(positional))
	}
	n, ok := positional[0].(int)
	if !ok {
		return nil, fmt.Errorf("count-label: want int, got %T", positional[0])
	}
	if n == 1 {
		return "1 item", nil
	}
	return fmt.Sprintf("%d items", n), nil
}

var (
	greetings = []string{"Hello", "Hola", "Bonjour"}
	names     = []string{"Tom", "Yehuda", "Kris"}
)

func curryScenario() *Scenario {
	card := &component.Definition{
		Name: "greet-card",
		Kind: component.KindGlimmer,
		Template: template.New("greet-card",
			template.El("p",
				template.Append(template.Get("@greeting")),
				template.Text(", "),
				template.Append(template.Get("@name")),
				template.Text("!"),
			).SplatAttributes(),
		),
	}
	return &Scenario{
		Name:        "curry",
		Description: "curried component whose bound and invocation arguments change",
		Components:  []*component.Definition{card},
		Template: template.New("curry",
			template.With(template.Component(template.Lit("greet-card")).With("greeting", template.Get("greeting")), "card",
				template.InvokeDynamic(template.Get("card")).
					Arg("name", template.Get("name")).
					Attr("class", template.Lit("card")),
			),
		),
		State: func(tick int) map[string]any {
			return map[string]any{
				"greeting": greetings[tick%len(greetings)],
				"name":     names[(tick/len(greetings))%len(names)],
			}
		},
	}
}

func toggleScenario() *Scenario {
	panel := &component.Definition{
		Name:     "status-panel",
		Kind:     component.KindCurly,
		Template: template.New("status-panel", template.Yield()),
		Layers: []*schema.Layer{{
			Name:         "status-panel",
			Concatenated: []string{"classNames"},
			Defaults: map[string]any{
				"tagName":           "aside",
				"classNames":        []any{"panel"},
				"attributeBindings": []any{"title", "ariaRole:role"},
			},
		}},
	}
	return &Scenario{
		Name:        "toggle",
		Description: "curly component created and destroyed every other tick",
		Components:  []*component.Definition{panel},
		Template: template.New("toggle",
			template.If(template.Get("open"),
				template.Invoke("status-panel").
					Arg("title", template.Get("title")).
					Arg("ariaRole", template.Lit("status")).
					WithBlock(nil, template.Text("tick "), template.Append(template.Get("tick"))),
			).Else(template.Text("closed")),
		),
		State: func(tick int) map[string]any {
			return map[string]any{
				"open":  tick%2 == 0,
				"title": fmt.Sprintf("panel %d", tick/2),
				"tick":  tick,
			}
		},
	}
}
