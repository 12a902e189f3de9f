package demo

import (
	"context"
	"sync"

	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Frame is the output of one tick.
type Frame struct {
	Scenario string   `json:"scenario"`
	Tick     int      `json:"tick"`
	HTML     string   `json:"html"`
	Patches  []string `json:"patches"`
	Error    string   `json:"error,omitempty"`
}

// Player renders a scenario and advances it one tick at a time. It is safe
// for concurrent use.
type Player struct {
	mu       sync.Mutex
	scenario *Scenario
	doc      *vdom.Document
	result   *runtime.RenderResult
	tick     int
	last     Frame
}

// Start renders tick 0 of s. The player owns its document; a WithDocument
// option in opts is overridden.
func Start(ctx context.Context, s *Scenario, opts ...runtime.Option) (*Player, error) {
	doc := vdom.NewDocument()
	env := runtime.New(s.Registry(), append(opts, runtime.WithDocument(doc))...)
	p := &Player{scenario: s, doc: doc}

	self := reactive.NewObject(env.Clock(), s.State(0))
	res, err := env.Render(ctx, s.Template, self, nil)
	if err != nil {
		return nil, err
	}
	p.result = res
	p.last = p.frame(nil)
	return p, nil
}

// Step advances to the next tick and rerenders. A failed rerender still
// produces a frame; the error is returned and recorded on it.
func (p *Player) Step(ctx context.Context) (Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tick++
	err := p.result.Rerender(ctx, p.scenario.State(p.tick))
	p.last = p.frame(err)
	return p.last, err
}

// Frame returns the most recent frame.
func (p *Player) Frame() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// HTML returns the current output.
func (p *Player) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result.HTML()
}

// Scenario returns the scenario being played.
func (p *Player) Scenario() *Scenario { return p.scenario }

// Close destroys the rendered tree.
func (p *Player) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result.Destroy(ctx)
}

func (p *Player) frame(err error) Frame {
	journal := p.doc.TakeJournal()
	f := Frame{
		Scenario: p.scenario.Name,
		Tick:     p.tick,
		HTML:     p.result.HTML(),
		Patches:  make([]string, len(journal)),
	}
	for i, patch := range journal {
		f.Patches[i] = patch.String()
	}
	if err != nil {
		f.Error = err.Error()
	}
	return f
}
