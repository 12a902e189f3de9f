package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/template"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Environment owns the revision clock, the output document and the
// registry shared by every tree it renders.
//
// Render, Rerender, Destroy and Update hold the environment lock, so trees
// of one environment may be driven from several goroutines.
type Environment struct {
	mu       sync.Mutex
	clock    *reactive.Clock
	dom      DOM
	registry *component.Registry
	logger   *slog.Logger
	observer Observer

	nextID int
	depth  int
	queue  []task
}

// task is lifecycle work deferred to commit.
type task struct {
	name string
	fn   func() error
}

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Environment) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDocument sets the output container. The default is a fresh
// vdom.Document.
func WithDocument(d DOM) Option {
	return func(e *Environment) {
		if d != nil {
			e.dom = d
		}
	}
}

// WithObserver adds an observer. Observers are called in the order they
// were added.
func WithObserver(o Observer) Option {
	return func(e *Environment) {
		if o == nil {
			return
		}
		if list, ok := e.observer.(observers); ok {
			e.observer = append(list, o)
			return
		}
		e.observer = observers{o}
	}
}

// New returns an environment resolving components through registry. A nil
// registry is replaced by an empty one.
func New(registry *component.Registry, opts ...Option) *Environment {
	if registry == nil {
		registry = component.NewRegistry()
	}
	e := &Environment{
		clock:    reactive.NewClock(),
		dom:      vdom.NewDocument(),
		registry: registry,
		logger:   slog.Default(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the environment's revision clock.
func (e *Environment) Clock() *reactive.Clock { return e.clock }

// Document returns the output container.
func (e *Environment) Document() DOM { return e.dom }

// Registry returns the component registry.
func (e *Environment) Registry() *component.Registry { return e.registry }

// Begin opens a transaction. Transactions nest; writes inside the
// outermost one share a revision.
func (e *Environment) Begin() {
	e.depth++
	e.clock.Begin()
}

// Commit closes a transaction. The outermost commit runs the queued
// lifecycle work in the order it was scheduled.
func (e *Environment) Commit() error {
	if e.depth == 0 {
		return errors.New(errors.CodeTransaction).WithDetail("Commit called without a matching Begin")
	}
	var result *multierror.Error
	if e.depth == 1 {
		for len(e.queue) > 0 {
			queue := e.queue
			e.queue = nil
			for _, t := range queue {
				if err := t.fn(); err != nil {
					result = multierror.Append(result, err)
				}
			}
		}
	}
	e.depth--
	if err := e.clock.Commit(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Update runs fn in a transaction while holding the environment lock. Use
// it to mutate state shared with trees that other goroutines rerender.
func (e *Environment) Update(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Begin()
	err := fn()
	if cerr := e.Commit(); cerr != nil {
		err = multierror.Append(err, cerr).ErrorOrNil()
	}
	return err
}

func (e *Environment) schedule(name string, fn func() error) {
	e.queue = append(e.queue, task{name: name, fn: fn})
}

func (e *Environment) newID() string {
	e.nextID++
	return fmt.Sprintf("ember%d", e.nextID)
}

// Render compiles t and builds it into parent with self as the root
// context. A nil self is an empty object; a nil parent is a new fragment.
//
// Compile errors are returned before anything is built. If building fails,
// everything built so far is destroyed and removed.
func (e *Environment) Render(ctx context.Context, t *template.Template, self *reactive.Object, parent *vdom.Node) (res *RenderResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, done := e.observer.RenderStarted(ctx, OpRender)
	defer func() { done(err) }()

	layout, err := e.registry.Layout(t)
	if err != nil {
		return nil, err
	}
	if self == nil {
		self = reactive.NewObject(e.clock, nil)
	}
	if parent == nil {
		parent = e.dom.CreateFragment()
	}

	e.Begin()
	p := e.newPass(ctx)
	root, err := p.buildBlock(layout.Body, rootScope(self), parent, nil)
	cerr := e.Commit()
	if err != nil {
		return nil, err
	}

	res = &RenderResult{
		ID:     uuid.New(),
		env:    e,
		self:   self,
		parent: parent,
		root:   root,
	}
	if err := multierror.Append(p.errs, cerr).ErrorOrNil(); err != nil {
		_ = res.destroy(ctx)
		return nil, err
	}
	e.logger.Debug("rendered", "result", res.ID, "template", t.Name)
	return res, nil
}

// pass carries the state of one walk over a tree.
type pass struct {
	ctx  context.Context
	env  *Environment
	errs *multierror.Error
}

func (e *Environment) newPass(ctx context.Context) *pass {
	return &pass{ctx: ctx, env: e}
}

// fail records a local failure. The node that failed keeps its previous
// output and the walk continues.
func (p *pass) fail(err error) {
	p.errs = multierror.Append(p.errs, err)
	p.env.logger.Warn("recompute failed", "error", err)
	p.env.observer.RecomputeFailed(p.ctx, err)
}

func (p *pass) stamp(t reactive.Tag) reactive.Revision {
	return p.env.clock.Stamp(t)
}
