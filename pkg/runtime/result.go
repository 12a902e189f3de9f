package runtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/reactive"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// RenderResult is a live tree produced by Environment.Render.
type RenderResult struct {
	ID uuid.UUID

	env       *Environment
	self      *reactive.Object
	parent    *vdom.Node
	root      renderNode
	destroyed bool
}

// Self returns the root context object.
func (r *RenderResult) Self() *reactive.Object { return r.self }

// Bounds returns the nodes the tree occupies in its parent.
func (r *RenderResult) Bounds() vdom.Bounds {
	if r.destroyed {
		return vdom.Range{Parent: r.parent}
	}
	return vdom.Range{Parent: r.parent, First: r.root.firstNode(), Last: r.root.lastNode()}
}

// HTML serializes the tree's nodes.
func (r *RenderResult) HTML() string {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()
	return vdom.HTMLOf(r.Bounds())
}

// Destroyed reports whether Destroy has been called.
func (r *RenderResult) Destroyed() bool { return r.destroyed }

// Rerender writes override onto the root context and brings the tree up to
// date. Failures local to one node leave that node's output in place; they
// are collected into the returned error while the walk continues.
func (r *RenderResult) Rerender(ctx context.Context, override map[string]any) (err error) {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()

	if r.destroyed {
		return errors.New(errors.CodeDestroyed).WithDetailf("render result %s was destroyed", r.ID)
	}
	ctx, done := r.env.observer.RenderStarted(ctx, OpRerender)
	defer func() { done(err) }()

	r.env.Begin()
	if len(override) > 0 {
		r.self.SetProperties(override)
	}
	p := r.env.newPass(ctx)
	r.root.update(p)
	cerr := r.env.Commit()
	r.env.logger.Debug("rerendered", "result", r.ID, "revision", r.env.clock.Current())
	return multierror.Append(p.errs, cerr).ErrorOrNil()
}

// Destroy tears the tree down, outer components before inner ones, and
// removes its nodes. Calling it again does nothing.
func (r *RenderResult) Destroy(ctx context.Context) (err error) {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()
	if r.destroyed {
		return nil
	}
	ctx, done := r.env.observer.RenderStarted(ctx, OpDestroy)
	defer func() { done(err) }()
	return r.destroy(ctx)
}

func (r *RenderResult) destroy(ctx context.Context) error {
	r.env.Begin()
	p := r.env.newPass(ctx)
	p.remove(r.root)
	r.destroyed = true
	cerr := r.env.Commit()
	r.env.logger.Debug("destroyed", "result", r.ID)
	return multierror.Append(p.errs, cerr).ErrorOrNil()
}
