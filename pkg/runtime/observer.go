package runtime

import (
	"context"

	"github.com/vango-dev/vtree/pkg/component"
)

// Operation names passed to Observer.RenderStarted.
const (
	OpRender   = "render"
	OpRerender = "rerender"
	OpDestroy  = "destroy"
)

// Observer is notified about render activity. Implementations must be
// cheap; they run on the render path.
type Observer interface {
	// RenderStarted is called at the start of a render, rerender or
	// destroy. The returned function is called with the operation's
	// result.
	RenderStarted(ctx context.Context, op string) (context.Context, func(error))

	// ComponentCreated and ComponentDestroyed receive the context
	// returned by RenderStarted for the operation they happen in.
	ComponentCreated(ctx context.Context, kind component.ManagerKind)
	ComponentDestroyed(ctx context.Context, kind component.ManagerKind)

	// RecomputeFailed reports a local failure that left a node's
	// previous output in place.
	RecomputeFailed(ctx context.Context, err error)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) RenderStarted(ctx context.Context, _ string) (context.Context, func(error)) {
	return ctx, func(error) {}
}
func (NopObserver) ComponentCreated(context.Context, component.ManagerKind)   {}
func (NopObserver) ComponentDestroyed(context.Context, component.ManagerKind) {}
func (NopObserver) RecomputeFailed(context.Context, error)                    {}

type observers []Observer

func (o observers) RenderStarted(ctx context.Context, op string) (context.Context, func(error)) {
	dones := make([]func(error), len(o))
	for i, obs := range o {
		ctx, dones[i] = obs.RenderStarted(ctx, op)
	}
	return ctx, func(err error) {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](err)
		}
	}
}

func (o observers) ComponentCreated(ctx context.Context, kind component.ManagerKind) {
	for _, obs := range o {
		obs.ComponentCreated(ctx, kind)
	}
}

func (o observers) ComponentDestroyed(ctx context.Context, kind component.ManagerKind) {
	for _, obs := range o {
		obs.ComponentDestroyed(ctx, kind)
	}
}

func (o observers) RecomputeFailed(ctx context.Context, err error) {
	for _, obs := range o {
		obs.RecomputeFailed(ctx, err)
	}
}
