// Package runtime builds, rerenders and destroys render trees.
//
// An Environment owns a revision clock, an output document and a component
// registry. Render compiles a template, builds its tree into a parent
// element and returns a RenderResult:
//
//	env := runtime.New(registry, runtime.WithLogger(logger))
//	res, err := env.Render(ctx, tmpl, state, root)
//	...
//	err = res.Rerender(ctx, map[string]any{"list": next})
//	...
//	err = res.Destroy(ctx)
//
// Rerender walks the tree and consults each node's tag. A node whose tag
// still validates against its snapshot keeps its output. A node whose value
// changed patches its DOM in place. A region whose identity changed (an if
// branch, a dynamic component definition, a list item key) destroys the old
// subtree, outer components before inner ones, and builds the new one in its
// place.
//
// Lifecycle hooks that observe the DOM (didInsertElement, didUpdate,
// didRender) and modifier installs are queued and run when the outermost
// transaction commits.
package runtime
