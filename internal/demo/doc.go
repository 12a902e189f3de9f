// Package demo holds the built-in scenarios used by the vtree CLI and the
// preview server.
//
// A scenario is a root template, the components and helpers it invokes, and
// a function producing the root context for each tick. A Player renders a
// scenario once and then rerenders it tick by tick:
//
//	s, err := demo.Lookup("list")
//	if err != nil {
//	    return err
//	}
//	p, err := demo.Start(ctx, s, runtime.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer p.Close(ctx)
//
//	for i := 0; i < 4; i++ {
//	    fmt.Println(p.HTML())
//	    if err := p.Step(ctx); err != nil {
//	        return err
//	    }
//	}
package demo
