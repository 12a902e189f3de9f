// Package errors provides the coded, categorized errors reported by vtree.
//
// Every error the runtime reports to callers carries a short code (e.g.
// "R100") that maps to a registered template with a category, a one-line
// message and a longer explanation:
//
//   - argument: a component invocation could not be matched against the
//     callee's parameter contract (ArgumentConflictError and friends)
//   - compile: a template is structurally invalid (StructuralCompileError)
//   - runtime: a reference failed to recompute (RecomputeFailure) or the
//     tree was used after teardown
//   - config: configuration could not be loaded or validated
//
// # Usage
//
//	err := errors.New(errors.CodeArgumentConflict).
//	    WithSite("sample-component", "name").
//	    WithDetail("You cannot specify both a positional param (at position 0) and the hash argument `name`.")
//
//	if errors.HasCode(err, errors.CodeArgumentConflict) {
//	    // abort the invocation
//	}
package errors
