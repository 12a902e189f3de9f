package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered codes.
const (
	CodeArgumentConflict = "R100"
	CodeUnknownComponent = "R110"
	CodeUnknownHelper    = "R111"
	CodeUnknownModifier  = "R112"
	CodeNotInvocable     = "R113"

	CodeStructuralCompile = "R200"
	CodeInvalidTemplate   = "R201"
	CodeUnknownKeyMode    = "R202"

	CodeRecomputeFailure = "R300"
	CodeCycle            = "R301"
	CodeDestroyed        = "R302"
	CodeTransaction      = "R303"
	CodeHookFailure      = "R304"
	CodeLifecycle        = "R305"

	CodeConfigInvalid = "R400"
	CodeConfigRead    = "R401"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Argument Errors (R100-R199)
	// ============================================

	CodeArgumentConflict: {
		Category: CategoryArgument,
		Message:  "Argument conflict",
		Detail:   "An invocation's positional arguments do not fit the component's positional params.",
	},
	CodeUnknownComponent: {
		Category: CategoryArgument,
		Message:  "Unknown component",
		Detail:   "No component with this name is registered.",
	},
	CodeUnknownHelper: {
		Category: CategoryArgument,
		Message:  "Unknown helper",
		Detail:   "No helper with this name is registered.",
	},
	CodeUnknownModifier: {
		Category: CategoryArgument,
		Message:  "Unknown modifier",
		Detail:   "No element modifier with this name is registered.",
	},
	CodeNotInvocable: {
		Category: CategoryArgument,
		Message:  "Value is not a component",
		Detail:   "The value passed to the component helper is neither a name, a definition nor a curried definition.",
	},

	// ============================================
	// Compile Errors (R200-R299)
	// ============================================

	CodeStructuralCompile: {
		Category: CategoryCompile,
		Message:  "Compile Error",
		Detail:   "The template is structurally invalid.",
	},
	CodeInvalidTemplate: {
		Category: CategoryCompile,
		Message:  "Invalid template",
		Detail:   "The template contains a statement or expression the compiler does not understand.",
	},
	CodeUnknownKeyMode: {
		Category: CategoryCompile,
		Message:  "Invalid list key",
		Detail:   "An each block needs a key: @primitive, @identity, @index or a field name.",
	},

	// ============================================
	// Runtime Errors (R300-R399)
	// ============================================

	CodeRecomputeFailure: {
		Category: CategoryRuntime,
		Message:  "Recompute failed",
		Detail:   "A reference failed to compute its value; the previous value stays in place.",
	},
	CodeCycle: {
		Category: CategoryRuntime,
		Message:  "Circular dependency detected",
		Detail:   "A computed reference read itself while computing.",
	},
	CodeDestroyed: {
		Category: CategoryRuntime,
		Message:  "Render result destroyed",
		Detail:   "The render result has been destroyed and can no longer be rerendered.",
	},
	CodeTransaction: {
		Category: CategoryRuntime,
		Message:  "Transaction misuse",
		Detail:   "Commit was called without a matching Begin.",
	},
	CodeHookFailure: {
		Category: CategoryRuntime,
		Message:  "Lifecycle hook failed",
		Detail:   "A component lifecycle hook returned an error.",
	},
	CodeLifecycle: {
		Category: CategoryRuntime,
		Message:  "Invalid lifecycle transition",
		Detail:   "A component instance was moved to a lifecycle state it cannot reach from its current one.",
	},

	// ============================================
	// Config Errors (R400-R499)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or malformed.",
	},
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Cannot read configuration",
		Detail:   "The configuration file could not be read or decoded.",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
