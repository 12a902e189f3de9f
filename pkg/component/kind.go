// Package component defines component definitions, their managers and the
// registry the runtime resolves invocations against.
//
// Every definition names a ManagerKind. The kinds differ in capabilities:
//
//	KindCurly    wrapper element (tagName, ember-view class, id), named
//	             arguments copied onto self, lifecycle hooks
//	KindGlimmer  no wrapper, arguments through @name, ...attributes splat,
//	             lifecycle hooks
//	KindBasic    no wrapper, arguments through @name, no hooks
//	KindTagless  no wrapper, arguments copied onto self, no hooks
//
// All kinds share the Manager interface and the Instance lifecycle.
package component

// ManagerKind selects the manager of a definition.
type ManagerKind uint8

const (
	KindCurly ManagerKind = iota
	KindGlimmer
	KindBasic
	KindTagless
)

// String returns the string representation of the ManagerKind.
func (k ManagerKind) String() string {
	switch k {
	case KindCurly:
		return "curly"
	case KindGlimmer:
		return "glimmer"
	case KindBasic:
		return "basic"
	case KindTagless:
		return "tagless"
	default:
		return "unknown"
	}
}

// Capabilities describe what the runtime does around an instance.
type Capabilities struct {
	// Wrapped components render inside an element named by tagName.
	Wrapped bool

	// Hooks enables lifecycle hooks other than destroy.
	Hooks bool

	// ArgsAsProps copies named arguments onto self.
	ArgsAsProps bool

	// Attributes forwards invocation attributes to ...attributes.
	Attributes bool

	// DynamicScope reads FromDynamicScope names onto self.
	DynamicScope bool
}
