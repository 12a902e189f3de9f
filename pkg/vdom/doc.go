// Package vdom provides the in-memory output document vtree renders into.
//
// The document is a small DOM: elements, text and comment nodes linked as a
// tree with parent and sibling pointers. Every mutation made through a
// Document is appended to a patch journal, so callers can observe exactly
// which DOM operations a render or rerender performed.
//
// # Core Types
//
// Node is an element, text, comment or fragment. Document creates nodes and
// performs insert, remove, move, text and attribute mutations. Bounds
// describes the first and last node of a rendered region within its parent
// element.
//
// # Serialization
//
// HTML and InnerHTML serialize nodes with escaping for text and attribute
// values; void elements are written without closing tags and comments as
// <!--data-->.
package vdom
