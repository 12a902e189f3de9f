package reactive

import "reflect"

// Equal reports whether a and b are the same value for the purpose of
// change detection. Values that cannot be compared are always different.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
