package stela

// keyEqual compares two keys with ==, tolerating non-comparable values
// by treating them as never equal rather than panicking. Mirrors
// internal/hamt's keyEqual, used here by the native (sub-threshold)
// Mapping/Set/Record representations that do their own linear scan
// instead of going through internal/hamt.
func keyEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
