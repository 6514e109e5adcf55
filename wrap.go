package stela

import "github.com/stela-go/stela/internal/policy"

// Wrap returns the indexed form of v. If v is already indexed, the
// identical value is returned. If v is native and below the adaptive
// threshold, a shallow native copy is returned; at or above the
// threshold the indexed representation is built. Nested Record values
// are wrapped shallowly: child values materialize their own indexed
// form only when they themselves are wrapped or cross the threshold
// during a producer commit, never eagerly here.
func Wrap(v Value) Value {
	switch x := v.(type) {
	case *Sequence:
		return x.wrap()
	case *Mapping:
		return x.wrap()
	case *Set:
		return x.wrap()
	case *Record:
		return x.wrap()
	default:
		return v
	}
}

// wrapIfLarge builds the indexed form of a native value only when its
// count has reached the adaptive threshold. Small natives and
// already-indexed values are returned untouched (by identity).
func wrapIfLarge(v Value) Value {
	if v == nil || v.IsPersistent() || v.Len() < policy.Threshold {
		return v
	}
	return Wrap(v)
}
