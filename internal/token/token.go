// Package token implements the ownership token described in spec §4.B: a
// unique, non-forgeable identity issued for one producer call and used to
// authorize in-place mutation of interior index nodes without violating
// the persistent contract visible to other holders of the same value.
package token

// Token is an opaque, call-scoped identity. The zero value is not a valid
// token; always obtain one via New. Equality is by pointer identity, not
// value, so two tokens are never accidentally equal. The field is
// otherwise unused; it exists only to keep Token non-zero-size, since the
// Go runtime collapses every zero-size allocation onto the same address
// and would make every token pointer compare equal to every other.
type Token struct{ _ byte }

// New issues a fresh token. Callers must not retain it past the producer
// call that created it.
func New() *Token {
	return &Token{}
}

// Matches reports whether owner is the same token as mine. A nil owner
// (an untagged node) never matches anything, including a nil mine.
func Matches(owner, mine *Token) bool {
	return owner != nil && owner == mine
}
