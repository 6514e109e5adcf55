package stela

import (
	"github.com/stela-go/stela/internal/orderindex"
	"github.com/stela-go/stela/internal/policy"
	"github.com/stela-go/stela/internal/token"
)

// Set is a persistent collection of unique elements, iterated in
// insertion order. It shares its representation strategy with Mapping:
// a flat order-preserving slice natively, an internal/orderindex.Index
// (with hasValues=false, since a set's "value" is its key) once it
// crosses the adaptive threshold.
type Set struct {
	native  []any
	indexed *orderindex.Index
}

// NewSet builds a native Set from elems, preserving first-seen order
// and dropping duplicates.
func NewSet(elems ...any) *Set {
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		if findElem(out, e) < 0 {
			out = append(out, e)
		}
	}
	return &Set{native: out}
}

func setFromIndexed(idx *orderindex.Index) *Set {
	return &Set{indexed: idx}
}

func (s *Set) Kind() Kind { return KindSet }

func (s *Set) IsPersistent() bool {
	return s != nil && s.indexed != nil
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	if s.indexed != nil {
		return s.indexed.Size()
	}
	return len(s.native)
}

// Has reports whether elem is a member.
func (s *Set) Has(elem any) bool {
	if s == nil {
		return false
	}
	if s.indexed != nil {
		return s.indexed.Contains(elem)
	}
	return findElem(s.native, elem) >= 0
}

// Range walks elements in insertion order, stopping early if fn
// returns false.
func (s *Set) Range(fn func(elem any) bool) {
	if s == nil {
		return
	}
	if s.indexed != nil {
		s.indexed.Iterate(func(k, _ any) bool { return fn(k) })
		return
	}
	for _, e := range s.native {
		if !fn(e) {
			return
		}
	}
}

// Elements returns a fresh []any snapshot in insertion order.
func (s *Set) Elements() []any {
	out := make([]any, 0, s.Len())
	s.Range(func(e any) bool {
		out = append(out, e)
		return true
	})
	return out
}

// wrap returns the indexed form of s if s is native and at or above the
// adaptive threshold, leaving an already-indexed s untouched (by
// identity) and a native s below the threshold as a shallow native
// copy (spec §4.I).
func (s *Set) wrap() *Set {
	if s == nil {
		return s
	}
	if s.indexed != nil {
		return s
	}
	if len(s.native) < policy.Threshold {
		return NewSet(s.native...)
	}
	idx := orderindex.New(false)
	for _, e := range s.native {
		idx = idx.Set(e, nil, nil)
	}
	return setFromIndexed(idx)
}

func (s *Set) unwrap() *Set {
	if s == nil {
		return s
	}
	if s.indexed == nil {
		return s
	}
	return NewSet(s.Elements()...)
}

// setFromElems builds an internal/orderindex.Index from a native
// element slice, used by the producer engines when a native input has
// already reached the adaptive threshold (spec §4.H step 3).
func setFromElems(elems []any) *orderindex.Index {
	idx := orderindex.New(false)
	for _, e := range elems {
		idx = idx.Set(e, nil, nil)
	}
	return idx
}

// withAdd returns a Set with elem inserted, unchanged by identity if
// elem is already present.
func (s *Set) withAdd(elem any, tok *token.Token) *Set {
	if s.indexed != nil {
		nv := s.indexed.Set(elem, nil, tok)
		if nv == s.indexed {
			return s
		}
		return setFromIndexed(nv)
	}
	if findElem(s.native, elem) >= 0 {
		return s
	}
	cp := append(append([]any(nil), s.native...), elem)
	return &Set{native: cp}
}

// withDelete returns a Set with elem removed, unchanged by identity if
// elem is absent.
func (s *Set) withDelete(elem any, tok *token.Token) *Set {
	if s.indexed != nil {
		nv := s.indexed.Remove(elem, tok)
		if nv == s.indexed {
			return s
		}
		return setFromIndexed(nv)
	}
	if i := findElem(s.native, elem); i >= 0 {
		cp := append([]any(nil), s.native[:i]...)
		cp = append(cp, s.native[i+1:]...)
		return &Set{native: cp}
	}
	return s
}

// withClear returns an empty Set of the same representation, unchanged
// by identity if s is already empty.
func (s *Set) withClear() *Set {
	if s.Len() == 0 {
		return s
	}
	if s.indexed != nil {
		return setFromIndexed(orderindex.New(false))
	}
	return &Set{}
}

func findElem(elems []any, elem any) int {
	for i, e := range elems {
		if keyEqual(e, elem) {
			return i
		}
	}
	return -1
}
