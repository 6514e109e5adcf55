package stela

import (
	"github.com/stela-go/stela/internal/policy"
	"github.com/stela-go/stela/internal/rrbvector"
	"github.com/stela-go/stela/internal/token"
)

// Sequence is a persistent ordered collection, held either as a plain
// Go slice (native) or as an internal/rrbvector.Vector (indexed). The
// two forms are observationally equivalent; IsPersistent reports which
// one backs a given value.
type Sequence struct {
	native  []any
	indexed *rrbvector.Vector
}

// NewSequence builds a native Sequence from xs. The slice is copied, so
// later mutation of xs by the caller does not affect the result.
func NewSequence(xs ...any) *Sequence {
	cp := make([]any, len(xs))
	copy(cp, xs)
	return &Sequence{native: cp}
}

func sequenceFromIndexed(v *rrbvector.Vector) *Sequence {
	return &Sequence{indexed: v}
}

func (s *Sequence) Kind() Kind { return KindSequence }

// IsPersistent reports whether s is currently backed by the indexed
// representation.
func (s *Sequence) IsPersistent() bool {
	return s != nil && s.indexed != nil
}

// Len returns the element count.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	if s.indexed != nil {
		return s.indexed.Len()
	}
	return len(s.native)
}

// Get returns the element at i, or (nil, false) if i is out of range.
func (s *Sequence) Get(i int) (any, bool) {
	if s == nil {
		return nil, false
	}
	if s.indexed != nil {
		return s.indexed.Get(i)
	}
	if i < 0 || i >= len(s.native) {
		return nil, false
	}
	return s.native[i], true
}

// ToSlice returns a fresh native []any snapshot of s's contents.
func (s *Sequence) ToSlice() []any {
	if s == nil {
		return nil
	}
	if s.indexed != nil {
		return s.indexed.ToSlice()
	}
	out := make([]any, len(s.native))
	copy(out, s.native)
	return out
}

// wrap returns the indexed form of s if s is native and at or above the
// adaptive threshold, leaving an already-indexed s untouched (by
// identity) and a native s below the threshold as a shallow native
// copy (spec §4.I).
func (s *Sequence) wrap() *Sequence {
	if s == nil {
		return s
	}
	if s.indexed != nil {
		return s
	}
	if len(s.native) < policy.Threshold {
		return NewSequence(s.native...)
	}
	return sequenceFromIndexed(rrbvector.FromSlice(s.native))
}

// unwrap returns the native form of s, materializing it if s is
// indexed and leaving an already-native s untouched (by identity).
func (s *Sequence) unwrap() *Sequence {
	if s == nil {
		return s
	}
	if s.indexed == nil {
		return s
	}
	return NewSequence(s.indexed.ToSlice()...)
}

// withSet returns a Sequence with the element at i overwritten by val,
// threading tok through the indexed path. It returns s itself,
// unchanged, if val equals the existing element.
func (s *Sequence) withSet(i int, val any, tok *token.Token) (*Sequence, error) {
	if s.indexed != nil {
		if cur, ok := s.indexed.Get(i); ok && keyEqual(cur, val) {
			return s, nil
		}
		nv, err := s.indexed.Set(i, val, tok)
		if err != nil {
			return nil, boundaryf("sequence set: %v", err)
		}
		if nv == s.indexed {
			return s, nil
		}
		return sequenceFromIndexed(nv), nil
	}
	if i < 0 || i >= len(s.native) {
		return nil, boundaryf("sequence set: index %d out of range [0,%d)", i, len(s.native))
	}
	if keyEqual(s.native[i], val) {
		return s, nil
	}
	cp := append([]any(nil), s.native...)
	cp[i] = val
	return &Sequence{native: cp}, nil
}

// withPush returns a Sequence with val appended.
func (s *Sequence) withPush(val any, tok *token.Token) *Sequence {
	if s.indexed != nil {
		return sequenceFromIndexed(s.indexed.Push(val, tok))
	}
	cp := append(append([]any(nil), s.native...), val)
	return &Sequence{native: cp}
}

// withPop returns a Sequence with the last element dropped, the
// dropped element, and whether there was one to drop.
func (s *Sequence) withPop(tok *token.Token) (*Sequence, any, bool) {
	if s.indexed != nil {
		last, ok := s.indexed.Get(s.indexed.Len() - 1)
		if !ok {
			return s, nil, false
		}
		nv, ok := s.indexed.Pop(tok)
		if !ok {
			return s, nil, false
		}
		return sequenceFromIndexed(nv), last, true
	}
	n := len(s.native)
	if n == 0 {
		return s, nil, false
	}
	cp := append([]any(nil), s.native[:n-1]...)
	return &Sequence{native: cp}, s.native[n-1], true
}

// withSplice returns a Sequence with deleteCount elements starting at
// start replaced by inserts.
func (s *Sequence) withSplice(start, deleteCount int, inserts []any) (*Sequence, error) {
	cur := s.ToSlice()
	if start < 0 || start > len(cur) {
		return nil, boundaryf("sequence splice: start %d out of range [0,%d]", start, len(cur))
	}
	end := start + deleteCount
	if end > len(cur) {
		end = len(cur)
	}
	out := make([]any, 0, len(cur)-(end-start)+len(inserts))
	out = append(out, cur[:start]...)
	out = append(out, inserts...)
	out = append(out, cur[end:]...)
	return NewSequence(out...), nil
}

// withFilter returns a Sequence keeping only elements for which keep
// returns true.
func (s *Sequence) withFilter(keep func(any) bool) *Sequence {
	cur := s.ToSlice()
	out := cur[:0:0]
	for _, v := range cur {
		if keep(v) {
			out = append(out, v)
		}
	}
	return NewSequence(out...)
}
