package stela

import (
	"github.com/stela-go/stela/draft"
	"github.com/stela-go/stela/internal/orderindex"
	"github.com/stela-go/stela/internal/policy"
	"github.com/stela-go/stela/internal/token"
)

// Entry is a single key/value pair, used to seed a Mapping in
// insertion order.
type Entry struct {
	Key any
	Val any
}

// Mapping is a persistent keyed collection with unique keys, iterated
// in insertion order. Below the adaptive threshold it is held as a
// flat, order-preserving slice of entries (a bare Go map cannot
// preserve insertion order, and order preservation is a property the
// spec requires at every size, not only past the threshold); at or
// above the threshold it is held as an internal/orderindex.Index
// layering the same order over internal/hamt.
type Mapping struct {
	native  []Entry
	indexed *orderindex.Index
}

// NewMapping builds a native Mapping from entries, preserving their
// order and keeping only the last value for a repeated key.
func NewMapping(entries ...Entry) *Mapping {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i := findEntry(out, e.Key); i >= 0 {
			out[i].Val = e.Val
			continue
		}
		out = append(out, e)
	}
	return &Mapping{native: out}
}

func mappingFromIndexed(idx *orderindex.Index) *Mapping {
	return &Mapping{indexed: idx}
}

func (m *Mapping) Kind() Kind { return KindMapping }

func (m *Mapping) IsPersistent() bool {
	return m != nil && m.indexed != nil
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	if m.indexed != nil {
		return m.indexed.Size()
	}
	return len(m.native)
}

// Get returns the value bound to key, or (nil, false) if absent.
func (m *Mapping) Get(key any) (any, bool) {
	if m == nil {
		return nil, false
	}
	if m.indexed != nil {
		return m.indexed.Lookup(key)
	}
	if i := findEntry(m.native, key); i >= 0 {
		return m.native[i].Val, true
	}
	return nil, false
}

// Has reports whether key is bound.
func (m *Mapping) Has(key any) bool {
	_, ok := m.Get(key)
	return ok
}

// Range walks entries in insertion order, stopping early if fn returns
// false.
func (m *Mapping) Range(fn func(key, val any) bool) {
	if m == nil {
		return
	}
	if m.indexed != nil {
		m.indexed.Iterate(fn)
		return
	}
	for _, e := range m.native {
		if !fn(e.Key, e.Val) {
			return
		}
	}
}

// Entries returns a fresh []Entry snapshot in insertion order.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, 0, m.Len())
	m.Range(func(k, v any) bool {
		out = append(out, Entry{Key: k, Val: v})
		return true
	})
	return out
}

// wrap returns the indexed form of m if m is native and at or above the
// adaptive threshold, leaving an already-indexed m untouched (by
// identity) and a native m below the threshold as a shallow native
// copy (spec §4.I).
func (m *Mapping) wrap() *Mapping {
	if m == nil {
		return m
	}
	if m.indexed != nil {
		return m
	}
	if len(m.native) < policy.Threshold {
		return NewMapping(m.native...)
	}
	idx := orderindex.New(true)
	for _, e := range m.native {
		idx = idx.Set(e.Key, e.Val, nil)
	}
	return mappingFromIndexed(idx)
}

func (m *Mapping) unwrap() *Mapping {
	if m == nil {
		return m
	}
	if m.indexed == nil {
		return m
	}
	return NewMapping(m.Entries()...)
}

// withSet returns a Mapping with key bound to val, preserving key's
// position if already bound. It returns m itself, unchanged, if key is
// already bound to an equal value.
func (m *Mapping) withSet(key, val any, tok *token.Token) *Mapping {
	if m.indexed != nil {
		nv := m.indexed.Set(key, val, tok)
		if nv == m.indexed {
			return m
		}
		return mappingFromIndexed(nv)
	}
	if i := findEntry(m.native, key); i >= 0 {
		if keyEqual(m.native[i].Val, val) {
			return m
		}
		cp := append([]Entry(nil), m.native...)
		cp[i].Val = val
		return &Mapping{native: cp}
	}
	cp := append(append([]Entry(nil), m.native...), Entry{Key: key, Val: val})
	return &Mapping{native: cp}
}

// withDelete returns a Mapping with key removed. It returns m itself,
// unchanged, if key is absent.
func (m *Mapping) withDelete(key any, tok *token.Token) *Mapping {
	if m.indexed != nil {
		nv := m.indexed.Remove(key, tok)
		if nv == m.indexed {
			return m
		}
		return mappingFromIndexed(nv)
	}
	if i := findEntry(m.native, key); i >= 0 {
		cp := append([]Entry(nil), m.native[:i]...)
		cp = append(cp, m.native[i+1:]...)
		return &Mapping{native: cp}
	}
	return m
}

// withClear returns an empty Mapping of the same representation,
// unchanged by identity if m is already empty.
func (m *Mapping) withClear() *Mapping {
	if m.Len() == 0 {
		return m
	}
	if m.indexed != nil {
		return mappingFromIndexed(orderindex.New(true))
	}
	return &Mapping{}
}

// withMerge returns a Mapping with every entry of partial bound in
// order as if by withSet, threading one token through the whole merge.
// partial is an ordered entry list rather than a Go map so that the
// position newly-introduced keys land at is deterministic (spec §8
// property 6); a map's iteration order would make it unspecified.
func (m *Mapping) withMerge(partial []draft.MapEntry, tok *token.Token) *Mapping {
	out := m
	for _, e := range partial {
		out = out.withSet(e.Key, e.Val, tok)
	}
	return out
}

// mappingFromEntries builds an internal/orderindex.Index from a
// parallel entry list, used by the producer engines when a native
// input has already reached the adaptive threshold and must be
// processed through the indexed representation for the duration of a
// recipe (spec §4.H step 3).
func mappingFromEntries(entries []draft.MapEntry) *orderindex.Index {
	idx := orderindex.New(true)
	for _, e := range entries {
		idx = idx.Set(e.Key, e.Val, nil)
	}
	return idx
}

func findEntry(entries []Entry, key any) int {
	for i, e := range entries {
		if keyEqual(e.Key, key) {
			return i
		}
	}
	return -1
}
