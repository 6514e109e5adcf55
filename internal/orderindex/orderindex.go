// Package orderindex implements the order-index sidecar described in
// spec §3/§4.E: it layers insertion-order iteration on top of
// internal/hamt (for the key->index lookup) and internal/rrbvector (for
// the dense index->key/index->value sequences), with tombstone-based
// deletion and periodic compaction. There is no teacher analog for this
// component — IP routing tables have no iteration-order concept — so it
// is built directly from the two components spec.md §4.E names.
package orderindex

import (
	"github.com/stela-go/stela/internal/hamt"
	"github.com/stela-go/stela/internal/rrbvector"
	"github.com/stela-go/stela/internal/token"
)

// tombstoneType is a unique, unexported type so Tombstone can never
// collide with a caller-supplied key or value.
type tombstoneType struct{}

// Tombstone marks a deleted position in idxToKey/idxToVal.
var Tombstone = tombstoneType{}

// compactionMinSize, together with the holes > size/2 test in
// maybeCompact, implements spec §3/§4.E's compaction rule:
// holes > size/2 && size > 32.
const compactionMinSize = 32

// Index is the order-index sidecar. hasValues distinguishes the Mapping
// use (idxToVal populated) from the ElementSet use (idxToVal unused,
// spec §3: "present for mappings, absent for sets").
type Index struct {
	next      int
	holes     int
	keyToIdx  *hamt.Map
	idxToKey  *rrbvector.Vector
	idxToVal  *rrbvector.Vector
	hasValues bool
}

// New returns an empty order index. hasValues selects the Mapping (true)
// or ElementSet (false) shape.
func New(hasValues bool) *Index {
	return &Index{hasValues: hasValues}
}

// Size returns size = next - holes, per spec §3's invariant.
func (idx *Index) Size() int {
	if idx == nil {
		return 0
	}
	return idx.next - idx.holes
}

// Lookup returns the value bound to k (the key itself, for an
// ElementSet).
func (idx *Index) Lookup(k any) (val any, ok bool) {
	if idx == nil {
		return nil, false
	}
	posAny, ok := idx.keyToIdx.Lookup(k)
	if !ok {
		return nil, false
	}
	if !idx.hasValues {
		return k, true
	}
	v, _ := idx.idxToVal.Get(posAny.(int))
	return v, true
}

// Contains reports whether k is present.
func (idx *Index) Contains(k any) bool {
	_, ok := idx.Lookup(k)
	return ok
}

// Set binds k to v, assigning it a fresh insertion-order position if k
// is new, or updating only idxToVal in place (by index) if k already
// exists — updating an existing key never changes its position (spec
// §8 property 6).
func (idx *Index) Set(k, v any, tok *token.Token) *Index {
	if idx == nil {
		idx = New(true)
	}
	out := idx.set(k, v, tok)
	return out.maybeCompact(tok)
}

func (idx *Index) set(k, v any, tok *token.Token) *Index {
	if posAny, ok := idx.keyToIdx.Lookup(k); ok {
		pos := posAny.(int)
		newIdxToVal := idx.idxToVal
		if idx.hasValues {
			cur, _ := idx.idxToVal.Get(pos)
			same := func() (eq bool) {
				defer func() {
					if recover() != nil {
						eq = false
					}
				}()
				return cur == v
			}()
			if same {
				return idx
			}
			newIdxToVal, _ = idx.idxToVal.Set(pos, v, tok)
		}
		if newIdxToVal == idx.idxToVal {
			return idx
		}
		return &Index{
			next: idx.next, holes: idx.holes,
			keyToIdx: idx.keyToIdx, idxToKey: idx.idxToKey,
			idxToVal: newIdxToVal, hasValues: idx.hasValues,
		}
	}

	pos := idx.next
	newIdxToKey := idx.idxToKey.Push(k, tok)
	newIdxToVal := idx.idxToVal
	if idx.hasValues {
		newIdxToVal = idx.idxToVal.Push(v, tok)
	}
	newKeyToIdx := idx.keyToIdx.Insert(k, pos, tok)

	return &Index{
		next: idx.next + 1, holes: idx.holes,
		keyToIdx: newKeyToIdx, idxToKey: newIdxToKey,
		idxToVal: newIdxToVal, hasValues: idx.hasValues,
	}
}

// Remove deletes k. If k is absent, the identical Index is returned by
// identity.
func (idx *Index) Remove(k any, tok *token.Token) *Index {
	if idx == nil {
		return idx
	}
	posAny, ok := idx.keyToIdx.Lookup(k)
	if !ok {
		return idx
	}
	pos := posAny.(int)

	newIdxToKey, _ := idx.idxToKey.Set(pos, Tombstone, tok)
	newIdxToVal := idx.idxToVal
	if idx.hasValues {
		newIdxToVal, _ = idx.idxToVal.Set(pos, Tombstone, tok)
	}
	newKeyToIdx := idx.keyToIdx.Remove(k, tok)

	out := &Index{
		next: idx.next, holes: idx.holes + 1,
		keyToIdx: newKeyToIdx, idxToKey: newIdxToKey,
		idxToVal: newIdxToVal, hasValues: idx.hasValues,
	}
	return out.maybeCompact(tok)
}

// Clear returns an empty index of the same shape.
func (idx *Index) Clear() *Index {
	if idx == nil {
		return idx
	}
	return New(idx.hasValues)
}

// Iterate walks entries in insertion order, skipping tombstones, and
// stops early if fn returns false.
func (idx *Index) Iterate(fn func(key, val any) bool) {
	if idx == nil {
		return
	}
	for i := 0; i < idx.next; i++ {
		key, _ := idx.idxToKey.Get(i)
		if key == Tombstone {
			continue
		}
		val := key
		if idx.hasValues {
			val, _ = idx.idxToVal.Get(i)
		}
		if !fn(key, val) {
			return
		}
	}
}

// maybeCompact triggers a rebuild when holes > size/2 && size > 32 (spec
// §4.E), observationally invisible: same iteration order, size and
// lookups afterward.
func (idx *Index) maybeCompact(tok *token.Token) *Index {
	size := idx.Size()
	if idx.holes > size/2 && size > compactionMinSize {
		return idx.compact(tok)
	}
	return idx
}

func (idx *Index) compact(tok *token.Token) *Index {
	fresh := New(idx.hasValues)
	idx.Iterate(func(k, v any) bool {
		fresh = fresh.set(k, v, tok)
		return true
	})
	return fresh
}
