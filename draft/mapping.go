package draft

import (
	"github.com/stela-go/stela/internal/orderindex"
	"github.com/stela-go/stela/internal/token"
)

// MapEntry is a single key/value pair, used to seed a Mapping draft
// and returned from Entries.
type MapEntry struct {
	Key any
	Val any
}

// Mapping is the recording draft for a keyed collection. It starts
// from either a native entry slice or an already-built
// internal/orderindex.Index and records set/delete/clear; Dirty
// reports whether any of those actually changed anything (identity
// short-circuits propagate up from internal/hamt and
// internal/orderindex, so a Set with no effective change leaves Dirty
// false).
type Mapping struct {
	tok     *token.Token
	entries []MapEntry
	indexed *orderindex.Index
	dirty   bool
}

func NewMappingFromNative(entries []MapEntry, tok *token.Token) *Mapping {
	cp := make([]MapEntry, len(entries))
	copy(cp, entries)
	return &Mapping{tok: tok, entries: cp}
}

func NewMappingFromIndexed(idx *orderindex.Index, tok *token.Token) *Mapping {
	return &Mapping{tok: tok, indexed: idx}
}

func (d *Mapping) Dirty() bool     { return d.dirty }
func (d *Mapping) IsIndexed() bool { return d.indexed != nil }

func (d *Mapping) Len() int {
	if d.indexed != nil {
		return d.indexed.Size()
	}
	return len(d.entries)
}

func (d *Mapping) Get(key any) (any, bool) {
	if d.indexed != nil {
		return d.indexed.Lookup(key)
	}
	if i := d.find(key); i >= 0 {
		return d.entries[i].Val, true
	}
	return nil, false
}

func (d *Mapping) Has(key any) bool {
	_, ok := d.Get(key)
	return ok
}

// Set binds key to val, updating in place if key already exists
// (preserving its insertion position) or appending a new binding
// otherwise.
func (d *Mapping) Set(key, val any) {
	if d.indexed != nil {
		nv := d.indexed.Set(key, val, d.tok)
		if nv != d.indexed {
			d.dirty = true
		}
		d.indexed = nv
		return
	}
	if i := d.find(key); i >= 0 {
		if !valueEqual(d.entries[i].Val, val) {
			d.entries[i].Val = val
			d.dirty = true
		}
		return
	}
	d.entries = append(d.entries, MapEntry{Key: key, Val: val})
	d.dirty = true
}

// Update rebinds key to fn(old, ok), where ok reports whether key was
// already bound.
func (d *Mapping) Update(key any, fn func(old any, ok bool) any) {
	old, ok := d.Get(key)
	d.Set(key, fn(old, ok))
}

// Delete removes key. A delete of an absent key leaves Dirty false.
func (d *Mapping) Delete(key any) {
	if d.indexed != nil {
		nv := d.indexed.Remove(key, d.tok)
		if nv != d.indexed {
			d.dirty = true
		}
		d.indexed = nv
		return
	}
	if i := d.find(key); i >= 0 {
		d.entries = append(d.entries[:i], d.entries[i+1:]...)
		d.dirty = true
	}
}

// Clear removes every entry.
func (d *Mapping) Clear() {
	if d.Len() == 0 {
		return
	}
	if d.indexed != nil {
		d.indexed = orderindex.New(true)
	} else {
		d.entries = nil
	}
	d.dirty = true
}

// Merge binds every entry of partial, in the given order, as if by
// Set.
func (d *Mapping) Merge(partial []MapEntry) {
	for _, e := range partial {
		d.Set(e.Key, e.Val)
	}
}

// Range walks entries in insertion order, stopping early if fn returns
// false.
func (d *Mapping) Range(fn func(key, val any) bool) {
	if d.indexed != nil {
		d.indexed.Iterate(fn)
		return
	}
	for _, e := range d.entries {
		if !fn(e.Key, e.Val) {
			return
		}
	}
}

// Entries returns a fresh []MapEntry snapshot in insertion order.
func (d *Mapping) Entries() []MapEntry {
	out := make([]MapEntry, 0, d.Len())
	d.Range(func(k, v any) bool {
		out = append(out, MapEntry{Key: k, Val: v})
		return true
	})
	return out
}

// Indexed returns the current indexed map, or nil if this draft is
// still in native mode.
func (d *Mapping) Indexed() *orderindex.Index { return d.indexed }

func (d *Mapping) find(key any) int {
	for i, e := range d.entries {
		if keyEqual(e.Key, key) {
			return i
		}
	}
	return -1
}
