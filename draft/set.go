package draft

import (
	"github.com/stela-go/stela/internal/orderindex"
	"github.com/stela-go/stela/internal/token"
)

// Set is the recording draft for an element collection. Shaped like
// Mapping but key-only: Add/Delete/Has/Clear/Range over unique
// elements in insertion order.
type Set struct {
	tok     *token.Token
	elems   []any
	indexed *orderindex.Index
	dirty   bool
}

func NewSetFromNative(elems []any, tok *token.Token) *Set {
	cp := make([]any, len(elems))
	copy(cp, elems)
	return &Set{tok: tok, elems: cp}
}

func NewSetFromIndexed(idx *orderindex.Index, tok *token.Token) *Set {
	return &Set{tok: tok, indexed: idx}
}

func (d *Set) Dirty() bool     { return d.dirty }
func (d *Set) IsIndexed() bool { return d.indexed != nil }

func (d *Set) Len() int {
	if d.indexed != nil {
		return d.indexed.Size()
	}
	return len(d.elems)
}

func (d *Set) Has(elem any) bool {
	if d.indexed != nil {
		return d.indexed.Contains(elem)
	}
	return d.find(elem) >= 0
}

// Add inserts elem if not already present.
func (d *Set) Add(elem any) {
	if d.indexed != nil {
		nv := d.indexed.Set(elem, nil, d.tok)
		if nv != d.indexed {
			d.dirty = true
		}
		d.indexed = nv
		return
	}
	if d.find(elem) >= 0 {
		return
	}
	d.elems = append(d.elems, elem)
	d.dirty = true
}

// Delete removes elem. A delete of an absent element leaves Dirty
// false.
func (d *Set) Delete(elem any) {
	if d.indexed != nil {
		nv := d.indexed.Remove(elem, d.tok)
		if nv != d.indexed {
			d.dirty = true
		}
		d.indexed = nv
		return
	}
	if i := d.find(elem); i >= 0 {
		d.elems = append(d.elems[:i], d.elems[i+1:]...)
		d.dirty = true
	}
}

// Clear removes every element.
func (d *Set) Clear() {
	if d.Len() == 0 {
		return
	}
	if d.indexed != nil {
		d.indexed = orderindex.New(false)
	} else {
		d.elems = nil
	}
	d.dirty = true
}

// Range walks elements in insertion order, stopping early if fn
// returns false.
func (d *Set) Range(fn func(elem any) bool) {
	if d.indexed != nil {
		d.indexed.Iterate(func(k, _ any) bool { return fn(k) })
		return
	}
	for _, e := range d.elems {
		if !fn(e) {
			return
		}
	}
}

// Elements returns a fresh []any snapshot in insertion order.
func (d *Set) Elements() []any {
	out := make([]any, 0, d.Len())
	d.Range(func(e any) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Indexed returns the current indexed set, or nil if this draft is
// still in native mode.
func (d *Set) Indexed() *orderindex.Index { return d.indexed }

func (d *Set) find(elem any) int {
	for i, e := range d.elems {
		if keyEqual(e, elem) {
			return i
		}
	}
	return -1
}
