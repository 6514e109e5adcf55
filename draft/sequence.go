package draft

import (
	"github.com/pkg/errors"

	"github.com/stela-go/stela/internal/rrbvector"
	"github.com/stela-go/stela/internal/token"
)

// ErrBoundary marks an out-of-range index (spec §7). The Sequence
// draft's Set and Splice panic with it, wrapped with the detail.
var ErrBoundary = errors.New("stela/draft: boundary violation")

// Sequence is the recording draft for an ordered collection. It
// starts from either a native []any or an already-indexed
// internal/rrbvector.Vector (the root package picks which, per spec
// §4.H step 3) and records every mutation; Dirty reports whether any
// occurred.
type Sequence struct {
	tok     *token.Token
	items   []any
	indexed *rrbvector.Vector
	dirty   bool
}

// NewSequenceFromNative starts a draft from a native slice. xs is
// copied so later mutation of the draft never affects the caller's
// slice.
func NewSequenceFromNative(xs []any, tok *token.Token) *Sequence {
	items := make([]any, len(xs))
	copy(items, xs)
	return &Sequence{tok: tok, items: items}
}

// NewSequenceFromIndexed starts a draft from an already-built indexed
// vector, tagging it with tok so in-place mutation is authorized for
// the duration of this draft.
func NewSequenceFromIndexed(v *rrbvector.Vector, tok *token.Token) *Sequence {
	return &Sequence{tok: tok, indexed: v}
}

func (d *Sequence) Dirty() bool { return d.dirty }

// IsIndexed reports whether this draft is operating against the
// indexed representation.
func (d *Sequence) IsIndexed() bool { return d.indexed != nil }

func (d *Sequence) Len() int {
	if d.indexed != nil {
		return d.indexed.Len()
	}
	return len(d.items)
}

// Get returns the element at i, or (nil, false) if out of range.
func (d *Sequence) Get(i int) (any, bool) {
	if d.indexed != nil {
		return d.indexed.Get(i)
	}
	if i < 0 || i >= len(d.items) {
		return nil, false
	}
	return d.items[i], true
}

// Set overwrites the element at i. Panics with ErrBoundary if i is out
// of range.
func (d *Sequence) Set(i int, v any) {
	if d.indexed != nil {
		if cur, ok := d.indexed.Get(i); ok && valueEqual(cur, v) {
			return
		}
		nv, err := d.indexed.Set(i, v, d.tok)
		if err != nil {
			panic(errors.Wrapf(ErrBoundary, "sequence set: %v", err))
		}
		if nv != d.indexed {
			d.dirty = true
		}
		d.indexed = nv
		return
	}
	if i < 0 || i >= len(d.items) {
		panic(errors.Wrapf(ErrBoundary, "sequence set: index %d out of range [0,%d)", i, len(d.items)))
	}
	if !valueEqual(d.items[i], v) {
		d.items[i] = v
		d.dirty = true
	}
}

// Push appends v to the end.
func (d *Sequence) Push(v any) {
	if d.indexed != nil {
		d.indexed = d.indexed.Push(v, d.tok)
		d.dirty = true
		return
	}
	d.items = append(d.items, v)
	d.dirty = true
}

// Pop removes and returns the last element, or (nil, false) if empty.
func (d *Sequence) Pop() (any, bool) {
	if d.indexed != nil {
		last, ok := d.indexed.Get(d.indexed.Len() - 1)
		if !ok {
			return nil, false
		}
		nv, ok := d.indexed.Pop(d.tok)
		if !ok {
			return nil, false
		}
		d.indexed = nv
		d.dirty = true
		return last, true
	}
	n := len(d.items)
	if n == 0 {
		return nil, false
	}
	last := d.items[n-1]
	d.items = d.items[:n-1]
	d.dirty = true
	return last, true
}

// Splice removes deleteCount elements starting at start and inserts
// the given elements in their place, in recipe order.
func (d *Sequence) Splice(start, deleteCount int, inserts ...any) {
	cur := d.ToSlice()
	if start < 0 || start > len(cur) {
		panic(errors.Wrapf(ErrBoundary, "sequence splice: start %d out of range [0,%d]", start, len(cur)))
	}
	end := start + deleteCount
	if end > len(cur) {
		end = len(cur)
	}
	out := make([]any, 0, len(cur)-(end-start)+len(inserts))
	out = append(out, cur[:start]...)
	out = append(out, inserts...)
	out = append(out, cur[end:]...)
	d.replaceAll(out)
}

// Filter keeps only elements for which keep returns true.
func (d *Sequence) Filter(keep func(v any) bool) {
	cur := d.ToSlice()
	out := cur[:0:0]
	for _, v := range cur {
		if keep(v) {
			out = append(out, v)
		}
	}
	d.replaceAll(out)
}

func (d *Sequence) replaceAll(out []any) {
	if d.indexed != nil {
		d.indexed = rrbvector.FromSlice(out)
		d.tok = nil // the freshly built vector carries FromSlice's own token, not d.tok; further mutation within this recipe still works (Set/Push allocate fresh nodes) but no longer mutates in place
		d.dirty = true
		return
	}
	d.items = out
	d.dirty = true
}

// Range walks elements in order, stopping early if fn returns false.
func (d *Sequence) Range(fn func(i int, v any) bool) {
	n := d.Len()
	for i := 0; i < n; i++ {
		v, _ := d.Get(i)
		if !fn(i, v) {
			return
		}
	}
}

// ToSlice returns a fresh native snapshot of the draft's current
// contents.
func (d *Sequence) ToSlice() []any {
	if d.indexed != nil {
		return d.indexed.ToSlice()
	}
	out := make([]any, len(d.items))
	copy(out, d.items)
	return out
}

// Indexed returns the current indexed vector, or nil if this draft is
// still in native mode.
func (d *Sequence) Indexed() *rrbvector.Vector { return d.indexed }

func valueEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// keyEqual compares two keys with ==, tolerating non-comparable values
// by treating them as never equal rather than panicking.
func keyEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
