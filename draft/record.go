package draft

import (
	"github.com/stela-go/stela/internal/orderindex"
	"github.com/stela-go/stela/internal/token"
)

// Field is a single property/value pair.
type Field struct {
	Name string
	Val  any
}

// Record is the recording draft for a record: a Mapping draft
// restricted to string keys. Nested records and containers are not
// intercepted automatically — Go has no transparent proxy to do that
// through — so a recipe that needs to mutate a nested child reads it
// with Get, drives its own recursive Produce/ProduceFast call against
// it (explicitly permitted by the re-entrancy contract every producer
// call honors), and writes the result back with Set. That recursive
// call is exactly the "lazy child draft bound to the same token" spec
// §4.G describes, made explicit rather than materialized behind the
// scenes.
type Record struct {
	inner *Mapping
}

func NewRecordFromNative(fields []Field, tok *token.Token) *Record {
	entries := make([]MapEntry, len(fields))
	for i, f := range fields {
		entries[i] = MapEntry{Key: f.Name, Val: f.Val}
	}
	return &Record{inner: NewMappingFromNative(entries, tok)}
}

func NewRecordFromIndexed(idx *orderindex.Index, tok *token.Token) *Record {
	return &Record{inner: NewMappingFromIndexed(idx, tok)}
}

func (d *Record) Dirty() bool     { return d.inner.Dirty() }
func (d *Record) IsIndexed() bool { return d.inner.IsIndexed() }
func (d *Record) Len() int        { return d.inner.Len() }

func (d *Record) Get(name string) (any, bool) { return d.inner.Get(name) }
func (d *Record) Has(name string) bool        { return d.inner.Has(name) }
func (d *Record) Set(name string, val any)    { d.inner.Set(name, val) }
func (d *Record) Delete(name string)          { d.inner.Delete(name) }
func (d *Record) Clear()                      { d.inner.Clear() }

// Merge binds every entry of partial, in the given order, as if by
// Set.
func (d *Record) Merge(partial []MapEntry) { d.inner.Merge(partial) }

// Range walks fields in insertion order, stopping early if fn returns
// false.
func (d *Record) Range(fn func(name string, val any) bool) {
	d.inner.Range(func(k, v any) bool { return fn(k.(string), v) })
}

// Fields returns a fresh []Field snapshot in insertion order.
func (d *Record) Fields() []Field {
	out := make([]Field, 0, d.Len())
	d.Range(func(name string, val any) bool {
		out = append(out, Field{Name: name, Val: val})
		return true
	})
	return out
}

// Indexed returns the current indexed map, or nil if this draft is
// still in native mode.
func (d *Record) Indexed() *orderindex.Index { return d.inner.Indexed() }
