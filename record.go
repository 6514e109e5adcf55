package stela

import (
	"github.com/stela-go/stela/draft"
	"github.com/stela-go/stela/internal/token"
)

// Field is a single property/value pair, used to seed a Record in
// insertion order.
type Field struct {
	Name  string
	Value any
}

// Record is a persistent mapping from string property names to
// arbitrary values, including other Values (nested Sequence/Mapping/
// Set/Record). It is implemented directly on top of Mapping: spec §3
// describes Record as "a mapping from string to arbitrary" with the
// same native/indexed duality, so Record carries an embedded *Mapping
// rather than duplicating its representation and threshold logic.
// Nested values are not drafted automatically: a recipe changes a
// nested child through its own nested producer call (see draft.Record).
type Record struct {
	m *Mapping
}

// NewRecord builds a native Record from fields, preserving their order
// and keeping only the last value for a repeated name.
func NewRecord(fields ...Field) *Record {
	entries := make([]Entry, len(fields))
	for i, f := range fields {
		entries[i] = Entry{Key: f.Name, Val: f.Value}
	}
	return &Record{m: NewMapping(entries...)}
}

func recordFromMapping(m *Mapping) *Record {
	return &Record{m: m}
}

func (r *Record) Kind() Kind { return KindRecord }

func (r *Record) IsPersistent() bool {
	return r != nil && r.m.IsPersistent()
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return r.m.Len()
}

// Get returns the value bound to name, or (nil, false) if absent.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	return r.m.Get(name)
}

// Has reports whether name is bound.
func (r *Record) Has(name string) bool {
	if r == nil {
		return false
	}
	return r.m.Has(name)
}

// Range walks fields in insertion order, stopping early if fn returns
// false.
func (r *Record) Range(fn func(name string, val any) bool) {
	if r == nil {
		return
	}
	r.m.Range(func(k, v any) bool { return fn(k.(string), v) })
}

// Fields returns a fresh []Field snapshot in insertion order.
func (r *Record) Fields() []Field {
	out := make([]Field, 0, r.Len())
	r.Range(func(name string, val any) bool {
		out = append(out, Field{Name: name, Value: val})
		return true
	})
	return out
}

func (r *Record) wrap() *Record {
	if r == nil {
		return r
	}
	return recordFromMapping(r.m.wrap())
}

func (r *Record) unwrap() *Record {
	if r == nil {
		return r
	}
	return recordFromMapping(r.m.unwrap())
}

func (r *Record) withSet(name string, val any, tok *token.Token) *Record {
	nm := r.m.withSet(name, val, tok)
	if nm == r.m {
		return r
	}
	return &Record{m: nm}
}

func (r *Record) withDelete(name string, tok *token.Token) *Record {
	nm := r.m.withDelete(name, tok)
	if nm == r.m {
		return r
	}
	return &Record{m: nm}
}

func (r *Record) withClear() *Record {
	nm := r.m.withClear()
	if nm == r.m {
		return r
	}
	return &Record{m: nm}
}

func (r *Record) withMerge(partial []draft.MapEntry, tok *token.Token) *Record {
	nm := r.m.withMerge(partial, tok)
	if nm == r.m {
		return r
	}
	return &Record{m: nm}
}
