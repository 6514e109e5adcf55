// Package stela implements a library of persistent immutable
// collections (Sequence, Mapping, Set, Record) with an adaptive
// native/indexed representation and two producer engines, Produce and
// ProduceFast, that apply a batched recipe of mutations and return a
// new, structurally-shared value.
//
// The index structures backing the indexed representation — a
// wide-branching vector for sequences (internal/rrbvector) and a
// bitmap-compressed hash trie for mappings/sets (internal/hamt), plus an
// insertion-order sidecar (internal/orderindex) — are grounded on the
// popcount-compressed, copy-on-write multibit trie in this repository's
// teacher (github.com/metacubex/bart), generalized from an IP-routing
// table to arbitrary-key collections. See DESIGN.md for the full
// grounding ledger.
package stela

// Kind identifies one of the four value shapes this library recognizes.
// Go has no duck typing, so dispatch on "kind" is this closed tagged
// union rather than a runtime type switch on the source language's
// container types.
type Kind int

const (
	KindSequence Kind = iota
	KindMapping
	KindSet
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "Sequence"
	case KindMapping:
		return "Mapping"
	case KindSet:
		return "Set"
	case KindRecord:
		return "Record"
	default:
		return "Unknown"
	}
}

// Value is implemented by *Sequence, *Mapping, *Set and *Record: the
// four kinds a producer call can dispatch on.
type Value interface {
	Kind() Kind
	Len() int
	IsPersistent() bool
}
