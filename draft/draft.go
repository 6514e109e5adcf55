// Package draft implements the draft surface from spec §4.G: the
// object a producer recipe mutates. Go cannot transparently intercept
// arbitrary container syntax the way a dynamic host language's proxy
// can, so there are two concrete draft flavors rather than one proxy:
//
//   - The recording drafts (Sequence, Mapping, Set, Record) expose
//     container-shaped methods a recipe calls directly. They are the
//     draft type behind Produce.
//   - FastOps is the explicit-operation recorder behind ProduceFast: a
//     small vocabulary of Path-addressed operations collected during
//     the recipe and applied afterward through a single ownership
//     token, with no interception at all.
//
// Per spec.md §9's own design note, systems-language implementations
// that cannot cheaply intercept arbitrary operations should make
// ProduceFast the default and treat the recording draft as an
// optional adapter; this package provides both, and the root package's
// Produce/ProduceFast choose between them.
package draft

// Dirty reports whether a recording draft observed any mutation. The
// root package's producer engines use it to implement the hard no-op
// identity short-circuit (spec §4.F): a recipe that mutates nothing
// must return the original input by identity, not a fresh equal copy.
type Dirty interface {
	Dirty() bool
}
