package draft

// Path addresses a location inside a (possibly nested) value: a
// sequence of string field names (through records), integer indices
// (through sequences), or raw keys (through mappings). A top-level
// produce_fast call against a bare Sequence/Mapping/Set addresses its
// own elements with a one-segment Path; a Record call can thread a
// Path arbitrarily deep through nested records, mappings and
// sequences.
type Path []any

// OpKind identifies one of the ten operations spec §4.G's explicit
// draft vocabulary supports.
type OpKind int

const (
	OpSet OpKind = iota
	OpUpdate
	OpDelete
	OpMerge
	OpPush
	OpSplice
	OpFilter
	OpPop
	OpAdd
	OpClear
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpMerge:
		return "merge"
	case OpPush:
		return "push"
	case OpSplice:
		return "splice"
	case OpFilter:
		return "filter"
	case OpPop:
		return "pop"
	case OpAdd:
		return "add"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Op is one recorded operation. Set/Update/Delete address a (parent,
// key) pair — Path is the parent's path with the key as its last
// segment. Merge/Push/Splice/Filter/Pop/Add/Clear address a container
// as a whole — Path names the container itself.
type Op struct {
	Kind OpKind
	Path Path

	Value any            // OpSet
	Fn    func(any) any  // OpUpdate
	Merge []MapEntry     // OpMerge, applied in order
	Keep  func(any) bool // OpFilter

	SpliceStart       int   // OpSplice
	SpliceDeleteCount int   // OpSplice
	SpliceInserts     []any // OpSplice
}

// FastOps collects operations for one produce_fast recipe. It is the
// explicit-operation draft: a plain recorder, with no proxy and no
// interception, matching spec.md §9's guidance that a systems-language
// implementation should make this the primary surface.
type FastOps struct {
	ops []Op
}

// NewFastOps returns an empty operation recorder.
func NewFastOps() *FastOps { return &FastOps{} }

// Ops returns the recorded operations in recipe order.
func (f *FastOps) Ops() []Op { return f.ops }

// Set records binding the key at the end of path, within the
// container named by path's other segments, to v.
func (f *FastOps) Set(path Path, v any) {
	f.ops = append(f.ops, Op{Kind: OpSet, Path: path, Value: v})
}

// Update records rebinding the key at the end of path to fn(old).
func (f *FastOps) Update(path Path, fn func(old any) any) {
	f.ops = append(f.ops, Op{Kind: OpUpdate, Path: path, Fn: fn})
}

// Delete records removing the key at the end of path.
func (f *FastOps) Delete(path Path) {
	f.ops = append(f.ops, Op{Kind: OpDelete, Path: path})
}

// Merge records merging partial's bindings into the mapping/record
// named by path, applied in the given order. Taking an ordered entry
// list rather than a Go map keeps the order in which new keys are
// introduced deterministic (spec §8 property 6 — a map's iteration
// order is randomized per run and would make the merged key order
// unspecified between identical calls).
func (f *FastOps) Merge(path Path, partial []MapEntry) {
	f.ops = append(f.ops, Op{Kind: OpMerge, Path: path, Merge: partial})
}

// Push records appending v to the sequence named by path.
func (f *FastOps) Push(path Path, v any) {
	f.ops = append(f.ops, Op{Kind: OpPush, Path: path, Value: v})
}

// Pop records dropping the last element of the sequence named by
// path.
func (f *FastOps) Pop(path Path) {
	f.ops = append(f.ops, Op{Kind: OpPop, Path: path})
}

// Splice records removing deleteCount elements starting at start and
// inserting the given elements, within the sequence named by path.
func (f *FastOps) Splice(path Path, start, deleteCount int, inserts ...any) {
	f.ops = append(f.ops, Op{
		Kind: OpSplice, Path: path,
		SpliceStart: start, SpliceDeleteCount: deleteCount, SpliceInserts: inserts,
	})
}

// Filter records keeping only elements of the sequence named by path
// for which keep returns true.
func (f *FastOps) Filter(path Path, keep func(v any) bool) {
	f.ops = append(f.ops, Op{Kind: OpFilter, Path: path, Keep: keep})
}

// Add records inserting v into the set named by path.
func (f *FastOps) Add(path Path, v any) {
	f.ops = append(f.ops, Op{Kind: OpAdd, Path: path, Value: v})
}

// Clear records emptying the mapping/set/record named by path.
func (f *FastOps) Clear(path Path) {
	f.ops = append(f.ops, Op{Kind: OpClear, Path: path})
}
