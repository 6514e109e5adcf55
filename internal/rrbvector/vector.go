// Package rrbvector implements the persistent sequence index described in
// spec §4.C: a wide-branching (32-way) balanced tree with a tail buffer
// for the most recent appends, supporting index read/write, push, pop,
// slice and concat. Mutation during one producer call is authorized by an
// ownership token (internal/token); without a matching token every write
// copies its path instead of mutating in place.
package rrbvector

import (
	"fmt"

	"github.com/stela-go/stela/internal/token"
)

// Vector is the indexed representation of a Sequence.
//
// Invariants (spec §3): count >= 0; indices in [0, treeCount) are
// addressed by root/shift, [treeCount, count) by tail; len(tail) <= 32;
// treeCount = count - len(tail).
type Vector struct {
	count     int
	shift     uint
	root      *node
	tail      []any
	treeCount int
	tailOwner *token.Token
}

// Empty is the zero-length vector, safe to share. shift starts at
// branchBits (not 0) even though root is nil, so the tree always has a
// uniform two-level minimum shape the moment it's needed; this mirrors
// the canonical persistent-vector shape the teacher's own node[V] assumes
// implicitly by always operating at a fixed stride.
var Empty = &Vector{shift: branchBits}

// Len returns the number of elements.
func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return v.count
}

func (v *Vector) tailOff() int {
	return v.count - len(v.tail)
}

// Get returns the element at i, or !ok if i is out of range.
func (v *Vector) Get(i int) (val any, ok bool) {
	if v == nil || i < 0 || i >= v.count {
		return nil, false
	}
	if i >= v.tailOff() {
		return v.tail[i-v.tailOff()], true
	}
	n := v.root
	for shift := v.shift; shift > 0; shift -= branchBits {
		n = n.child((uint(i) >> shift) & branchMask)
	}
	return n.slots[uint(i)&branchMask], true
}

// Set returns a new vector with the element at i replaced by val. i must
// be in [0, Len()); out of range is a boundary violation (spec §4.C/§7).
func (v *Vector) Set(i int, val any, tok *token.Token) (*Vector, error) {
	if v == nil || i < 0 || i >= v.count {
		return v, fmt.Errorf("rrbvector: Set index %d out of range [0,%d)", i, v.Len())
	}
	if i >= v.tailOff() {
		newTail := cowSetSlice(v.tail, i-v.tailOff(), val, v.tailOwner, tok)
		return &Vector{
			count: v.count, shift: v.shift, root: v.root,
			tail: newTail, treeCount: v.treeCount, tailOwner: tailOwnerAfter(v.tailOwner, tok),
		}, nil
	}
	newRoot := doAssoc(v.shift, v.root, uint(i), val, tok)
	return &Vector{
		count: v.count, shift: v.shift, root: newRoot,
		tail: v.tail, treeCount: v.treeCount, tailOwner: v.tailOwner,
	}, nil
}

func doAssoc(shift uint, n *node, i uint, val any, tok *token.Token) *node {
	newNode := n.cloneOrUse(tok)
	if shift == 0 {
		newNode.slots[i&branchMask] = val
		return newNode
	}
	sub := (i >> shift) & branchMask
	newNode.slots[sub] = doAssoc(shift-branchBits, n.child(sub), i, val, tok)
	return newNode
}

// Push appends val, returning the new vector of length Len()+1.
func (v *Vector) Push(val any, tok *token.Token) *Vector {
	if v == nil {
		v = Empty
	}
	if len(v.tail) < branchFactor {
		newTail := cowAppendSlice(v.tail, val, v.tailOwner, tok)
		return &Vector{
			count: v.count + 1, shift: v.shift, root: v.root,
			tail: newTail, treeCount: v.treeCount, tailOwner: tailOwnerAfter(v.tailOwner, tok),
		}
	}

	tailNode := &node{owner: tok}
	copy(tailNode.slots[:], v.tail)

	var newRoot *node
	newShift := v.shift
	if (v.treeCount >> branchBits) >= (1 << v.shift) {
		newRoot = &node{owner: tok}
		newRoot.slots[0] = v.root
		newRoot.slots[1] = newPath(v.shift, tailNode, tok)
		newShift = v.shift + branchBits
	} else {
		newRoot = pushTail(v.shift, v.root, v.treeCount, tailNode, tok)
	}

	return &Vector{
		count: v.count + 1, shift: newShift, root: newRoot,
		tail: []any{val}, treeCount: v.treeCount + len(v.tail), tailOwner: tok,
	}
}

func pushTail(shift uint, parent *node, treeCount int, tailNode *node, tok *token.Token) *node {
	newNode := parent.cloneOrUse(tok)
	// treeCount is always a multiple of branchFactor (leaves are only
	// ever flushed whole), so it is exactly the index of the new leaf's
	// first element; unlike popTail below, this must not subtract 1.
	sub := (uint(treeCount) >> shift) & branchMask
	if shift == branchBits {
		newNode.slots[sub] = tailNode
		return newNode
	}
	child := parent.child(sub)
	if child == nil {
		newNode.slots[sub] = newPath(shift-branchBits, tailNode, tok)
	} else {
		newNode.slots[sub] = pushTail(shift-branchBits, child, treeCount, tailNode, tok)
	}
	return newNode
}

// Pop removes the last element. If the vector is empty, Pop is a no-op
// and returns (v, false) per spec §4.C ("count = 0 -> absence/no-op").
func (v *Vector) Pop(tok *token.Token) (*Vector, bool) {
	if v.Len() == 0 {
		return v, false
	}
	if v.count == 1 {
		return Empty, true
	}
	if len(v.tail) > 1 {
		newTail := cowDropLastSlice(v.tail, v.tailOwner, tok)
		return &Vector{
			count: v.count - 1, shift: v.shift, root: v.root,
			tail: newTail, treeCount: v.treeCount, tailOwner: tailOwnerAfter(v.tailOwner, tok),
		}, true
	}

	// Tail has exactly one element: pull the rightmost leaf (32 full
	// elements) out of the tree to become the new tail.
	newTail := make([]any, branchFactor)
	leafPath(v.shift, v.root, uint(v.treeCount-1), newTail)

	newRoot := popTail(v.shift, v.root, v.treeCount, tok)
	newShift := v.shift
	if newRoot == nil {
		newRoot = &node{}
	} else if newShift > branchBits {
		if _, ok := newRoot.slots[1].(*node); !ok {
			newRoot = newRoot.child(0)
			newShift -= branchBits
		}
	}

	return &Vector{
		count: v.count - 1, shift: newShift, root: newRoot,
		tail: newTail, treeCount: v.treeCount - branchFactor, tailOwner: tok,
	}, true
}

// leafPath copies the leaf containing index i (found by descending from
// shift) into dst.
func leafPath(shift uint, n *node, i uint, dst []any) {
	for ; shift > 0; shift -= branchBits {
		n = n.child((i >> shift) & branchMask)
	}
	copy(dst, n.slots[:])
}

func popTail(shift uint, n *node, treeCount int, tok *token.Token) *node {
	sub := (uint(treeCount-1) >> shift) & branchMask
	if shift > branchBits {
		child := popTail(shift-branchBits, n.child(sub), treeCount, tok)
		if child == nil && sub == 0 {
			return nil
		}
		newNode := n.cloneOrUse(tok)
		newNode.slots[sub] = child
		return newNode
	}
	if sub == 0 {
		return nil
	}
	newNode := n.cloneOrUse(tok)
	newNode.slots[sub] = nil
	return newNode
}

func tailOwnerAfter(prevOwner, tok *token.Token) *token.Token {
	if tok != nil && token.Matches(prevOwner, tok) {
		return prevOwner
	}
	return tok
}

func cowAppendSlice(s []any, val any, owner, tok *token.Token) []any {
	if tok != nil && token.Matches(owner, tok) && len(s) < cap(s) {
		s = s[:len(s)+1]
		s[len(s)-1] = val
		return s
	}
	out := make([]any, len(s), branchFactor)
	copy(out, s)
	return append(out, val)
}

func cowSetSlice(s []any, i int, val any, owner, tok *token.Token) []any {
	if tok != nil && token.Matches(owner, tok) {
		s[i] = val
		return s
	}
	out := make([]any, len(s))
	copy(out, s)
	out[i] = val
	return out
}

func cowDropLastSlice(s []any, owner, tok *token.Token) []any {
	if tok != nil && token.Matches(owner, tok) {
		s[len(s)-1] = nil
		return s[:len(s)-1]
	}
	out := make([]any, len(s)-1)
	copy(out, s[:len(s)-1])
	return out
}

// Slice returns a new vector holding elements [lo, hi).
func (v *Vector) Slice(lo, hi int) (*Vector, error) {
	n := v.Len()
	if lo < 0 || hi < lo || hi > n {
		return v, fmt.Errorf("rrbvector: Slice(%d,%d) out of range [0,%d]", lo, hi, n)
	}
	out := Empty
	for i := lo; i < hi; i++ {
		val, _ := v.Get(i)
		out = out.Push(val, nil)
	}
	return out, nil
}

// Concat appends other after v. Spec §4.C: an O(n) fallback is
// acceptable; relaxed-radix concatenation is not required.
func (v *Vector) Concat(other *Vector) *Vector {
	out := v
	if out == nil {
		out = Empty
	}
	tok := token.New()
	for i := 0; i < other.Len(); i++ {
		val, _ := other.Get(i)
		out = out.Push(val, tok)
	}
	return out
}

// FromSlice builds an indexed vector from a native slice.
func FromSlice(xs []any) *Vector {
	out := Empty
	tok := token.New()
	for _, x := range xs {
		out = out.Push(x, tok)
	}
	return out
}

// ToSlice returns every element as a fresh native slice.
func (v *Vector) ToSlice() []any {
	n := v.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i], _ = v.Get(i)
	}
	return out
}
