// Package hamt implements the persistent bitmap hash-array-mapped trie
// described in spec §4.D: lookup/insert/update/remove/size over
// (key, value) pairs with branch/leaf/collision nodes, structural
// sharing, and the identity short-circuits the producer engines rely on
// to detect "no change". Grounded on the teacher's
// internal/sparse.Array[T] (popcount-compressed dense slot array) for the
// branch shape and node[V]'s copy-on-write recursion for the mutating
// operations.
package hamt

import (
	"github.com/stela-go/stela/internal/bitutil"
	"github.com/stela-go/stela/internal/token"
)

// Map is the indexed representation of a Mapping or ElementSet (a Map
// whose values are all the same marker). The zero value is an empty map.
type Map struct {
	root node
	size int
}

// Size returns the number of entries.
func (m *Map) Size() int {
	if m == nil {
		return 0
	}
	return m.size
}

// Lookup returns the value stored for key, if any.
func (m *Map) Lookup(key any) (val any, ok bool) {
	if m == nil {
		return nil, false
	}
	return lookup(m.root, bitutil.Hash32(key), key, 0)
}

// Contains reports whether key is present.
func (m *Map) Contains(key any) bool {
	_, ok := m.Lookup(key)
	return ok
}

func lookup(n node, hash uint32, key any, depth uint) (any, bool) {
	switch t := n.(type) {
	case nil:
		return nil, false
	case *leaf:
		if t.hash == hash && keyEqual(t.key, key) {
			return t.value, true
		}
		return nil, false
	case *collision:
		if t.hash != hash {
			return nil, false
		}
		for _, e := range t.entries {
			if keyEqual(e.key, key) {
				return e.value, true
			}
		}
		return nil, false
	case *branch:
		c := chunkAt(hash, depth)
		if t.bitmap&(1<<c) == 0 {
			return nil, false
		}
		idx := bitutil.Popcount32(t.bitmap & ((1 << c) - 1))
		return lookup(t.children[idx], hash, key, depth+1)
	default:
		return nil, false
	}
}

// Insert returns a new Map with key bound to val. If key is already
// bound to a value equal (==) to val, the identical Map is returned by
// identity (spec §4.D "identity short-circuits").
func (m *Map) Insert(key, val any, tok *token.Token) *Map {
	if m == nil {
		m = &Map{}
	}
	newRoot, grew := insert(m.root, bitutil.Hash32(key), key, val, 0, tok)
	if newRoot == m.root {
		return m
	}
	size := m.size
	if grew {
		size++
	}
	return &Map{root: newRoot, size: size}
}

// Update returns a new Map with key bound to fn(oldVal, existed). Size
// is unchanged if key was already present.
func (m *Map) Update(key any, fn func(old any, ok bool) any, tok *token.Token) *Map {
	old, ok := m.Lookup(key)
	return m.Insert(key, fn(old, ok), tok)
}

// Remove returns a new Map without key. If key was absent, the
// identical Map is returned by identity.
func (m *Map) Remove(key any, tok *token.Token) *Map {
	if m == nil {
		return m
	}
	newRoot, removed := remove(m.root, bitutil.Hash32(key), key, 0, tok)
	if !removed {
		return m
	}
	return &Map{root: newRoot, size: m.size - 1}
}

func insert(n node, hash uint32, key, val any, depth uint, tok *token.Token) (node, bool) {
	switch t := n.(type) {
	case nil:
		return &leaf{owner: tok, hash: hash, key: key, value: val}, true

	case *leaf:
		if t.hash == hash && keyEqual(t.key, key) {
			if valueEqual(t.value, val) {
				return t, false
			}
			nl := cloneLeaf(t, tok)
			nl.value = val
			return nl, false
		}
		return mergeLeaves(depth, t, &leaf{hash: hash, key: key, value: val}, tok), true

	case *collision:
		if t.hash != hash {
			return splitCollision(depth, t, &leaf{hash: hash, key: key, value: val}, tok), true
		}
		for i, e := range t.entries {
			if keyEqual(e.key, key) {
				if valueEqual(e.value, val) {
					return t, false
				}
				nc := cloneCollision(t, tok)
				nc.entries[i] = entry{key, val}
				return nc, false
			}
		}
		nc := cloneCollision(t, tok)
		nc.entries = append(nc.entries, entry{key, val})
		return nc, true

	case *branch:
		c := chunkAt(hash, depth)
		idx := int(bitutil.Popcount32(t.bitmap & ((1 << c) - 1)))
		if t.bitmap&(1<<c) == 0 {
			nb := cloneBranch(t, tok)
			nb.bitmap |= 1 << c
			nb.children = insertChildAt(nb.children, idx, &leaf{owner: tok, hash: hash, key: key, value: val})
			return nb, true
		}
		child := t.children[idx]
		newChild, grew := insert(child, hash, key, val, depth+1, tok)
		if newChild == child {
			return t, false
		}
		nb := cloneBranch(t, tok)
		nb.children[idx] = newChild
		return nb, grew

	default:
		panic("hamt: unreachable node type")
	}
}

// splitCollision handles inserting a leaf whose hash differs from an
// existing collision node's shared hash: the two subtrees must diverge
// at some depth at or below the current one, since by construction a
// collision node's entries all share every bit of their hash.
func splitCollision(depth uint, existing *collision, incoming *leaf, tok *token.Token) node {
	if depth*chunkBits >= 32 {
		// Hash space exhausted without a divergent chunk: fold the new
		// entry into the collision bucket directly (extremely rare).
		nc := cloneCollision(existing, tok)
		nc.hash = incoming.hash
		nc.entries = append(nc.entries, entry{incoming.key, incoming.value})
		return nc
	}
	c1 := chunkAt(existing.hash, depth)
	c2 := chunkAt(incoming.hash, depth)
	if c1 == c2 {
		child := splitCollision(depth+1, existing, incoming, tok)
		return &branch{owner: tok, bitmap: 1 << c1, children: []node{child}}
	}
	b := &branch{owner: tok, bitmap: (1 << c1) | (1 << c2)}
	if c1 < c2 {
		b.children = []node{existing, incoming}
	} else {
		b.children = []node{incoming, existing}
	}
	return b
}

func remove(n node, hash uint32, key any, depth uint, tok *token.Token) (node, bool) {
	switch t := n.(type) {
	case nil:
		return nil, false

	case *leaf:
		if t.hash == hash && keyEqual(t.key, key) {
			return nil, true
		}
		return t, false

	case *collision:
		if t.hash != hash {
			return t, false
		}
		for i, e := range t.entries {
			if !keyEqual(e.key, key) {
				continue
			}
			if len(t.entries) == 2 {
				// Demote to a plain leaf (spec §4.D delete: "at a
				// collision, remove the entry and demote to a leaf if
				// only one remains").
				other := t.entries[1-i]
				return &leaf{owner: tok, hash: t.hash, key: other.key, value: other.value}, true
			}
			nc := cloneCollision(t, tok)
			nc.entries = append(nc.entries[:i:i], t.entries[i+1:]...)
			return nc, true
		}
		return t, false

	case *branch:
		c := chunkAt(hash, depth)
		if t.bitmap&(1<<c) == 0 {
			return t, false
		}
		idx := int(bitutil.Popcount32(t.bitmap & ((1 << c) - 1)))
		newChild, removed := remove(t.children[idx], hash, key, depth+1, tok)
		if !removed {
			return t, false
		}
		if newChild == nil {
			if len(t.children) == 1 {
				return nil, true
			}
			nb := cloneBranch(t, tok)
			nb.bitmap &^= 1 << c
			nb.children = deleteChildAt(nb.children, idx)
			return compress(nb), true
		}
		nb := cloneBranch(t, tok)
		nb.children[idx] = newChild
		return compress(nb), true

	default:
		panic("hamt: unreachable node type")
	}
}

// compress implements spec §3's node-compression invariant: a branch
// reduced to a single child that is a leaf is equivalent to, and is
// replaced by, that leaf one level higher.
func compress(b *branch) node {
	if len(b.children) == 1 {
		if lf, ok := b.children[0].(*leaf); ok {
			return lf
		}
	}
	return b
}

// Range calls fn for every (key, value) pair in hash order (not
// insertion order — callers that need insertion order go through
// internal/orderindex). Stops early if fn returns false.
func (m *Map) Range(fn func(key, value any) bool) {
	if m == nil {
		return
	}
	rangeNode(m.root, fn)
}

func rangeNode(n node, fn func(key, value any) bool) bool {
	switch t := n.(type) {
	case nil:
		return true
	case *leaf:
		return fn(t.key, t.value)
	case *collision:
		for _, e := range t.entries {
			if !fn(e.key, e.value) {
				return false
			}
		}
		return true
	case *branch:
		for _, child := range t.children {
			if !rangeNode(child, fn) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
