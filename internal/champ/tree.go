// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

package champ

import "math/bits"

// Map is an immutable value: every mutator returns a new Map sharing
// structure with its receiver. The zero Map is not valid; use Empty.
type Map[K, V any] struct {
	cfg  Config
	hash HashFunc[K]
	eq   EqFunc[K]
	root *Node[K, V]
	size int
}

// Empty returns an empty Map keyed by hash/eq under cfg (defaults filled
// in).
func Empty[K, V any](cfg Config, hash HashFunc[K], eq EqFunc[K]) Map[K, V] {
	return Map[K, V]{cfg: cfg.normalize(), hash: hash, eq: eq}
}

// Config reports the map's memory/branching configuration.
func (m Map[K, V]) Config() Config { return m.cfg }

// Size reports the number of entries.
func (m Map[K, V]) Size() int { return m.size }

// Find looks up key, reporting the stored value and whether it was present.
func (m Map[K, V]) Find(key K) (V, bool) {
	return find(m.cfg, m.root, 0, m.hash(key), key, m.eq)
}

// Contains reports whether key is present.
func (m Map[K, V]) Contains(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Set inserts key/value, replacing any prior value for key.
func (m Map[K, V]) Set(key K, value V) (Map[K, V], error) {
	newRoot, isNew, err := insert(m.cfg, m.root, 0, m.hash(key), key, value, m.eq)
	if err != nil {
		return Map[K, V]{}, err
	}
	nm := m
	nm.root = newRoot
	if isNew {
		nm.size = m.size + 1
	}
	return nm, nil
}

// Update replaces the value at key with f(old), where old is the zero
// value of V when key is absent (§4.5).
func (m Map[K, V]) Update(key K, f func(V) V) (Map[K, V], error) {
	cur, _ := m.Find(key)
	return m.Set(key, f(cur))
}

// Erase removes key, reporting whether it was present. m is returned
// unchanged (same value) when key was absent, satisfying the "erase of an
// absent key is a no-op" property (§8).
func (m Map[K, V]) Erase(key K) (Map[K, V], bool, error) {
	newRoot, removed, err := erase(m.cfg, m.root, 0, m.hash(key), key, m.eq)
	if err != nil {
		return Map[K, V]{}, false, err
	}
	if !removed {
		return m, false, nil
	}
	nm := m
	nm.root = newRoot
	nm.size = m.size - 1
	return nm, true, nil
}

// Release tears down m's structure explicitly, mirroring rbt.Tree.Release.
func (m Map[K, V]) Release() {
	release(m.cfg, m.root)
}

// Equal compares two maps for the same size and element set, independent of
// iteration order, using veq to compare values (§8 "CHAMP round-trip" /
// "HashSet equality under permutation").
func Equal[K, V any](a, b Map[K, V], veq func(x, y V) bool) bool {
	if a.size != b.size {
		return false
	}
	it := a.Iterator()
	for it.HasNext() {
		k, v, err := it.Next()
		if err != nil {
			return false
		}
		bv, ok := b.Find(k)
		if !ok || !veq(v, bv) {
			return false
		}
	}
	return true
}

func find[K, V any](cfg Config, n *Node[K, V], depth uint, hash uint64, key K, eq EqFunc[K]) (V, bool) {
	var zero V
	if n == nil {
		return zero, false
	}
	if n.collision != nil {
		if hash != n.collision[0].hash {
			return zero, false
		}
		for _, e := range n.collision {
			if eq(e.key, key) {
				return e.value, true
			}
		}
		return zero, false
	}
	frag := fragment(hash, depth, cfg.B)
	bit := uint32(1) << frag
	if n.datamap&bit != 0 {
		e := n.entries[popIndex(n.datamap, bit)]
		if eq(e.key, key) {
			return e.value, true
		}
		return zero, false
	}
	if n.nodemap&bit != 0 {
		return find(cfg, n.children[popIndex(n.nodemap, bit)], depth+1, hash, key, eq)
	}
	return zero, false
}

// insert returns the subtree rooted at n with key/value inserted or updated,
// and whether key was newly added (as opposed to an existing key whose
// value was replaced).
func insert[K, V any](cfg Config, n *Node[K, V], depth uint, hash uint64, key K, value V, eq EqFunc[K]) (*Node[K, V], bool, error) {
	if n == nil {
		nn, err := newDataNode(cfg, depth, hash, key, value)
		return nn, true, err
	}
	if n.collision != nil {
		if hash == n.collision[0].hash {
			for i, e := range n.collision {
				if eq(e.key, key) {
					newColl := append([]entry[K, V](nil), n.collision...)
					newColl[i] = entry[K, V]{hash: hash, key: key, value: value}
					nn, err := newCollisionNode(cfg, newColl)
					return nn, false, err
				}
			}
			newColl := append(append([]entry[K, V](nil), n.collision...), entry[K, V]{hash: hash, key: key, value: value})
			nn, err := newCollisionNode(cfg, newColl)
			return nn, true, err
		}
		nn, err := splitCollision(cfg, depth, n, hash, key, value)
		return nn, true, err
	}

	frag := fragment(hash, depth, cfg.B)
	bit := uint32(1) << frag

	if n.datamap&bit != 0 {
		idx := popIndex(n.datamap, bit)
		existing := n.entries[idx]
		if eq(existing.key, key) {
			newEntries := append([]entry[K, V](nil), n.entries...)
			newEntries[idx] = entry[K, V]{hash: hash, key: key, value: value}
			nn, err := copyNode(cfg, n.datamap, newEntries, n.nodemap, n.children, -1)
			return nn, false, err
		}
		child, err := mergeTwo(cfg, depth+1, existing, entry[K, V]{hash: hash, key: key, value: value})
		if err != nil {
			return nil, false, err
		}
		childIdx := popIndex(n.nodemap, bit)
		newEntries := removeEntryAt(n.entries, idx)
		newChildren := insertChildAt(n.children, childIdx, child)
		nn, err := copyNode(cfg, n.datamap&^bit, newEntries, n.nodemap|bit, newChildren, childIdx)
		return nn, true, err
	}

	if n.nodemap&bit != 0 {
		childIdx := popIndex(n.nodemap, bit)
		newChild, isNew, err := insert(cfg, n.children[childIdx], depth+1, hash, key, value, eq)
		if err != nil {
			return nil, false, err
		}
		newChildren := append([]*Node[K, V](nil), n.children...)
		newChildren[childIdx] = newChild
		nn, err := copyNode(cfg, n.datamap, n.entries, n.nodemap, newChildren, childIdx)
		return nn, isNew, err
	}

	idx := popIndex(n.datamap, bit)
	newEntries := insertEntryAt(n.entries, idx, entry[K, V]{hash: hash, key: key, value: value})
	nn, err := copyNode(cfg, n.datamap|bit, newEntries, n.nodemap, n.children, -1)
	return nn, true, err
}

// mergeTwo builds a fresh subtree, rooted at depth, holding two entries that
// landed in the same fragment slot of their parent. It recurses one
// fragment level at a time until the entries' fragments diverge, the hash
// bits are exhausted (maxDepth), or the hashes are exactly equal — either of
// the latter two force a collision leaf (invariant 4, §3).
func mergeTwo[K, V any](cfg Config, depth uint, e1, e2 entry[K, V]) (*Node[K, V], error) {
	if depth >= maxDepth(cfg.B) || e1.hash == e2.hash {
		return newCollisionNode(cfg, []entry[K, V]{e1, e2})
	}
	f1 := fragment(e1.hash, depth, cfg.B)
	f2 := fragment(e2.hash, depth, cfg.B)
	if f1 == f2 {
		child, err := mergeTwo(cfg, depth+1, e1, e2)
		if err != nil {
			return nil, err
		}
		return copyNode(cfg, 0, nil, uint32(1)<<f1, []*Node[K, V]{child}, 0)
	}
	entries := []entry[K, V]{e1, e2}
	if f1 > f2 {
		entries[0], entries[1] = e2, e1
	}
	return copyNode(cfg, uint32(1)<<f1|uint32(1)<<f2, entries, 0, nil, -1)
}

// splitCollision handles inserting a key whose hash differs from an
// existing collision bucket's shared hash but whose path led to that
// bucket (the fragments up to depth coincided). It wraps the (unmodified,
// shared) collision node and the new entry apart by their fragment at this
// depth, recursing deeper when those fragments still coincide.
func splitCollision[K, V any](cfg Config, depth uint, collisionChild *Node[K, V], hash uint64, key K, value V) (*Node[K, V], error) {
	existingHash := collisionChild.collision[0].hash
	if depth >= maxDepth(cfg.B) {
		newColl := append(append([]entry[K, V](nil), collisionChild.collision...), entry[K, V]{hash: hash, key: key, value: value})
		return newCollisionNode(cfg, newColl)
	}
	fExisting := fragment(existingHash, depth, cfg.B)
	fNew := fragment(hash, depth, cfg.B)
	if fExisting == fNew {
		child, err := splitCollision(cfg, depth+1, collisionChild, hash, key, value)
		if err != nil {
			return nil, err
		}
		return copyNode(cfg, 0, nil, uint32(1)<<fExisting, []*Node[K, V]{child}, 0)
	}
	entries := []entry[K, V]{{hash: hash, key: key, value: value}}
	children := []*Node[K, V]{collisionChild}
	return copyNode(cfg, uint32(1)<<fNew, entries, uint32(1)<<fExisting, children, -1)
}

// erase returns the subtree rooted at n with key removed. When key was not
// present, n is returned unchanged (same pointer, no allocation) and
// removed is false.
func erase[K, V any](cfg Config, n *Node[K, V], depth uint, hash uint64, key K, eq EqFunc[K]) (*Node[K, V], bool, error) {
	if n == nil {
		return nil, false, nil
	}
	if n.collision != nil {
		if hash != n.collision[0].hash {
			return n, false, nil
		}
		idx := -1
		for i, e := range n.collision {
			if eq(e.key, key) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return n, false, nil
		}
		if len(n.collision) == 1 {
			return nil, true, nil
		}
		nn, err := newCollisionNode(cfg, removeEntryAt(n.collision, idx))
		return nn, true, err
	}

	frag := fragment(hash, depth, cfg.B)
	bit := uint32(1) << frag

	if n.datamap&bit != 0 {
		idx := popIndex(n.datamap, bit)
		if !eq(n.entries[idx].key, key) {
			return n, false, nil
		}
		nn, err := copyNode(cfg, n.datamap&^bit, removeEntryAt(n.entries, idx), n.nodemap, n.children, -1)
		return nn, true, err
	}

	if n.nodemap&bit != 0 {
		childIdx := popIndex(n.nodemap, bit)
		newChild, removed, err := erase(cfg, n.children[childIdx], depth+1, hash, key, eq)
		if err != nil || !removed {
			return n, removed, err
		}
		if newChild == nil {
			newChildren := removeChildAt(n.children, childIdx)
			newNodemap := n.nodemap &^ bit
			if newNodemap == 0 && n.datamap == 0 && len(newChildren) == 0 {
				return nil, true, nil
			}
			nn, err := copyNode(cfg, n.datamap, n.entries, newNodemap, newChildren, -1)
			return nn, true, err
		}
		if sole, ok := soleEntry(newChild); ok {
			newChildren := removeChildAt(n.children, childIdx)
			newNodemap := n.nodemap &^ bit
			insIdx := popIndex(n.datamap, bit)
			newEntries := insertEntryAt(n.entries, insIdx, sole)
			nn, err := copyNode(cfg, n.datamap|bit, newEntries, newNodemap, newChildren, -1)
			return nn, true, err
		}
		newChildren := append([]*Node[K, V](nil), n.children...)
		newChildren[childIdx] = newChild
		nn, err := copyNode(cfg, n.datamap, n.entries, n.nodemap, newChildren, childIdx)
		return nn, true, err
	}

	return n, false, nil
}

// soleEntry reports whether n carries exactly one value and no children —
// the canonicality test that drives erase's inlining step (§4.5 "Erase
// preserves canonicality").
func soleEntry[K, V any](n *Node[K, V]) (entry[K, V], bool) {
	if n.collision != nil {
		if len(n.collision) == 1 {
			return n.collision[0], true
		}
		return entry[K, V]{}, false
	}
	if n.nodemap == 0 && bits.OnesCount32(n.datamap) == 1 {
		return n.entries[0], true
	}
	return entry[K, V]{}, false
}
