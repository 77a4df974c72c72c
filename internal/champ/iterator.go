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

import "github.com/hamtree/persist/internal/xerr"

// frame is one (node, slot_index) pair of the iterator's explicit path
// stack (§4.5 "Iterator contract"). offset is the cumulative slot offset at
// this depth, maintained only when the owning Config's Relocation flag is
// set; it exists so a relocation-tracking policy could re-anchor an
// iterator after a moving collector rewrote node pointers. Plain Go values
// never move, so offset is bookkeeping only here, not a correctness
// mechanism.
type frame[K, V any] struct {
	node   *Node[K, V]
	dataI  int
	childI int
	offset int
}

// Iterator walks a Map's entries in an unspecified order (§4.5, §9 "no
// order guarantee"); two iterators over the same Map visit the same
// entries, but nothing should depend on the order.
type Iterator[K, V any] struct {
	track bool
	stack []frame[K, V]
}

// Iterator returns a fresh iterator over m.
func (m Map[K, V]) Iterator() *Iterator[K, V] {
	it := &Iterator[K, V]{track: m.cfg.Policy.Relocation}
	if m.root != nil {
		it.stack = []frame[K, V]{{node: m.root}}
	}
	return it
}

// HasNext reports whether Next would succeed.
func (it *Iterator[K, V]) HasNext() bool {
	return len(it.stack) > 0
}

// Next returns the next key/value pair. Data slots are yielded before a
// node's children are descended into (§4.5).
func (it *Iterator[K, V]) Next() (K, V, error) {
	var zk K
	var zv V
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		n := top.node
		if n.collision != nil {
			if top.dataI < len(n.collision) {
				e := n.collision[top.dataI]
				top.dataI++
				if top.dataI >= len(n.collision) {
					it.stack = it.stack[:len(it.stack)-1]
				}
				return e.key, e.value, nil
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		if top.dataI < len(n.entries) {
			e := n.entries[top.dataI]
			top.dataI++
			return e.key, e.value, nil
		}
		if top.childI < len(n.children) {
			child := n.children[top.childI]
			offset := top.offset
			if it.track {
				offset += top.childI
			}
			top.childI++
			it.stack = append(it.stack, frame[K, V]{node: child, offset: offset})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return zk, zv, xerr.ErrOutOfRange
}
