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

import (
	"math/bits"

	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/noderef"
	"github.com/hamtree/persist/internal/xlog"
)

type entry[K, V any] struct {
	hash  uint64
	key   K
	value V
}

// Node is either a bitmap node (datamap/nodemap set, collision nil) or a
// collision bucket (collision non-nil, datamap/nodemap/entries/children
// unused). A bitmap node's entries are ordered by the popcount index of
// their datamap bit, and children by the popcount index of their nodemap
// bit — the "compressed" part of CHAMP: a node with k live slots allocates
// exactly k entry/child cells, not 32.
type Node[K, V any] struct {
	noderef.Header
	handle memory.Handle

	datamap  uint32
	nodemap  uint32
	entries  []entry[K, V]
	children []*Node[K, V]

	collision []entry[K, V]
}

func popIndex(bitmap, bitpos uint32) int {
	return bits.OnesCount32(bitmap & (bitpos - 1))
}

func retainAllExcept[K, V any](children []*Node[K, V], except int) {
	for i, c := range children {
		if i != except && c != nil {
			c.Retain()
		}
	}
}

func newDataNode[K, V any](cfg Config, depth uint, hash uint64, key K, value V) (*Node[K, V], error) {
	frag := fragment(hash, depth, cfg.B)
	h, err := cfg.Policy.Heap.Allocate(memory.TagLeaf, 1)
	if err != nil {
		return nil, err
	}
	xlog.Trace("champ: node allocated", "variant", "data")
	cfg.Metrics.NodeAllocated("champ", "data")
	return &Node[K, V]{
		Header:  noderef.NewHeader(cfg.Policy.Refcount),
		handle:  h,
		datamap: uint32(1) << frag,
		entries: []entry[K, V]{{hash: hash, key: key, value: value}},
	}, nil
}

func newCollisionNode[K, V any](cfg Config, entries []entry[K, V]) (*Node[K, V], error) {
	h, err := cfg.Policy.Heap.Allocate(memory.TagCollision, len(entries))
	if err != nil {
		return nil, err
	}
	xlog.Debug("champ: collision bucket formed", "count", len(entries))
	cfg.Metrics.NodeAllocated("champ", "collision")
	return &Node[K, V]{
		Header:    noderef.NewHeader(cfg.Policy.Refcount),
		handle:    h,
		collision: entries,
	}, nil
}

func copyNode[K, V any](cfg Config, datamap uint32, entries []entry[K, V], nodemap uint32, children []*Node[K, V], except int) (*Node[K, V], error) {
	h, err := cfg.Policy.Heap.Allocate(memory.TagInner, len(entries)+len(children))
	if err != nil {
		return nil, err
	}
	retainAllExcept(children, except)
	xlog.Trace("champ: node allocated", "variant", "bitmap", "entries", len(entries), "children", len(children))
	cfg.Metrics.NodeAllocated("champ", "bitmap")
	return &Node[K, V]{
		Header:   noderef.NewHeader(cfg.Policy.Refcount),
		handle:   h,
		datamap:  datamap,
		nodemap:  nodemap,
		entries:  entries,
		children: children,
	}, nil
}

// release walks n and its descendants with an explicit work-list, mirroring
// rbt's non-recursive teardown (invariant 5).
func release[K, V any](cfg Config, n *Node[K, V]) {
	if n == nil {
		return
	}
	stack := []*Node[K, V]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		if cur.Release() {
			cfg.Policy.Heap.Deallocate(cur.handle)
			xlog.Trace("champ: node released")
			cfg.Metrics.NodeReleased("champ")
			stack = append(stack, cur.children...)
		}
	}
}

func insertEntryAt[K, V any](s []entry[K, V], idx int, e entry[K, V]) []entry[K, V] {
	out := make([]entry[K, V], len(s)+1)
	copy(out, s[:idx])
	out[idx] = e
	copy(out[idx+1:], s[idx:])
	return out
}

func removeEntryAt[K, V any](s []entry[K, V], idx int) []entry[K, V] {
	out := make([]entry[K, V], len(s)-1)
	copy(out, s[:idx])
	copy(out[idx:], s[idx+1:])
	return out
}

func insertChildAt[K, V any](s []*Node[K, V], idx int, n *Node[K, V]) []*Node[K, V] {
	out := make([]*Node[K, V], len(s)+1)
	copy(out, s[:idx])
	out[idx] = n
	copy(out[idx+1:], s[idx:])
	return out
}

func removeChildAt[K, V any](s []*Node[K, V], idx int) []*Node[K, V] {
	out := make([]*Node[K, V], len(s)-1)
	copy(out, s[:idx])
	copy(out[idx:], s[idx+1:])
	return out
}
