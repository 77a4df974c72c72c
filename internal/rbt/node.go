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

package rbt

import (
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/noderef"
	"github.com/hamtree/persist/internal/xlog"
)

// Node is either a leaf (holding up to bf() elements directly) or an inner
// node (holding up to bf() children). An inner node is "relaxed" when sizes
// is non-nil: a cumulative count per child, needed whenever a descendant
// isn't completely full (invariant 1, §3). Regular inner nodes leave sizes
// nil and are indexed by shift/mask arithmetic alone.
type Node[T any] struct {
	noderef.Header
	handle memory.Handle

	leaf     bool
	children []*Node[T]
	values   []T
	sizes    []uint32
}

func newLeaf[T any](cfg Config, values []T) (*Node[T], error) {
	h, err := cfg.Policy.Heap.Allocate(memory.TagLeaf, len(values))
	if err != nil {
		return nil, err
	}
	xlog.Trace("rbt: node allocated", "variant", "leaf", "count", len(values))
	cfg.Metrics.NodeAllocated("rbt", "leaf")
	return &Node[T]{
		Header: noderef.NewHeader(cfg.Policy.Refcount),
		handle: h,
		leaf:   true,
		values: values,
	}, nil
}

func newInner[T any](cfg Config, children []*Node[T], sizes []uint32) (*Node[T], error) {
	h, err := cfg.Policy.Heap.Allocate(memory.TagInner, len(children))
	if err != nil {
		return nil, err
	}
	xlog.Trace("rbt: node allocated", "variant", "inner", "children", len(children), "relaxed", sizes != nil)
	cfg.Metrics.NodeAllocated("rbt", "inner")
	return &Node[T]{
		Header:   noderef.NewHeader(cfg.Policy.Refcount),
		handle:   h,
		children: children,
		sizes:    sizes,
	}, nil
}

// release walks n and its descendants with an explicit work-list (invariant
// 5: no recursive teardown, so a 2^20-deep spine can't blow the goroutine
// stack), deallocating each node's heap cell once its refcount reaches zero.
// Go's garbage collector remains the actual memory reclaimer; this bookkeeping
// keeps Heap.Stats() and the released-node metric in step with releases, and
// runs the same way under every RefcountMode.
func release[T any](cfg Config, n *Node[T]) {
	if n == nil {
		return
	}
	stack := []*Node[T]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		if cur.Release() {
			cfg.Policy.Heap.Deallocate(cur.handle)
			xlog.Trace("rbt: node released", "leaf", cur.leaf)
			cfg.Metrics.NodeReleased("rbt")
			if !cur.leaf {
				stack = append(stack, cur.children...)
			}
		}
	}
}

func retainAllExcept[T any](children []*Node[T], except int) {
	for i, c := range children {
		if i != except && c != nil {
			c.Retain()
		}
	}
}

// childIndex locates, within inner node n at the given shift, which child
// index holds global offset idx and what idx becomes relative to that
// child. Regular nodes use shift/mask arithmetic; relaxed nodes scan the
// size table for the smallest cumulative count exceeding idx (§4.4).
func childIndex[T any](n *Node[T], shift uint, idx int, cfg Config) (int, int) {
	if n.sizes == nil {
		ci := (idx >> shift) & cfg.mask()
		base := ci << shift
		return ci, idx - base
	}
	ci := 0
	for ci < len(n.sizes)-1 && int(n.sizes[ci]) <= idx {
		ci++
	}
	prev := 0
	if ci > 0 {
		prev = int(n.sizes[ci-1])
	}
	return ci, idx - prev
}

// collectLeaves returns, in left-to-right order, pointers to every leaf in
// the subtree rooted at n (nil for an empty tree).
func collectLeaves[T any](n *Node[T]) []*Node[T] {
	if n == nil {
		return nil
	}
	if n.leaf {
		return []*Node[T]{n}
	}
	var out []*Node[T]
	for _, c := range n.children {
		out = append(out, collectLeaves(c)...)
	}
	return out
}
