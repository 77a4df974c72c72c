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
	"github.com/hamtree/persist/internal/xerr"
	"github.com/hamtree/persist/internal/xlog"
)

// Tree is an immutable value: every mutator returns a new Tree sharing
// structure with its receiver. The zero Tree is not valid; use Empty.
type Tree[T any] struct {
	cfg     Config
	root    *Node[T]
	shift   uint
	tail    []T
	size    int
	relaxed bool // true once any size table has ever been introduced
}

// Empty returns an empty tree under cfg (defaults filled in).
func Empty[T any](cfg Config) Tree[T] {
	return Tree[T]{cfg: cfg.normalize()}
}

// Config reports the tree's memory/branching configuration.
func (t Tree[T]) Config() Config { return t.cfg }

// Size reports the number of elements.
func (t Tree[T]) Size() int { return t.size }

// IsRelaxed reports whether any node in the tree carries a size table.
// PushBack, PopBack and Set never introduce one; Take, Drop, Concat, Insert
// and Erase rebuild the tree from chunks and can, including BVec's Take.
func (t Tree[T]) IsRelaxed() bool { return t.relaxed }

func (t Tree[T]) treeSize() int { return t.size - len(t.tail) }

// At returns the element at index i.
func (t Tree[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= t.size {
		return zero, xerr.ErrOutOfRange
	}
	ts := t.treeSize()
	if i >= ts {
		return t.tail[i-ts], nil
	}
	n := t.root
	shift := t.shift
	idx := i
	for !n.leaf {
		ci, newIdx := childIndex(n, shift, idx, t.cfg)
		n = n.children[ci]
		idx = newIdx
		shift -= t.cfg.B
	}
	return n.values[idx], nil
}

// Update replaces the element at index i with f(old), sharing every node
// off the root-to-leaf path.
func (t Tree[T]) Update(i int, f func(T) T) (Tree[T], error) {
	if i < 0 || i >= t.size {
		return Tree[T]{}, xerr.ErrOutOfRange
	}
	ts := t.treeSize()
	nt := t
	if i >= ts {
		newTail := append([]T(nil), t.tail...)
		newTail[i-ts] = f(newTail[i-ts])
		nt.tail = newTail
		return nt, nil
	}
	newRoot, err := updatePath(t.cfg, t.root, t.shift, i, f)
	if err != nil {
		return Tree[T]{}, err
	}
	nt.root = newRoot
	return nt, nil
}

// Set replaces the element at index i with v.
func (t Tree[T]) Set(i int, v T) (Tree[T], error) {
	return t.Update(i, func(T) T { return v })
}

func updatePath[T any](cfg Config, n *Node[T], shift uint, idx int, f func(T) T) (*Node[T], error) {
	if n.leaf {
		values := append([]T(nil), n.values...)
		values[idx] = f(values[idx])
		return newLeaf(cfg, values)
	}
	ci, newIdx := childIndex(n, shift, idx, cfg)
	newChild, err := updatePath(cfg, n.children[ci], shift-cfg.B, newIdx, f)
	if err != nil {
		return nil, err
	}
	children := make([]*Node[T], len(n.children))
	copy(children, n.children)
	children[ci] = newChild
	retainAllExcept(n.children, ci)
	var sizes []uint32
	if n.sizes != nil {
		sizes = make([]uint32, len(n.sizes))
		copy(sizes, n.sizes)
	}
	return newInner(cfg, children, sizes)
}

// PushBack appends v. The tail absorbs it in O(1) until full; folding a
// full tail into the tree as a fresh leaf is O(log n) whether or not the
// tree has ever been relaxed by a prior Concat/Insert/Erase/Take/Drop —
// pushRegularLeaf threads the perfectly-packed BVec case, pushRelaxedLeaf
// threads the same rightmost spine while consulting any size table already
// present. Neither ever falls back to a full chunk rebuild.
func (t Tree[T]) PushBack(v T) (Tree[T], error) {
	nt := t
	if len(t.tail) < t.cfg.bf() {
		nt.tail = append(append([]T(nil), t.tail...), v)
		nt.size = t.size + 1
		return nt, nil
	}
	leaf, err := newLeaf(t.cfg, append([]T(nil), t.tail...))
	if err != nil {
		return Tree[T]{}, err
	}
	var newRoot *Node[T]
	var newShift uint
	if t.relaxed {
		newRoot, newShift, err = pushRelaxedLeaf(t.cfg, t.root, t.shift, leaf, t.treeSize())
	} else {
		newRoot, newShift, err = pushRegularLeaf(t.cfg, t.root, t.shift, leaf, t.treeSize())
	}
	if err != nil {
		return Tree[T]{}, err
	}
	nt.root = newRoot
	nt.shift = newShift
	nt.tail = []T{v}
	nt.size = t.size + 1
	return nt, nil
}

func pushRegularLeaf[T any](cfg Config, root *Node[T], shift uint, leaf *Node[T], treeSize int) (*Node[T], uint, error) {
	if root == nil {
		return leaf, 0, nil
	}
	if treeSize == capacity(cfg, shift) {
		sibling, err := wrapSingleton(cfg, leaf, shift)
		if err != nil {
			return nil, 0, err
		}
		newRoot, err := newInner(cfg, []*Node[T]{root, sibling}, nil)
		if err != nil {
			return nil, 0, err
		}
		xlog.Debug("rbt: root grown", "oldShift", shift, "newShift", shift+cfg.B)
		return newRoot, shift + cfg.B, nil
	}
	if shift == 0 {
		// Root is a not-yet-full leaf: capacity(0) == bf(), so the only way
		// treeSize != capacity(shift) here is a not-yet-full leaf root,
		// which PushBack never reaches (it only calls this once the
		// tail itself is full and about to become a brand new leaf sibling).
		return nil, 0, xerr.ErrCapacityExceeded
	}
	newRoot, err := threadLeaf(cfg, root, shift, leaf, treeSize)
	if err != nil {
		return nil, 0, err
	}
	return newRoot, shift, nil
}

func threadLeaf[T any](cfg Config, n *Node[T], shift uint, leaf *Node[T], treeSize int) (*Node[T], error) {
	childShift := shift - cfg.B
	childCap := capacity(cfg, childShift)
	full := len(n.children) * childCap
	if treeSize == full {
		var newChild *Node[T]
		if childShift == 0 {
			newChild = leaf
		} else {
			wrapped, err := wrapSingleton(cfg, leaf, childShift)
			if err != nil {
				return nil, err
			}
			newChild = wrapped
		}
		children := make([]*Node[T], len(n.children)+1)
		copy(children, n.children)
		children[len(n.children)] = newChild
		retainAllExcept(n.children, -1)
		return newInner(cfg, children, nil)
	}
	lastIdx := len(n.children) - 1
	lastChildSize := treeSize - lastIdx*childCap
	newLastChild, err := threadLeaf(cfg, n.children[lastIdx], childShift, leaf, lastChildSize)
	if err != nil {
		return nil, err
	}
	children := make([]*Node[T], len(n.children))
	copy(children, n.children)
	children[lastIdx] = newLastChild
	retainAllExcept(n.children, lastIdx)
	return newInner(cfg, children, nil)
}

func wrapSingleton[T any](cfg Config, leaf *Node[T], shift uint) (*Node[T], error) {
	cur := leaf
	for s := uint(0); s < shift; s += cfg.B {
		inner, err := newInner(cfg, []*Node[T]{cur}, nil)
		if err != nil {
			return nil, err
		}
		cur = inner
	}
	return cur, nil
}

// pushRelaxedLeaf threads a freshly-filled leaf (always cfg.bf() elements —
// the size a full tail reaches before folding into the tree) into the
// rightmost spine of root, the same algorithm pushRegularLeaf/threadLeaf use
// for BVec's always-perfect trees, generalized to consult a size table
// wherever one is already present (left over from a prior Concat/Insert/
// Erase/Take/Drop) instead of assuming every existing child is full. This
// is what keeps RRBVec.PushBack on the O(log n) path even after the tree
// has become relaxed — only Concat and the other operations that rebuild
// from chunks (Take, Drop, and Insert, Erase, PushFront on top of them and
// Concat) still pay the O(n) rebuild documented on those methods and in
// DESIGN.md.
func pushRelaxedLeaf[T any](cfg Config, root *Node[T], shift uint, leaf *Node[T], treeSize int) (*Node[T], uint, error) {
	if root == nil {
		return leaf, 0, nil
	}
	if treeSize == capacity(cfg, shift) {
		newRoot, err := newInner(cfg, []*Node[T]{root, leaf}, nil)
		if err != nil {
			return nil, 0, err
		}
		xlog.Debug("rbt: root grown", "oldShift", shift, "newShift", shift+cfg.B)
		return newRoot, shift + cfg.B, nil
	}
	if shift == 0 {
		return nil, 0, xerr.ErrCapacityExceeded
	}
	newRoot, err := threadRelaxedLeaf(cfg, root, shift, leaf)
	if err != nil {
		return nil, 0, err
	}
	return newRoot, shift, nil
}

// threadRelaxedLeaf walks n's rightmost spine one level at a time. At each
// inner node it asks whether the rightmost child's subtree is already at
// absolute capacity for its shift (via the node's own size table when it
// carries one, or — since a nil size table means every child here is
// perfectly full, invariant 1 — via plain capacity arithmetic otherwise).
// A full rightmost subtree gets a brand new sibling; otherwise the leaf
// threads one level further down into it. Only the spine nodes touched are
// copied; every sibling subtree is shared by reference.
func threadRelaxedLeaf[T any](cfg Config, n *Node[T], shift uint, leaf *Node[T]) (*Node[T], error) {
	childShift := shift - cfg.B
	childCap := capacity(cfg, childShift)
	lastIdx := len(n.children) - 1
	lastChildSize := childCap
	if n.sizes != nil {
		if lastIdx == 0 {
			lastChildSize = int(n.sizes[0])
		} else {
			lastChildSize = int(n.sizes[lastIdx]) - int(n.sizes[lastIdx-1])
		}
	}

	if childShift == 0 || lastChildSize == childCap {
		if len(n.children) >= cfg.bf() {
			return nil, xerr.ErrCapacityExceeded
		}
		newChild := leaf
		full := true
		if childShift != 0 {
			wrapped, err := wrapSingleton(cfg, leaf, childShift)
			if err != nil {
				return nil, err
			}
			newChild = wrapped
			full = len(leaf.values) == childCap
		}
		children := make([]*Node[T], len(n.children)+1)
		copy(children, n.children)
		children[len(n.children)] = newChild
		retainAllExcept(n.children, -1)

		var sizes []uint32
		switch {
		case n.sizes != nil:
			total := n.sizes[len(n.sizes)-1]
			sizes = append(append([]uint32(nil), n.sizes...), total+uint32(len(leaf.values)))
		case !full:
			sizes = make([]uint32, len(children))
			for i := 0; i < len(children)-1; i++ {
				sizes[i] = uint32((i + 1) * childCap)
			}
			sizes[len(children)-1] = uint32(lastIdx+1)*uint32(childCap) + uint32(len(leaf.values))
		}
		return newInner(cfg, children, sizes)
	}

	newLastChild, err := threadRelaxedLeaf(cfg, n.children[lastIdx], childShift, leaf)
	if err != nil {
		return nil, err
	}
	children := make([]*Node[T], len(n.children))
	copy(children, n.children)
	children[lastIdx] = newLastChild
	retainAllExcept(n.children, lastIdx)
	sizes := append([]uint32(nil), n.sizes...)
	sizes[lastIdx] += uint32(len(leaf.values))
	return newInner(cfg, children, sizes)
}

// PopBack removes the last element. Like PushBack, this stays O(log n)
// (popRegularLeaf for perfect trees, popRelaxedLeaf once any size table has
// ever appeared) rather than falling back to a chunk rebuild.
func (t Tree[T]) PopBack() (Tree[T], error) {
	if t.size == 0 {
		return Tree[T]{}, xerr.ErrOutOfRange
	}
	if len(t.tail) > 1 {
		nt := t
		nt.tail = append([]T(nil), t.tail[:len(t.tail)-1]...)
		nt.size = t.size - 1
		return nt, nil
	}
	if t.root == nil {
		nt := t
		nt.tail = nil
		nt.size = 0
		return nt, nil
	}
	var newRoot *Node[T]
	var poppedVals []T
	var err error
	if t.relaxed {
		newRoot, poppedVals, err = popRelaxedLeaf(t.cfg, t.root, t.shift)
	} else {
		newRoot, _, poppedVals, err = popRegularLeaf(t.cfg, t.root, t.shift, t.treeSize())
	}
	if err != nil {
		return Tree[T]{}, err
	}
	nt := t
	nt.root = newRoot
	nt.tail = poppedVals
	nt.size = t.size - 1
	return nt, nil
}

// popRelaxedLeaf is popRegularLeaf generalized the same way threadRelaxedLeaf
// generalizes threadLeaf: it consults n's size table, where present, instead
// of assuming every child but the last is exactly capacity(childShift).
func popRelaxedLeaf[T any](cfg Config, n *Node[T], shift uint) (*Node[T], []T, error) {
	if shift == 0 {
		return nil, append([]T(nil), n.values...), nil
	}
	childShift := shift - cfg.B
	lastIdx := len(n.children) - 1
	newLastChild, poppedVals, err := popRelaxedLeaf(cfg, n.children[lastIdx], childShift)
	if err != nil {
		return nil, nil, err
	}
	if newLastChild == nil {
		if lastIdx == 0 {
			return nil, poppedVals, nil
		}
		children := make([]*Node[T], lastIdx)
		copy(children, n.children[:lastIdx])
		retainAllExcept(children, -1)
		var sizes []uint32
		if n.sizes != nil {
			sizes = append([]uint32(nil), n.sizes[:lastIdx]...)
		}
		inner, err := newInner(cfg, children, sizes)
		if err != nil {
			return nil, nil, err
		}
		return inner, poppedVals, nil
	}
	children := make([]*Node[T], len(n.children))
	copy(children, n.children)
	children[lastIdx] = newLastChild
	retainAllExcept(n.children, lastIdx)
	var sizes []uint32
	if n.sizes != nil {
		sizes = append([]uint32(nil), n.sizes...)
		sizes[lastIdx] -= uint32(len(poppedVals))
	}
	inner, err := newInner(cfg, children, sizes)
	if err != nil {
		return nil, nil, err
	}
	return inner, poppedVals, nil
}

func popRegularLeaf[T any](cfg Config, n *Node[T], shift uint, treeSize int) (*Node[T], uint, []T, error) {
	if shift == 0 {
		return nil, 0, append([]T(nil), n.values...), nil
	}
	childShift := shift - cfg.B
	childCap := capacity(cfg, childShift)
	lastIdx := len(n.children) - 1
	lastChildSize := treeSize - lastIdx*childCap
	newLastChild, _, poppedVals, err := popRegularLeaf(cfg, n.children[lastIdx], childShift, lastChildSize)
	if err != nil {
		return nil, 0, nil, err
	}
	if newLastChild == nil {
		if lastIdx == 0 {
			return nil, 0, poppedVals, nil
		}
		children := make([]*Node[T], lastIdx)
		copy(children, n.children[:lastIdx])
		retainAllExcept(children, -1)
		inner, err := newInner(cfg, children, nil)
		if err != nil {
			return nil, 0, nil, err
		}
		return inner, shift, poppedVals, nil
	}
	children := make([]*Node[T], len(n.children))
	copy(children, n.children)
	children[lastIdx] = newLastChild
	retainAllExcept(n.children, lastIdx)
	inner, err := newInner(cfg, children, nil)
	if err != nil {
		return nil, 0, nil, err
	}
	return inner, shift, poppedVals, nil
}

// toChunks returns, in order, slice views over every leaf's values followed
// by the tail — the flat representation Take/Drop/Concat rebuild from.
func (t Tree[T]) toChunks() [][]T {
	leaves := collectLeaves(t.root)
	chunks := make([][]T, 0, len(leaves)+1)
	for _, l := range leaves {
		chunks = append(chunks, l.values)
	}
	if len(t.tail) > 0 {
		chunks = append(chunks, t.tail)
	}
	return chunks
}

// Release tears down t's structure explicitly rather than waiting on the
// garbage collector, matching invariant 5's refcounted-policy semantics.
// Containers built under RefcountNone use this only for test bookkeeping.
func (t Tree[T]) Release() {
	release(t.cfg, t.root)
}

// Equal compares two trees element-by-element with eq.
func Equal[T any](a, b Tree[T], eq func(x, y T) bool) bool {
	if a.size != b.size {
		return false
	}
	ia, ib := a.Iterator(), b.Iterator()
	for ia.HasNext() {
		va, _ := ia.Next()
		vb, _ := ib.Next()
		if !eq(va, vb) {
			return false
		}
	}
	return true
}
