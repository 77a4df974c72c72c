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

import "github.com/hamtree/persist/internal/xerr"

// Take returns the prefix of length k.
func (t Tree[T]) Take(k int) (Tree[T], error) {
	if k < 0 || k > t.size {
		return Tree[T]{}, xerr.ErrOutOfRange
	}
	if k == t.size {
		return t, nil
	}
	chunks := t.toChunks()
	remaining := k
	var out [][]T
	for _, c := range chunks {
		if remaining <= 0 {
			break
		}
		if remaining >= len(c) {
			out = append(out, c)
			remaining -= len(c)
		} else {
			out = append(out, c[:remaining])
			remaining = 0
		}
	}
	return fromChunks(t.cfg, out)
}

// Drop returns the suffix after the first k elements.
func (t Tree[T]) Drop(k int) (Tree[T], error) {
	if k < 0 || k > t.size {
		return Tree[T]{}, xerr.ErrOutOfRange
	}
	if k == 0 {
		return t, nil
	}
	chunks := t.toChunks()
	remaining := k
	var out [][]T
	for _, c := range chunks {
		if remaining <= 0 {
			out = append(out, c)
			continue
		}
		if remaining >= len(c) {
			remaining -= len(c)
			continue
		}
		out = append(out, c[remaining:])
		remaining = 0
	}
	return fromChunks(t.cfg, out)
}

// Concat appends b after a. The result always carries a size table at the
// boundary unless the split happens to land on a bf()-aligned chunk, since
// a's last chunk (its former tail) is rarely a full leaf.
func Concat[T any](a, b Tree[T]) (Tree[T], error) {
	if a.size == 0 {
		return b, nil
	}
	if b.size == 0 {
		return a, nil
	}
	chunks := append(a.toChunks(), b.toChunks()...)
	return fromChunks(a.cfg, chunks)
}

// PushFront prepends v, built as Concat(singleton(v), t) — the default
// resolution documented for the "should PushFront get its own fast path"
// open question.
func (t Tree[T]) PushFront(v T) (Tree[T], error) {
	single, err := Singleton[T](t.cfg, v)
	if err != nil {
		return Tree[T]{}, err
	}
	return Concat(single, t)
}

// Insert splices v into index i.
func (t Tree[T]) Insert(i int, v T) (Tree[T], error) {
	if i < 0 || i > t.size {
		return Tree[T]{}, xerr.ErrOutOfRange
	}
	left, err := t.Take(i)
	if err != nil {
		return Tree[T]{}, err
	}
	right, err := t.Drop(i)
	if err != nil {
		return Tree[T]{}, err
	}
	single, err := Singleton[T](t.cfg, v)
	if err != nil {
		return Tree[T]{}, err
	}
	mid, err := Concat(single, right)
	if err != nil {
		return Tree[T]{}, err
	}
	return Concat(left, mid)
}

// Erase removes the element at index i.
func (t Tree[T]) Erase(i int) (Tree[T], error) {
	if i < 0 || i >= t.size {
		return Tree[T]{}, xerr.ErrOutOfRange
	}
	left, err := t.Take(i)
	if err != nil {
		return Tree[T]{}, err
	}
	right, err := t.Drop(i + 1)
	if err != nil {
		return Tree[T]{}, err
	}
	return Concat(left, right)
}

// Singleton returns a one-element tree.
func Singleton[T any](cfg Config, v T) (Tree[T], error) {
	t := Empty[T](cfg)
	t.tail = []T{v}
	t.size = 1
	return t, nil
}

// FromSlice builds a tree holding vs, in order, via repeated PushBack.
// PushBack on a non-relaxed tree takes the regular path (pushRegularLeaf),
// so a tree built this way is never relaxed.
func FromSlice[T any](cfg Config, vs []T) (Tree[T], error) {
	t := Empty[T](cfg)
	for _, v := range vs {
		var err error
		t, err = t.PushBack(v)
		if err != nil {
			return Tree[T]{}, err
		}
	}
	return t, nil
}

func finalizeChunks[T any](chunks [][]T) ([][]T, []T) {
	var filtered [][]T
	for _, c := range chunks {
		if len(c) > 0 {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}
	tail := filtered[len(filtered)-1]
	return filtered[:len(filtered)-1], tail
}

func fromChunks[T any](cfg Config, chunks [][]T) (Tree[T], error) {
	leafChunks, tail := finalizeChunks[T](chunks)
	return buildRelaxedFromChunks(cfg, leafChunks, tail)
}

// buildRelaxedFromChunks rebuilds a tree bottom-up from an ordered list of
// element chunks (each holding at most bf() elements), copying each chunk's
// data into a fresh leaf rather than reusing the donor leaf's backing array
// — donor leaves may still be referenced elsewhere, and a later transient
// mutating this freshly built leaf in place must not corrupt them. A group
// of bf() children is left regular (no size table) only when every child in
// it holds exactly its shift's full capacity; any undersized child — most
// often the single chunk straddling a Concat boundary — makes every
// ancestor covering it relaxed, which is exactly invariant 1's contract.
func buildRelaxedFromChunks[T any](cfg Config, leafChunks [][]T, tail []T) (Tree[T], error) {
	type built struct {
		node  *Node[T]
		count int
	}
	level := make([]built, 0, len(leafChunks))
	total := 0
	for _, c := range leafChunks {
		cp := append([]T(nil), c...)
		leaf, err := newLeaf(cfg, cp)
		if err != nil {
			return Tree[T]{}, err
		}
		level = append(level, built{node: leaf, count: len(cp)})
		total += len(cp)
	}
	tailCopy := append([]T(nil), tail...)

	if len(level) == 0 {
		t := Empty[T](cfg)
		t.tail = tailCopy
		t.size = len(tailCopy)
		return t, nil
	}

	shift := uint(0)
	relaxed := false
	for len(level) > 1 {
		next := make([]built, 0, (len(level)+cfg.bf()-1)/cfg.bf())
		for i := 0; i < len(level); i += cfg.bf() {
			end := i + cfg.bf()
			if end > len(level) {
				end = len(level)
			}
			group := level[i:end]
			children := make([]*Node[T], len(group))
			sizes := make([]uint32, len(group))
			cum := 0
			regular := len(group) == cfg.bf()
			for j, g := range group {
				children[j] = g.node
				cum += g.count
				sizes[j] = uint32(cum)
				if g.count != capacity(cfg, shift) {
					regular = false
				}
			}
			var sz []uint32
			if !regular {
				sz = sizes
				relaxed = true
			}
			inner, err := newInner(cfg, children, sz)
			if err != nil {
				return Tree[T]{}, err
			}
			next = append(next, built{node: inner, count: cum})
		}
		level = next
		shift += cfg.B
	}

	t := Tree[T]{cfg: cfg, root: level[0].node, shift: shift, relaxed: relaxed}
	t.tail = tailCopy
	t.size = total + len(tailCopy)
	return t, nil
}
