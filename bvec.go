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

// Package persist provides the public container facades (L7, §4.7): BVec,
// RRBVec, HashMap, HashSet, HashTable and Box, each a thin value type
// wrapping one tree root and delegating to the internal engine packages
// for every real algorithm (internal/rbt for BVec/RRBVec, internal/champ
// for the hash-trie containers). Facades hold no mutable state beyond
// that one root and never log — see SPEC_FULL.md's ambient-stack section.
package persist

import (
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/rbt"
)

// BVec is an indexed sequence with random access and fast push/update at
// the tail (§1, §4.3). The zero BVec is not valid; use NewBVec or
// BVecFromSlice.
type BVec[T any] struct {
	t rbt.Tree[T]
}

// NewBVec returns an empty BVec configured by opts.
func NewBVec[T any](opts ...VecOption) BVec[T] {
	return BVec[T]{t: rbt.Empty[T](buildVecOpts(opts))}
}

// BVecFromSlice builds a BVec holding vs, in order.
func BVecFromSlice[T any](vs []T, opts ...VecOption) (BVec[T], error) {
	t, err := rbt.FromSlice(buildVecOpts(opts), vs)
	if err != nil {
		return BVec[T]{}, err
	}
	return BVec[T]{t: t}, nil
}

// Size reports the number of elements.
func (v BVec[T]) Size() int { return v.t.Size() }

// At returns the element at index i.
func (v BVec[T]) At(i int) (T, error) { return v.t.At(i) }

// Update replaces the element at index i with f(old).
func (v BVec[T]) Update(i int, f func(T) T) (BVec[T], error) {
	nt, err := v.t.Update(i, f)
	if err != nil {
		return BVec[T]{}, err
	}
	return BVec[T]{t: nt}, nil
}

// Set replaces the element at index i with val.
func (v BVec[T]) Set(i int, val T) (BVec[T], error) {
	nt, err := v.t.Set(i, val)
	if err != nil {
		return BVec[T]{}, err
	}
	return BVec[T]{t: nt}, nil
}

// PushBack appends val.
func (v BVec[T]) PushBack(val T) (BVec[T], error) {
	nt, err := v.t.PushBack(val)
	if err != nil {
		return BVec[T]{}, err
	}
	return BVec[T]{t: nt}, nil
}

// PopBack removes the last element.
func (v BVec[T]) PopBack() (BVec[T], error) {
	nt, err := v.t.PopBack()
	if err != nil {
		return BVec[T]{}, err
	}
	return BVec[T]{t: nt}, nil
}

// Take returns the prefix of length k.
func (v BVec[T]) Take(k int) (BVec[T], error) {
	nt, err := v.t.Take(k)
	if err != nil {
		return BVec[T]{}, err
	}
	return BVec[T]{t: nt}, nil
}

// Iterator returns a fresh forward/bidirectional iterator over v.
func (v BVec[T]) Iterator() *rbt.Iterator[T] { return v.t.Iterator() }

// Release tears down v's structure explicitly rather than waiting on the
// garbage collector. Under RefcountNone the counts and heap bookkeeping still
// run, so Heap.Stats() reflects the release; Go's collector reclaims the
// memory under every policy.
func (v BVec[T]) Release() { v.t.Release() }

// Equal compares two BVecs element-by-element with eq.
func (v BVec[T]) Equal(other BVec[T], eq func(a, b T) bool) bool {
	return rbt.Equal(v.t, other.t, eq)
}

// TransientBVec is a mutable view over a BVec (§4.6), used for bulk
// construction: PushBack mutates the tail in place once uniquely owned
// instead of path-copying on every call.
type TransientBVec[T any] struct {
	tr *rbt.Transient[T]
}

// AsTransient returns a TransientBVec sharing structure with v.
func (v BVec[T]) AsTransient() TransientBVec[T] {
	return TransientBVec[T]{tr: v.t.AsTransient(memory.TransienceDisabled)}
}

// Size reports the current element count.
func (tv TransientBVec[T]) Size() int { return tv.tr.Size() }

// At returns the element at index i.
func (tv TransientBVec[T]) At(i int) (T, error) { return tv.tr.At(i) }

// PushBack appends val.
func (tv TransientBVec[T]) PushBack(val T) error { return tv.tr.PushBack(val) }

// PopBack removes the last element.
func (tv TransientBVec[T]) PopBack() error { return tv.tr.PopBack() }

// Set replaces the element at index i with val.
func (tv TransientBVec[T]) Set(i int, val T) error { return tv.tr.Set(i, val) }

// Persistent publishes tv's current value as a BVec and invalidates tv.
func (tv TransientBVec[T]) Persistent() BVec[T] { return BVec[T]{t: tv.tr.Persistent()} }
