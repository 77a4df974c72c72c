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

package persist

import "sync/atomic"

// Box is a single reference-counted heap cell holding one value (§1 scope:
// "specified only to the extent the larger cores use it"). Copying a Box
// is cheap — it bumps a refcount rather than copying T — and, since there
// is exactly one value and no substructure, Update always allocates a
// fresh cell rather than sharing anything below it. CHAMP collision
// leaves and RRBVec's singleton-wrapping base case (internal/champ,
// internal/rbt) use the same "one cheap cell" idea inline rather than
// through this type; Box exists as the public, standalone building block
// for callers who want the same trick for their own heavyweight values.
type Box[T any] struct {
	cell *boxCell[T]
}

type boxCell[T any] struct {
	refs  int32
	value T
}

// NewBox wraps v in a fresh, uniquely-owned cell.
func NewBox[T any](v T) Box[T] {
	return Box[T]{cell: &boxCell[T]{refs: 1, value: v}}
}

// Get returns the boxed value.
func (b Box[T]) Get() T { return b.cell.value }

// Update returns a new Box holding f(old); b is left unchanged.
func (b Box[T]) Update(f func(T) T) Box[T] {
	return NewBox(f(b.cell.value))
}

// Set returns a new Box holding v; b is left unchanged.
func (b Box[T]) Set(v T) Box[T] { return NewBox(v) }

// clone bumps the cell's refcount and returns a Box sharing it — the
// "cheap to copy" half of the contract. Go's assignment already copies the
// Box struct (a single pointer); clone exists for callers that want the
// refcount bookkeeping to be observable (e.g. via RefCount) rather than
// relying on Go's GC alone.
func (b Box[T]) clone() Box[T] {
	atomic.AddInt32(&b.cell.refs, 1)
	return b
}

// RefCount reports how many Box values currently share this cell. It is a
// diagnostic only: under plain Go assignment (copying the Box struct
// without calling clone) the count is not kept in sync, since Go offers no
// hook analogous to a copy constructor.
func (b Box[T]) RefCount() int32 { return atomic.LoadInt32(&b.cell.refs) }
