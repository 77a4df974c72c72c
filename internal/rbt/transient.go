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
	"github.com/hamtree/persist/internal/transient"
	"github.com/hamtree/persist/internal/xerr"
)

// Transient is a mutable view over a Tree (§4.6). The dominant
// amortized-O(1) case — appending to the tail — mutates the tail's backing
// array in place once the transient has proven it is the sole holder of
// that array (ownsTail); every other mutation (a tail flush into the tree,
// Set/Update path-copy, Concat/Take/Drop) still allocates fresh nodes the
// same way the persistent API does. A fully owner-stamped skip-the-copy
// path for spine nodes (the Header.OwnedBy/Stamp machinery in
// internal/noderef) is left unwired here: see DESIGN.md's transient entry
// for why the tail-mutation optimization was judged worth the complexity
// and the spine one was not, for a first pass.
type Transient[T any] struct {
	owner    *transient.Owner
	cur      Tree[T]
	ownsTail bool
}

// AsTransient returns a Transient sharing structure with t.
func (t Tree[T]) AsTransient(mode memory.TransienceMode) *Transient[T] {
	return &Transient[T]{owner: transient.New(mode), cur: t}
}

// Size reports the current element count.
func (tr *Transient[T]) Size() int { return tr.cur.size }

// At returns the element at index i.
func (tr *Transient[T]) At(i int) (T, error) { return tr.cur.At(i) }

func (tr *Transient[T]) checkAlive() error {
	if !tr.owner.Alive() {
		tr.owner.Rearm()
	}
	return nil
}

// PushBack appends v, mutating the tail in place when it is safe to do so.
func (tr *Transient[T]) PushBack(v T) error {
	if err := tr.checkAlive(); err != nil {
		return err
	}
	if len(tr.cur.tail) < tr.cur.cfg.bf() {
		if tr.ownsTail && cap(tr.cur.tail) > len(tr.cur.tail) {
			tr.cur.tail = append(tr.cur.tail, v)
		} else {
			tr.cur.tail = append(append([]T(nil), tr.cur.tail...), v)
			tr.ownsTail = true
		}
		tr.cur.size++
		return nil
	}
	next, err := tr.cur.PushBack(v)
	if err != nil {
		return err
	}
	tr.cur = next
	tr.ownsTail = true
	return nil
}

// PopBack removes the last element.
func (tr *Transient[T]) PopBack() error {
	if err := tr.checkAlive(); err != nil {
		return err
	}
	if tr.cur.size == 0 {
		return xerr.ErrOutOfRange
	}
	if len(tr.cur.tail) > 1 {
		tr.cur.tail = tr.cur.tail[:len(tr.cur.tail)-1]
		tr.cur.size--
		return nil
	}
	next, err := tr.cur.PopBack()
	if err != nil {
		return err
	}
	tr.cur = next
	tr.ownsTail = false
	return nil
}

// Set replaces the element at index i with v.
func (tr *Transient[T]) Set(i int, v T) error {
	if err := tr.checkAlive(); err != nil {
		return err
	}
	next, err := tr.cur.Set(i, v)
	if err != nil {
		return err
	}
	tr.cur = next
	return nil
}

// Persistent publishes tr's current value as an ordinary Tree and
// invalidates tr per §4.6 ("M.persistent() ... invalidates M").
func (tr *Transient[T]) Persistent() Tree[T] {
	tr.owner.Invalidate()
	tr.ownsTail = false
	return tr.cur
}
