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
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/transient"
)

// Transient is a mutable view over a Map (§4.6). Unlike rbt.Transient it
// does not attempt an in-place fast path: CHAMP's bitmap/entry arrays are
// reshaped on nearly every insert/erase (popcount-indexed insert/delete
// into a packed array), so the "owned node" skip-the-copy win is much
// smaller relative to the copy itself than it is for the rbt tail. Every
// mutation still goes through the ordinary persistent insert/erase; the
// owner token exists so the type honors the same as_transient/persistent
// contract as the other containers and so a later, more ambitious revision
// has somewhere to plug in owner-checked in-place bitmap edits.
type Transient[K, V any] struct {
	owner *transient.Owner
	cur   Map[K, V]
}

// AsTransient returns a Transient sharing structure with m.
func (m Map[K, V]) AsTransient(mode memory.TransienceMode) *Transient[K, V] {
	return &Transient[K, V]{owner: transient.New(mode), cur: m}
}

// Size reports the current entry count.
func (tr *Transient[K, V]) Size() int { return tr.cur.size }

// Find looks up key in the transient's current value.
func (tr *Transient[K, V]) Find(key K) (V, bool) { return tr.cur.Find(key) }

func (tr *Transient[K, V]) checkAlive() {
	if !tr.owner.Alive() {
		tr.owner.Rearm()
	}
}

// Set inserts or updates key/value.
func (tr *Transient[K, V]) Set(key K, value V) error {
	tr.checkAlive()
	next, err := tr.cur.Set(key, value)
	if err != nil {
		return err
	}
	tr.cur = next
	return nil
}

// Erase removes key, reporting whether it was present.
func (tr *Transient[K, V]) Erase(key K) (bool, error) {
	tr.checkAlive()
	next, removed, err := tr.cur.Erase(key)
	if err != nil {
		return false, err
	}
	tr.cur = next
	return removed, nil
}

// Persistent publishes tr's current value and invalidates tr.
func (tr *Transient[K, V]) Persistent() Map[K, V] {
	tr.owner.Invalidate()
	return tr.cur
}
