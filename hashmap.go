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

import (
	"github.com/hamtree/persist/internal/champ"
	"github.com/hamtree/persist/internal/memory"
)

// HashMap is an associative, immutable key/value container backed by a
// CHAMP hash-array-mapped prefix tree (§1, §4.5). The zero HashMap is not
// valid; use NewHashMap.
type HashMap[K, V any] struct {
	m champ.Map[K, V]
}

// NewHashMap returns an empty HashMap keyed by h, configured by opts.
func NewHashMap[K, V any](h Hasher[K], opts ...MapOption) HashMap[K, V] {
	return HashMap[K, V]{m: champ.Empty[K, V](buildMapOpts(opts), h.Hash, h.Equal)}
}

// Size reports the number of entries.
func (m HashMap[K, V]) Size() int { return m.m.Size() }

// Find looks up key, reporting the stored value and whether it was present.
func (m HashMap[K, V]) Find(key K) (V, bool) { return m.m.Find(key) }

// Contains reports whether key is present.
func (m HashMap[K, V]) Contains(key K) bool { return m.m.Contains(key) }

// Set inserts key/value, replacing any prior value for key.
func (m HashMap[K, V]) Set(key K, value V) (HashMap[K, V], error) {
	nm, err := m.m.Set(key, value)
	if err != nil {
		return HashMap[K, V]{}, err
	}
	return HashMap[K, V]{m: nm}, nil
}

// Update replaces the value at key with f(old), where old is the zero
// value of V when key is absent.
func (m HashMap[K, V]) Update(key K, f func(V) V) (HashMap[K, V], error) {
	nm, err := m.m.Update(key, f)
	if err != nil {
		return HashMap[K, V]{}, err
	}
	return HashMap[K, V]{m: nm}, nil
}

// Erase removes key, reporting whether it was present. m is returned
// unchanged when key was absent.
func (m HashMap[K, V]) Erase(key K) (HashMap[K, V], bool, error) {
	nm, removed, err := m.m.Erase(key)
	if err != nil {
		return HashMap[K, V]{}, false, err
	}
	return HashMap[K, V]{m: nm}, removed, nil
}

// Release tears down m's structure explicitly.
func (m HashMap[K, V]) Release() { m.m.Release() }

// Iterator returns a fresh iterator over m's entries, in unspecified order.
func (m HashMap[K, V]) Iterator() *champ.Iterator[K, V] { return m.m.Iterator() }

// Equal compares two HashMaps for the same entry set, independent of
// iteration order, using veq to compare values.
func (m HashMap[K, V]) Equal(other HashMap[K, V], veq func(a, b V) bool) bool {
	return champ.Equal(m.m, other.m, veq)
}

// TransientHashMap is a mutable view over a HashMap (§4.6).
type TransientHashMap[K, V any] struct {
	tr *champ.Transient[K, V]
}

// AsTransient returns a TransientHashMap sharing structure with m.
func (m HashMap[K, V]) AsTransient() TransientHashMap[K, V] {
	return TransientHashMap[K, V]{tr: m.m.AsTransient(memory.TransienceDisabled)}
}

// Size reports the current entry count.
func (tm TransientHashMap[K, V]) Size() int { return tm.tr.Size() }

// Find looks up key in the transient's current value.
func (tm TransientHashMap[K, V]) Find(key K) (V, bool) { return tm.tr.Find(key) }

// Set inserts or updates key/value.
func (tm TransientHashMap[K, V]) Set(key K, value V) error { return tm.tr.Set(key, value) }

// Erase removes key, reporting whether it was present.
func (tm TransientHashMap[K, V]) Erase(key K) (bool, error) { return tm.tr.Erase(key) }

// Persistent publishes tm's current value as a HashMap and invalidates tm.
func (tm TransientHashMap[K, V]) Persistent() HashMap[K, V] {
	return HashMap[K, V]{m: tm.tr.Persistent()}
}
