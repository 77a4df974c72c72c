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
	"github.com/holiman/bloomfilter/v2"

	"github.com/hamtree/persist/internal/champ"
	"github.com/hamtree/persist/internal/memory"
)

// KeyFunc projects the key a HashTable indexes a value by, the way the
// original's immer::table projects a key out of a stored struct rather
// than storing detached key/value pairs (SPEC_FULL.md's SUPPLEMENTED
// FEATURES).
type KeyFunc[T, K any] func(T) K

// HashTable is a keyed-but-not-map container: values of type T are indexed
// by a key K derived via a KeyFunc, distinct from HashMap which stores
// detached key/value pairs (§1, SUPPLEMENTED FEATURES). The zero
// HashTable is not valid; use NewHashTable.
type HashTable[T, K any] struct {
	m     champ.Map[K, T]
	key   KeyFunc[T, K]
	bloom *bloomAccel[K]
}

// NewHashTable returns an empty HashTable projecting keys with key and
// hashing them with h, configured by opts.
func NewHashTable[T, K any](key KeyFunc[T, K], h Hasher[K], opts ...TableOption[T, K]) (HashTable[T, K], error) {
	var to tableOpts[T, K]
	for _, apply := range opts {
		apply(&to)
	}
	t := HashTable[T, K]{m: champ.Empty[K, T](to.cfg, h.Hash, h.Equal), key: key}
	if to.bloomN > 0 {
		f, err := bloomfilter.NewOptimal(to.bloomN, to.bloomP)
		if err != nil {
			return HashTable[T, K]{}, err
		}
		t.bloom = &bloomAccel[K]{hash: h.Hash, f: f}
	}
	return t, nil
}

// tableOpts is the option target for NewHashTable.
type tableOpts[T, K any] struct {
	cfg    champ.Config
	bloomN uint64
	bloomP float64
}

// TableOption configures a HashTable at construction time.
type TableOption[T, K any] func(*tableOpts[T, K])

// WithTablePolicy sets the table's memory policy.
func WithTablePolicy[T, K any](p MemoryPolicy) TableOption[T, K] {
	return func(o *tableOpts[T, K]) { o.cfg.Policy = p }
}

// WithTableBranchingBits overrides the default hash-fragment width.
func WithTableBranchingBits[T, K any](b uint) TableOption[T, K] {
	return func(o *tableOpts[T, K]) { o.cfg.B = b }
}

// WithTableBloomFilter enables a negative-Contains accelerator over the
// table's keys, sized for roughly n elements at false-positive rate p.
func WithTableBloomFilter[T, K any](n uint64, p float64) TableOption[T, K] {
	return func(o *tableOpts[T, K]) { o.bloomN, o.bloomP = n, p }
}

// Size reports the number of entries.
func (t HashTable[T, K]) Size() int { return t.m.Size() }

// Find looks up the value stored under key.
func (t HashTable[T, K]) Find(key K) (T, bool) { return t.m.Find(key) }

// Contains reports whether a value is stored under key.
func (t HashTable[T, K]) Contains(key K) bool {
	if t.bloom != nil && !t.bloom.maybeContains(key) {
		return false
	}
	return t.m.Contains(key)
}

// Insert stores v under t.key(v), replacing any prior value with that key.
func (t HashTable[T, K]) Insert(v T) (HashTable[T, K], error) {
	k := t.key(v)
	nm, err := t.m.Set(k, v)
	if err != nil {
		return HashTable[T, K]{}, err
	}
	if t.bloom != nil {
		t.bloom.add(k)
	}
	return HashTable[T, K]{m: nm, key: t.key, bloom: t.bloom}, nil
}

// Erase removes the value stored under key, reporting whether it was
// present. t is returned unchanged when key was absent.
func (t HashTable[T, K]) Erase(key K) (HashTable[T, K], bool, error) {
	nm, removed, err := t.m.Erase(key)
	if err != nil {
		return HashTable[T, K]{}, false, err
	}
	return HashTable[T, K]{m: nm, key: t.key, bloom: t.bloom}, removed, nil
}

// Release tears down t's structure explicitly.
func (t HashTable[T, K]) Release() { t.m.Release() }

// Iterator returns a fresh iterator over t's (key, value) entries, in
// unspecified order.
func (t HashTable[T, K]) Iterator() *champ.Iterator[K, T] { return t.m.Iterator() }

// Equal compares two HashTables for the same entry set, independent of
// iteration order, using veq to compare values.
func (t HashTable[T, K]) Equal(other HashTable[T, K], veq func(a, b T) bool) bool {
	return champ.Equal(t.m, other.m, veq)
}

// TransientHashTable is a mutable view over a HashTable (§4.6).
type TransientHashTable[T, K any] struct {
	tr    *champ.Transient[K, T]
	key   KeyFunc[T, K]
	bloom *bloomAccel[K]
}

// AsTransient returns a TransientHashTable sharing structure with t.
func (t HashTable[T, K]) AsTransient() TransientHashTable[T, K] {
	return TransientHashTable[T, K]{tr: t.m.AsTransient(memory.TransienceDisabled), key: t.key, bloom: t.bloom}
}

// Size reports the current entry count.
func (tt TransientHashTable[T, K]) Size() int { return tt.tr.Size() }

// Find looks up the value stored under key in the transient's current
// value.
func (tt TransientHashTable[T, K]) Find(key K) (T, bool) { return tt.tr.Find(key) }

// Insert stores v under tt.key(v).
func (tt TransientHashTable[T, K]) Insert(v T) error {
	k := tt.key(v)
	if err := tt.tr.Set(k, v); err != nil {
		return err
	}
	if tt.bloom != nil {
		tt.bloom.add(k)
	}
	return nil
}

// Erase removes the value stored under key, reporting whether it was
// present.
func (tt TransientHashTable[T, K]) Erase(key K) (bool, error) { return tt.tr.Erase(key) }

// Persistent publishes tt's current value as a HashTable and invalidates
// tt.
func (tt TransientHashTable[T, K]) Persistent() HashTable[T, K] {
	return HashTable[T, K]{m: tt.tr.Persistent(), key: tt.key, bloom: tt.bloom}
}
