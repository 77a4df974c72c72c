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
	"sync"

	"github.com/holiman/bloomfilter/v2"

	"github.com/hamtree/persist/internal/champ"
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/metrics"
)

// HashSet is an immutable set of distinct elements backed by a CHAMP trie
// (§4.7): a HashMap[T, struct{}] under the hood. Inserting an element
// already present returns the receiver unchanged rather than allocating.
// The zero HashSet is not valid; use NewHashSet.
type HashSet[T any] struct {
	m     champ.Map[T, struct{}]
	bloom *bloomAccel[T]
}

// bloomAccel is an optional, monotonically-growing negative-Contains
// accelerator (SPEC_FULL.md's DOMAIN STACK: "a bloom filter mirroring the
// trie's key set so a negative Contains can short-circuit before walking
// the CHAMP trie"). It is shared by every HashSet value descended from one
// NewHashSet call via WithBloomFilter: bits are only ever added, never
// removed on Erase, so a stale "maybe present" merely falls through to the
// real CHAMP lookup rather than ever producing a false negative.
type bloomAccel[T any] struct {
	mu   sync.Mutex
	hash func(T) uint64
	f    *bloomfilter.Filter
}

func (b *bloomAccel[T]) add(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.f.Add(b.hash(v))
}

func (b *bloomAccel[T]) maybeContains(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.f.Contains(b.hash(v))
}

// NewHashSet returns an empty HashSet keyed by h, configured by opts.
func NewHashSet[T any](h Hasher[T], opts ...SetOption[T]) (HashSet[T], error) {
	var so setOpts[T]
	for _, apply := range opts {
		apply(&so)
	}
	s := HashSet[T]{m: champ.Empty[T, struct{}](so.cfg, h.Hash, h.Equal)}
	if so.bloomN > 0 {
		f, err := bloomfilter.NewOptimal(so.bloomN, so.bloomP)
		if err != nil {
			return HashSet[T]{}, err
		}
		s.bloom = &bloomAccel[T]{hash: h.Hash, f: f}
	}
	return s, nil
}

// setOpts is the option target for NewHashSet.
type setOpts[T any] struct {
	cfg    champ.Config
	bloomN uint64
	bloomP float64
}

// SetOption configures a HashSet at construction time.
type SetOption[T any] func(*setOpts[T])

// WithSetPolicy sets the set's memory policy.
func WithSetPolicy[T any](p MemoryPolicy) SetOption[T] {
	return func(o *setOpts[T]) { o.cfg.Policy = p }
}

// WithSetBranchingBits overrides the default hash-fragment width.
func WithSetBranchingBits[T any](b uint) SetOption[T] {
	return func(o *setOpts[T]) { o.cfg.B = b }
}

// WithSetMetrics attaches a metrics registry to the CHAMP engine.
func WithSetMetrics[T any](m *metrics.Registry) SetOption[T] {
	return func(o *setOpts[T]) { o.cfg.Metrics = m }
}

// WithBloomFilter enables the negative-Contains accelerator, sized for
// roughly n elements at false-positive rate p.
func WithBloomFilter[T any](n uint64, p float64) SetOption[T] {
	return func(o *setOpts[T]) { o.bloomN, o.bloomP = n, p }
}

// Size reports the number of elements.
func (s HashSet[T]) Size() int { return s.m.Size() }

// Contains reports whether v is a member.
func (s HashSet[T]) Contains(v T) bool {
	if s.bloom != nil && !s.bloom.maybeContains(v) {
		return false
	}
	return s.m.Contains(v)
}

// Insert adds v, returning s unchanged if v was already present.
func (s HashSet[T]) Insert(v T) (HashSet[T], error) {
	if s.m.Contains(v) {
		return s, nil
	}
	nm, err := s.m.Set(v, struct{}{})
	if err != nil {
		return HashSet[T]{}, err
	}
	if s.bloom != nil {
		s.bloom.add(v)
	}
	return HashSet[T]{m: nm, bloom: s.bloom}, nil
}

// Erase removes v, reporting whether it was present. s is returned
// unchanged when v was absent.
func (s HashSet[T]) Erase(v T) (HashSet[T], bool, error) {
	nm, removed, err := s.m.Erase(v)
	if err != nil {
		return HashSet[T]{}, false, err
	}
	return HashSet[T]{m: nm, bloom: s.bloom}, removed, nil
}

// Release tears down s's structure explicitly.
func (s HashSet[T]) Release() { s.m.Release() }

// Iterator returns a fresh iterator over s's elements, in unspecified order.
func (s HashSet[T]) Iterator() *champ.Iterator[T, struct{}] { return s.m.Iterator() }

// Equal compares two HashSets for the same element set, independent of
// iteration order (§8 "HashSet equality under permutation").
func (s HashSet[T]) Equal(other HashSet[T]) bool {
	return champ.Equal(s.m, other.m, func(struct{}, struct{}) bool { return true })
}

// TransientHashSet is a mutable view over a HashSet (§4.6).
type TransientHashSet[T any] struct {
	tr    *champ.Transient[T, struct{}]
	bloom *bloomAccel[T]
}

// AsTransient returns a TransientHashSet sharing structure with s.
func (s HashSet[T]) AsTransient() TransientHashSet[T] {
	return TransientHashSet[T]{tr: s.m.AsTransient(memory.TransienceDisabled), bloom: s.bloom}
}

// Size reports the current element count.
func (ts TransientHashSet[T]) Size() int { return ts.tr.Size() }

// Contains reports whether v is a member of the transient's current value.
func (ts TransientHashSet[T]) Contains(v T) bool {
	if ts.bloom != nil && !ts.bloom.maybeContains(v) {
		return false
	}
	_, ok := ts.tr.Find(v)
	return ok
}

// Insert adds v.
func (ts TransientHashSet[T]) Insert(v T) error {
	if err := ts.tr.Set(v, struct{}{}); err != nil {
		return err
	}
	if ts.bloom != nil {
		ts.bloom.add(v)
	}
	return nil
}

// Erase removes v, reporting whether it was present.
func (ts TransientHashSet[T]) Erase(v T) (bool, error) { return ts.tr.Erase(v) }

// Persistent publishes ts's current value as a HashSet and invalidates ts.
func (ts TransientHashSet[T]) Persistent() HashSet[T] {
	return HashSet[T]{m: ts.tr.Persistent(), bloom: ts.bloom}
}
