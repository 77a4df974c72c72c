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
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hasher computes a hash for a key and tests two keys for equality; the
// equality predicate must be an equivalence refining the hash (§6: "E must
// be an equivalence refining hash"). HashMap, HashSet and HashTable are
// all built against one of these.
type Hasher[K any] interface {
	Hash(K) uint64
	Equal(a, b K) bool
}

// funcHasher adapts a pair of functions to the Hasher interface.
type funcHasher[K any] struct {
	hash func(K) uint64
	eq   func(a, b K) bool
}

func (f funcHasher[K]) Hash(k K) uint64     { return f.hash(k) }
func (f funcHasher[K]) Equal(a, b K) bool   { return f.eq(a, b) }

// NewHasher builds a Hasher from a hash and equality function.
func NewHasher[K any](hash func(K) uint64, eq func(a, b K) bool) Hasher[K] {
	return funcHasher[K]{hash: hash, eq: eq}
}

// StringHasher hashes string keys with xxhash64, whose 64 bits are enough
// for the ⌈64/5⌉ = 13-level CHAMP depth cap at the default B = 5.
func StringHasher() Hasher[string] {
	return funcHasher[string]{
		hash: func(s string) uint64 { return xxhash.Sum64String(s) },
		eq:   func(a, b string) bool { return a == b },
	}
}

// BytesHasher hashes []byte keys with xxhash64.
func BytesHasher() Hasher[[]byte] {
	return funcHasher[[]byte]{
		hash: xxhash.Sum64,
		eq: func(a, b []byte) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
	}
}

// Int64Hasher hashes int64 keys by feeding their big-endian bytes to
// xxhash64, avoiding the trivial-multiplicative-hash pitfalls of hashing a
// machine word directly (§1 "the library does not enforce hash quality; a
// degenerate hash merely degrades performance" — this is the "don't hand
// callers a degenerate default" counterpart).
func Int64Hasher() Hasher[int64] {
	return funcHasher[int64]{
		hash: func(i int64) uint64 {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(i))
			return xxhash.Sum64(b[:])
		},
		eq: func(a, b int64) bool { return a == b },
	}
}

// StringerHasher hashes any fmt.Stringer key by its string form — useful
// for exercising heavyweight value types such as uint256.Int as map keys
// (its String() is canonical decimal).
func StringerHasher[K fmt.Stringer]() Hasher[K] {
	return funcHasher[K]{
		hash: func(k K) uint64 { return xxhash.Sum64String(k.String()) },
		eq:   func(a, b K) bool { return a.String() == b.String() },
	}
}
