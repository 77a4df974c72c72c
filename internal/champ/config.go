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

// Package champ implements a Compressed Hash-Array Mapped Prefix-tree: a
// hash trie whose inner nodes carry two 32-bit bitmaps — datamap for slots
// holding a key/value pair directly, nodemap for slots holding a child —
// so a node with few live slots costs as little as a handful of words
// instead of a fixed 32-wide array. It backs HashMap, HashSet and
// HashTable.
package champ

import (
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/metrics"
)

// DefaultBits is the hash-fragment width per level (32-way branching),
// matching rbt.DefaultBits.
const DefaultBits = 5

// HashFunc computes a 64-bit hash for a key. Callers supply one matching
// their key type; see the root package's xxhash-backed helpers for common
// cases.
type HashFunc[K any] func(K) uint64

// EqFunc reports whether two keys are equal, used to break ties among
// entries that share a hash fragment (or, at full depth, an actual hash
// collision).
type EqFunc[K any] func(a, b K) bool

// Config carries the memory policy and hash-fragment width a Map is built
// against.
type Config struct {
	Policy  memory.Policy
	B       uint
	Metrics *metrics.Registry // optional; nil discards observations
}

func (c Config) bf() int { return 1 << c.B }

func (c Config) normalize() Config {
	if c.B == 0 {
		c.B = DefaultBits
	}
	if c.Policy.Heap == nil {
		c.Policy = memory.Default()
	}
	return c
}

// maxDepth is the level past which a 64-bit hash has no fragments left,
// forcing a collision bucket regardless of whether the keys are genuinely
// equal hashes or the trie has simply run out of bits.
func maxDepth(bits uint) uint {
	return uint((64 + uint64(bits) - 1) / uint64(bits))
}

func fragment(hash uint64, depth uint, bits uint) uint32 {
	shift := depth * bits
	if shift >= 64 {
		return 0
	}
	return uint32((hash >> shift) & uint64((1<<bits)-1))
}
