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

// Package rbt is the shared radix-tree engine backing both BVec (plain,
// always-regular tree) and RRBVec (relaxed tree with size tables, concat,
// slicing). The two containers differ only in which of this package's
// operations their facades expose — the node shape, indexing and path-copy
// machinery are identical, mirroring the single rbts ("radix-b-tree-shared")
// namespace the C++ original splits its regular and relaxed iterators from.
package rbt

import (
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/metrics"
)

// DefaultBits is the branching factor exponent (BF = 1<<DefaultBits) used
// when a Config leaves B unset: 32-way branching.
const DefaultBits = 5

// Config carries the memory policy and branching factor a Tree is built
// against. Every Tree derived from another (via PushBack, Concat, ...)
// inherits its Config.
type Config struct {
	Policy  memory.Policy
	B       uint
	Metrics *metrics.Registry // optional; nil discards observations
}

func (c Config) bf() int    { return 1 << c.B }
func (c Config) mask() int  { return c.bf() - 1 }
func (c Config) bits() uint { return c.B }

// normalize fills in defaults so a zero-value Config is usable.
func (c Config) normalize() Config {
	if c.B == 0 {
		c.B = DefaultBits
	}
	if c.Policy.Heap == nil {
		c.Policy = memory.Default()
	}
	return c
}

// capacity returns how many elements a regular (no size table) subtree
// rooted at the given shift can hold: a leaf (shift 0) holds bf() elements,
// and each level above multiplies by bf() again.
func capacity(cfg Config, shift uint) int {
	n := 1
	for s := int(shift); s >= 0; s -= int(cfg.B) {
		n *= cfg.bf()
		if s == 0 {
			break
		}
	}
	return n
}
