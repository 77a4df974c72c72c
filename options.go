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
	"github.com/hamtree/persist/internal/metrics"
	"github.com/hamtree/persist/internal/rbt"
)

// MemoryPolicy is the (Heap, Refcount, Transience, Relocation,
// prefer-fewer-bigger-objects) tuple of §4.1, configurable per container.
type MemoryPolicy = memory.Policy

// RefcountMode and TransienceMode select two axes of a MemoryPolicy.
type (
	RefcountMode   = memory.RefcountMode
	TransienceMode = memory.TransienceMode
)

// Refcount discipline constants (§4.1).
const (
	RefcountAtomic       = memory.RefcountAtomic
	RefcountSingleThread = memory.RefcountSingleThread
	RefcountNone         = memory.RefcountNone
)

// Transience discipline constants (§4.1).
const (
	TransienceDisabled = memory.TransienceDisabled
	TransienceTokens   = memory.TransienceTokens
)

// DefaultPolicy is the required atomic-refcount + malloc-style heap
// policy (§6): the default for every constructor in this package.
func DefaultPolicy() MemoryPolicy { return memory.Default() }

// SingleThreadedPolicy is the required single-thread-refcount +
// free-list-heap policy: the fast path for thread-confined bulk
// construction (§6).
func SingleThreadedPolicy() MemoryPolicy { return memory.SingleThreaded() }

// GCPolicy disables manual refcounting in favor of Go's own garbage
// collector, proving transient ownership with value-compared tokens
// instead (§4.1's gc-tokens transience).
func GCPolicy() MemoryPolicy { return memory.GC() }

// ArenaPolicy packs nodes into one large mmap'd region, the
// "prefer-fewer-bigger-objects" strategy (§4.1), for workloads that build
// one large container and tear it down as a unit.
func ArenaPolicy() (MemoryPolicy, error) { return memory.Arena() }

// DebugPolicy wraps p's heap with a debug heap that records the tag and size
// of every live allocation and panics on a double free or an unknown handle.
// The recorded size is not checked for overruns.
func DebugPolicy(p MemoryPolicy) MemoryPolicy { return memory.Debug(p) }

// vecOpts is the option target shared by BVec and RRBVec constructors.
type vecOpts struct {
	cfg rbt.Config
}

// VecOption configures a BVec or RRBVec at construction time.
type VecOption func(*vecOpts)

// WithPolicy sets the container's memory policy.
func WithPolicy(p MemoryPolicy) VecOption {
	return func(o *vecOpts) { o.cfg.Policy = p }
}

// WithBranchingBits overrides the default branching factor exponent
// (B ≤ 6 per §6's type-parameter constraint).
func WithBranchingBits(b uint) VecOption {
	return func(o *vecOpts) { o.cfg.B = b }
}

// WithMetrics attaches a metrics registry the engine reports node
// allocation/release counts to. Path copies are not reported.
func WithMetrics(m *metrics.Registry) VecOption {
	return func(o *vecOpts) { o.cfg.Metrics = m }
}

func buildVecOpts(opts []VecOption) rbt.Config {
	var o vecOpts
	for _, apply := range opts {
		apply(&o)
	}
	return o.cfg
}

// mapOpts is the option target shared by HashMap, HashSet and HashTable
// constructors.
type mapOpts struct {
	cfg champ.Config
}

// MapOption configures a HashMap, HashSet or HashTable at construction
// time.
type MapOption func(*mapOpts)

// WithMapPolicy sets the container's memory policy.
func WithMapPolicy(p MemoryPolicy) MapOption {
	return func(o *mapOpts) { o.cfg.Policy = p }
}

// WithMapBranchingBits overrides the default hash-fragment width.
func WithMapBranchingBits(b uint) MapOption {
	return func(o *mapOpts) { o.cfg.B = b }
}

// WithMapMetrics attaches a metrics registry to the CHAMP engine.
func WithMapMetrics(m *metrics.Registry) MapOption {
	return func(o *mapOpts) { o.cfg.Metrics = m }
}

func buildMapOpts(opts []MapOption) champ.Config {
	var o mapOpts
	for _, apply := range opts {
		apply(&o)
	}
	return o.cfg
}
