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

// Package memory implements the L1 memory policy: the pluggable tuple of
// heap, refcount discipline, transience scheme and relocation tracking that
// every tree engine is built against. Engines never allocate or reclaim
// storage directly; they always go through a Policy.
package memory

import "errors"

// ErrAllocationFailure is returned by a Heap when it cannot satisfy a
// request. Mutating operations that observe it must leave the caller's
// container unchanged and release any fragment already built (§7).
var ErrAllocationFailure = errors.New("memory: allocation failure")

// RefcountMode selects how node liveness is tracked.
type RefcountMode int

const (
	// RefcountAtomic bumps/drops reference counts with atomic instructions;
	// containers using it may be freely shared and derived from across
	// goroutines.
	RefcountAtomic RefcountMode = iota
	// RefcountSingleThread uses plain integer arithmetic. Faster, but every
	// container built under it — and anything derived from it — must stay
	// confined to a single goroutine.
	RefcountSingleThread
	// RefcountNone disables manual bookkeeping; reclamation is left entirely
	// to the Go garbage collector, mirroring the tracing-GC policy (§4.1).
	// A Counter under this mode is inert bookkeeping, not a correctness
	// mechanism: Go frees memory once the last Go-level reference is gone
	// regardless of what the counter reads.
	RefcountNone
)

// TransienceMode selects how a transient proves ownership of a node.
type TransienceMode int

const (
	// TransienceDisabled identifies a transient by its own address; a node
	// is owned iff it is stamped with that address AND (under a refcounted
	// mode) its count is exactly one.
	TransienceDisabled TransienceMode = iota
	// TransienceTokens identifies a transient by a token compared by value
	// rather than by its address; used with RefcountNone since there is no
	// refcount to fall back on. The engines' transients do not stamp nodes
	// with it.
	TransienceTokens
)

// HeapTag distinguishes allocation classes. A Heap implementation MAY use it
// to separate pointer-free (leaf) allocations from mixed (inner/collision)
// ones.
type HeapTag int

const (
	TagLeaf HeapTag = iota
	TagInner
	TagCollision
)

// Handle is an opaque allocation ticket returned by a Heap. It carries no
// guarantees about Go pointer identity; node storage itself remains ordinary
// garbage-collected Go memory. A Handle exists so a Policy can account for,
// bound, and in the free-list and arena cases actually back, how many cells
// of each size class are live.
type Handle uint64

// Stats reports a Heap's aggregate bookkeeping.
type Stats struct {
	Live        int64
	Allocated   int64
	Deallocated int64
}

// Heap is the allocator half of the memory policy (§4.1).
type Heap interface {
	Allocate(tag HeapTag, size int) (Handle, error)
	Deallocate(h Handle)
	Stats() Stats
}

// Policy is the (Heap, Refcount, Transience, Relocation,
// prefer-fewer-bigger-objects) tuple from §4.1.
type Policy struct {
	Heap              Heap
	Refcount          RefcountMode
	Transience        TransienceMode
	Relocation        bool
	PreferFewerBigger bool
}

// Default is the required atomic-refcount + malloc-style heap policy.
func Default() Policy {
	return Policy{
		Heap:       NewMallocHeap(),
		Refcount:   RefcountAtomic,
		Transience: TransienceDisabled,
	}
}

// SingleThreaded is the required single-thread-refcount + free-list-heap
// policy; fastest path for thread-confined bulk construction.
func SingleThreaded() Policy {
	return Policy{
		Heap:              NewFreeListHeap(),
		Refcount:          RefcountSingleThread,
		Transience:        TransienceDisabled,
		PreferFewerBigger: true,
	}
}

// GC is a tracing-GC-backed policy: refcounting is switched off and
// transient ownership is proven with value-compared tokens instead.
func GC() Policy {
	return Policy{
		Heap:       NewMallocHeap(),
		Refcount:   RefcountNone,
		Transience: TransienceTokens,
	}
}

// Arena is a policy packing nodes in a single mmap'd arena, the
// "prefer-fewer-bigger-objects" strategy, for workloads that build one huge
// container once and tear it down as a unit.
func Arena() (Policy, error) {
	h, err := NewArenaHeap()
	if err != nil {
		return Policy{}, err
	}
	return Policy{
		Heap:              h,
		Refcount:          RefcountSingleThread,
		Transience:        TransienceDisabled,
		PreferFewerBigger: true,
	}, nil
}

// Debug wraps p's heap with the double-free-checking debug heap (§4.1).
func Debug(p Policy) Policy {
	p.Heap = NewDebugHeap(p.Heap)
	return p
}
