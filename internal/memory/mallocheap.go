package memory

import "sync/atomic"

// mallocHeap is the default heap: every allocation simply succeeds and is
// accounted for; the actual node storage is ordinary Go-GC'd memory. This is
// the "malloc wrapper" variant of §4.1.
type mallocHeap struct {
	next        uint64
	live        int64
	allocated   int64
	deallocated int64
}

// NewMallocHeap returns the default, never-failing heap policy.
func NewMallocHeap() Heap { return &mallocHeap{} }

func (h *mallocHeap) Allocate(tag HeapTag, size int) (Handle, error) {
	atomic.AddInt64(&h.live, 1)
	atomic.AddInt64(&h.allocated, 1)
	return Handle(atomic.AddUint64(&h.next, 1)), nil
}

func (h *mallocHeap) Deallocate(Handle) {
	atomic.AddInt64(&h.live, -1)
	atomic.AddInt64(&h.deallocated, 1)
}

func (h *mallocHeap) Stats() Stats {
	return Stats{
		Live:        atomic.LoadInt64(&h.live),
		Allocated:   atomic.LoadInt64(&h.allocated),
		Deallocated: atomic.LoadInt64(&h.deallocated),
	}
}
