package memory

import (
	"sync"

	"github.com/edsrzf/mmap-go"
)

// defaultArenaSize is the size of the single region an arena heap reserves
// up front.
const defaultArenaSize = 64 << 20 // 64MiB

// arenaHeap reserves one large mmap'd region and bump-allocates handles out
// of it: the "prefer-fewer-bigger-objects" packing strategy from §4.1 taken
// literally. Deallocate is a no-op on the region itself (the arena is freed
// as a unit via Close) — individual cells are not reused, which is the
// expected tradeoff for this policy: fewer, larger allocations instead of
// one free-list entry per node.
type arenaHeap struct {
	mu                           sync.Mutex
	region                       mmap.MMap
	offset                       int
	live, allocated, deallocated int64
}

// NewArenaHeap reserves the default-sized arena.
func NewArenaHeap() (Heap, error) {
	return NewArenaHeapSize(defaultArenaSize)
}

// NewArenaHeapSize reserves an arena of the given size in bytes.
func NewArenaHeapSize(size int) (Heap, error) {
	region, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	return &arenaHeap{region: region}, nil
}

func (h *arenaHeap) Allocate(tag HeapTag, size int) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if size <= 0 {
		size = 1
	}
	if h.offset+size > len(h.region) {
		return 0, ErrAllocationFailure
	}
	handle := Handle(h.offset + 1)
	h.offset += size
	h.live++
	h.allocated++
	return handle, nil
}

func (h *arenaHeap) Deallocate(Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live--
	h.deallocated++
}

func (h *arenaHeap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Live: h.live, Allocated: h.allocated, Deallocated: h.deallocated}
}

// Close releases the underlying mmap region. Safe to call once, after the
// heap (and every container built against it) has been discarded.
func (h *arenaHeap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.region.Unmap()
}
