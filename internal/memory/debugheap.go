package memory

import (
	"encoding/binary"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"
)

// debugShadowBytes sizes the shadow cache used to track live allocations.
const debugShadowBytes = 4 << 20 // 4MiB

// debugHeap wraps another Heap and records (tag, size) for every live handle
// in a fastcache.Cache keyed by the handle (the debug wrapper of §4.1).
// Deallocate panics on a double-free or an unrecognized handle; the recorded
// size is not read back or checked.
type debugHeap struct {
	inner  Heap
	shadow *fastcache.Cache
}

// NewDebugHeap wraps inner with double-free/unknown-handle checking.
func NewDebugHeap(inner Heap) Heap {
	return &debugHeap{inner: inner, shadow: fastcache.New(debugShadowBytes)}
}

func shadowKey(h Handle) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(h))
	return b[:]
}

func (h *debugHeap) Allocate(tag HeapTag, size int) (Handle, error) {
	handle, err := h.inner.Allocate(tag, size)
	if err != nil {
		return 0, err
	}
	var rec [9]byte
	rec[0] = byte(tag)
	binary.BigEndian.PutUint64(rec[1:], uint64(size))
	h.shadow.Set(shadowKey(handle), rec[:])
	return handle, nil
}

func (h *debugHeap) Deallocate(handle Handle) {
	if !h.shadow.Has(shadowKey(handle)) {
		panic(fmt.Sprintf("memory: debug heap: double free or unknown handle %d", handle))
	}
	h.shadow.Del(shadowKey(handle))
	h.inner.Deallocate(handle)
}

func (h *debugHeap) Stats() Stats { return h.inner.Stats() }
