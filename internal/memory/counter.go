package memory

import "sync/atomic"

// Counter is a node's liveness count. Its arithmetic depends on the owning
// policy's RefcountMode. Under RefcountNone it is bookkeeping only: Go's
// garbage collector, not this counter, decides when the node's storage is
// actually reclaimed.
type Counter struct {
	mode RefcountMode
	n    int32
}

// NewCounter returns a counter initialized to one live reference.
func NewCounter(mode RefcountMode) *Counter {
	return &Counter{mode: mode, n: 1}
}

// Inc records a new reference to the node (invariant 5, §3).
func (c *Counter) Inc() {
	if c == nil {
		return
	}
	if c.mode == RefcountAtomic {
		atomic.AddInt32(&c.n, 1)
		return
	}
	c.n++
}

// Dec drops a reference and reports whether it was the last one.
func (c *Counter) Dec() bool {
	if c == nil {
		return false
	}
	if c.mode == RefcountAtomic {
		return atomic.AddInt32(&c.n, -1) <= 0
	}
	c.n--
	return c.n <= 0
}

// Load returns the current count. Under RefcountSingleThread this is only
// meaningful from the owning goroutine.
func (c *Counter) Load() int32 {
	if c == nil {
		return 0
	}
	if c.mode == RefcountAtomic {
		return atomic.LoadInt32(&c.n)
	}
	return c.n
}

// Unique reports whether the node has exactly one live reference — the
// transient in-place-mutation test for the refcounted policies (invariant 6,
// §3).
func (c *Counter) Unique() bool {
	return c.Load() == 1
}

// Mode reports the counter's refcount discipline.
func (c *Counter) Mode() RefcountMode {
	if c == nil {
		return RefcountNone
	}
	return c.mode
}
