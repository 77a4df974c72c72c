// Package xerr holds the sentinel errors shared by every engine package and
// re-exported from the root persist package (§7). Allocation failures are
// reported directly as memory.ErrAllocationFailure instead of being
// duplicated here.
package xerr

import "errors"

var (
	// ErrOutOfRange is returned by at/set/update/take/drop/insert/erase when
	// an index falls outside [0, size] (or [0, size) where the operation
	// requires an existing element).
	ErrOutOfRange = errors.New("persist: index out of range")

	// ErrTransientMisuse names the use of a transient after persistent() has
	// invalidated it. No code path returns it: a dead transient is silently
	// re-armed (transient.Owner.Rearm).
	ErrTransientMisuse = errors.New("persist: transient used after persistent()")

	// ErrCapacityExceeded is returned by construction from a sequence whose
	// length exceeds the theoretical maximum for the configured branching.
	ErrCapacityExceeded = errors.New("persist: capacity exceeded")
)
