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
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/xerr"
)

// Sentinel errors (§7), re-exported from the internal packages that
// actually raise them so callers only ever need to import this package.
var (
	// ErrOutOfRange is returned by At/Set/Update/Take/Drop/Insert/Erase
	// when an index falls outside the container's valid range.
	ErrOutOfRange = xerr.ErrOutOfRange

	// ErrAllocationFailure is returned when the configured Heap cannot
	// satisfy a request. The container the failing call was made on is
	// left observably unchanged.
	ErrAllocationFailure = memory.ErrAllocationFailure

	// ErrTransientMisuse is the sentinel the §7.3 TransientMisuse error
	// kind would be reported as. No code path currently returns it: a dead
	// Transient's checkAlive always silently re-arms with a fresh owner
	// token (internal/transient.Owner.Rearm) rather than surfacing this
	// error, the "silent re-arming" resolution DESIGN.md records for that
	// open question. Exported for forward compatibility with callers that
	// already match on it.
	ErrTransientMisuse = xerr.ErrTransientMisuse

	// ErrCapacityExceeded is returned by construction from a sequence
	// whose length exceeds the theoretical maximum for the configured
	// branching factor.
	ErrCapacityExceeded = xerr.ErrCapacityExceeded
)
