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

// Package noderef holds the small header every L2 node embeds: a liveness
// counter plus an optional transient-owner stamp (invariants 5 and 6, §3).
// Both internal/rbt and internal/champ embed Header in their own node types
// rather than sharing one concrete node struct, because the two engines'
// payloads (child/value arrays vs CHAMP bitmaps) differ; Header is the part
// that is genuinely identical.
package noderef

import (
	"github.com/hamtree/persist/internal/memory"
	"github.com/hamtree/persist/internal/transient"
)

// Header is embedded by every tree-engine node.
type Header struct {
	Counter *memory.Counter
	Owner   *transient.Token // nil until a transient mutates this node in place
}

// NewHeader returns a fresh header for a newly allocated, uniquely owned
// node.
func NewHeader(mode memory.RefcountMode) Header {
	return Header{Counter: memory.NewCounter(mode)}
}

// Retain bumps the node's reference count (invariant 5).
func (h *Header) Retain() { h.Counter.Inc() }

// Release drops the node's reference count and reports whether it reached
// zero. Callers use this to decide whether to enqueue the node's children
// for the same, non-recursive release walk (invariant 5's "explicit
// work-list to bound stack depth").
func (h *Header) Release() bool { return h.Counter.Dec() }

// OwnedBy reports whether a transient stamped with tok may mutate this node
// in place rather than copy it: the stamp must match, and — unless the
// owning policy uses value-compared tokens — the refcount must be exactly
// one (invariant 6, §3; §4.6).
func (h *Header) OwnedBy(tok transient.Token) bool {
	if h.Owner == nil {
		return false
	}
	if !h.Owner.Equal(tok) {
		return false
	}
	if tok.Mode() == memory.TransienceTokens {
		return true
	}
	return h.Counter.Unique()
}

// Stamp records tok as the owner of this node. The rbt and champ transients
// do not call it, so no engine node is ever stamped.
func (h *Header) Stamp(tok transient.Token) {
	t := tok
	h.Owner = &t
}

// Unstamp clears ownership. Like Stamp, it has no caller in the engines;
// transient.Owner.Invalidate does not touch nodes.
func (h *Header) Unstamp() { h.Owner = nil }
