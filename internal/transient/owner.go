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

// Package transient implements the L6 single-owner mutation protocol (§4.6):
// an Owner is a mutable view sharing structure with a persistent container.
// Its Token is what noderef.Header.OwnedBy compares against; the rbt and
// champ transients do not stamp nodes with it, so their spine mutations
// always path-copy.
package transient

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hamtree/persist/internal/memory"
)

// Token identifies one transient owner. Two tokens compare equal iff they
// name the same owner.
type Token struct {
	mode  memory.TransienceMode
	owner *Owner    // identity under TransienceDisabled
	id    uuid.UUID // identity under TransienceTokens
}

// Mode reports which transience discipline minted this token.
func (t Token) Mode() memory.TransienceMode { return t.mode }

// Equal reports whether t and other name the same live or dead owner.
func (t Token) Equal(other Token) bool {
	if t.mode != other.mode {
		return false
	}
	if t.mode == memory.TransienceTokens {
		return t.id == other.id
	}
	return t.owner == other.owner
}

// Owner is a live transient. It is not safe for concurrent use from more
// than one goroutine (§5).
type Owner struct {
	token Token
	live  int32
}

// New mints a fresh, live owner under the given transience discipline.
func New(mode memory.TransienceMode) *Owner {
	o := &Owner{live: 1}
	o.arm(mode)
	return o
}

func (o *Owner) arm(mode memory.TransienceMode) {
	if mode == memory.TransienceTokens {
		o.token = Token{mode: mode, id: uuid.New()}
		return
	}
	o.token = Token{mode: mode, owner: o}
}

// Token returns the owner's current stamp.
func (o *Owner) Token() Token { return o.token }

// Alive reports whether Persistent() (Invalidate) has not yet been called.
func (o *Owner) Alive() bool { return atomic.LoadInt32(&o.live) == 1 }

// Invalidate marks the owner dead, called when the transient is converted
// back to a persistent container via persistent().
func (o *Owner) Invalidate() { atomic.StoreInt32(&o.live, 0) }

// Rearm re-arms a dead owner with a fresh token, the "silent re-arming"
// resolution of the TransientMisuse open question (§7.3, §9): callers in
// internal/rbt and internal/champ call this from checkAlive whenever the
// owner is no longer alive, rather than surfacing xerr.ErrTransientMisuse
// to the caller.
func (o *Owner) Rearm() {
	o.arm(o.token.mode)
	atomic.StoreInt32(&o.live, 1)
}
