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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxGetSetUpdate(t *testing.T) {
	b := NewBox(41)
	assert.Equal(t, 41, b.Get())

	nb := b.Update(func(x int) int { return x + 1 })
	assert.Equal(t, 42, nb.Get())
	assert.Equal(t, 41, b.Get(), "original box must be unaffected by Update")

	sb := b.Set(7)
	assert.Equal(t, 7, sb.Get())
	assert.Equal(t, 41, b.Get())
}

func TestBoxRefCount(t *testing.T) {
	b := NewBox("hello")
	assert.Equal(t, int32(1), b.RefCount())
	c := b.clone()
	assert.Equal(t, int32(2), b.RefCount())
	assert.Equal(t, "hello", c.Get())
}
