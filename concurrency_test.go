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
	"context"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentReadsAreWaitFree exercises the claim that concurrent reads
// and derivations from one shared container need no synchronization beyond
// the policy's own refcount bumps (§5). Many goroutines read from, and
// derive fresh versions off of, the same base BVec/HashMap concurrently
// under the default atomic-refcount policy; none may observe a torn or
// corrupted value, and the base container must remain unchanged throughout.
func TestConcurrentReadsAreWaitFree(t *testing.T) {
	base, err := BVecFromSlice(rangeSlice(2000), WithPolicy(DefaultPolicy()))
	require.NoError(t, err)

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < 32; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				idx := (w*200 + i) % base.Size()
				got, err := base.At(idx)
				if err != nil {
					return err
				}
				if got != idx {
					t.Errorf("goroutine %d: At(%d) = %d, want %d", w, idx, got, idx)
				}
				if _, err := base.Set(idx, -1); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 0; i < base.Size(); i++ {
		got, err := base.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, got, "base container must be unchanged by derived Sets")
	}
}

// TestConcurrentHashMapDerivation mirrors the above for HashMap: many
// goroutines derive independent new maps off one shared base concurrently.
func TestConcurrentHashMapDerivation(t *testing.T) {
	base := NewHashMap[int, int](Int64Hasher2(), WithMapPolicy(DefaultPolicy()))
	for i := 0; i < 1000; i++ {
		nb, err := base.Set(i, i)
		require.NoError(t, err)
		base = nb
	}

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < 16; w++ {
		w := w
		g.Go(func() error {
			derived := base
			for i := 0; i < 50; i++ {
				nd, err := derived.Set(w*1000+i, w)
				if err != nil {
					return err
				}
				derived = nd
			}
			if derived.Size() != base.Size()+50 {
				t.Errorf("goroutine %d: derived size %d, want %d", w, derived.Size(), base.Size()+50)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1000, base.Size(), "base map must be unchanged by derived Sets")
}
