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
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHashSet(t *testing.T, n int, opts ...SetOption[string]) HashSet[string] {
	t.Helper()
	s, err := NewHashSet[string](StringHasher(), opts...)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		ns, err := s.Insert(fmt.Sprintf("v%d", i))
		require.NoError(t, err)
		s = ns
	}
	return s
}

func TestHashSetInsertContainsErase(t *testing.T) {
	s := buildHashSet(t, 100)
	require.Equal(t, 100, s.Size())
	assert.True(t, s.Contains("v50"))
	assert.False(t, s.Contains("nope"))

	// inserting an existing element is a no-op
	same, err := s.Insert("v50")
	require.NoError(t, err)
	assert.Equal(t, s.Size(), same.Size())

	ns, removed, err := s.Erase("v50")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, ns.Contains("v50"))
}

// TestHashSetEqualityUnderPermutation builds the same element set via two
// different insertion orders and checks Equal ignores that difference
// (§8's "HashSet equality under permutation").
func TestHashSetEqualityUnderPermutation(t *testing.T) {
	elems := make([]string, 80)
	for i := range elems {
		elems[i] = fmt.Sprintf("v%d", i)
	}

	a, err := NewHashSet[string](StringHasher())
	require.NoError(t, err)
	for _, e := range elems {
		a, err = a.Insert(e)
		require.NoError(t, err)
	}

	shuffled := append([]string(nil), elems...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	b, err := NewHashSet[string](StringHasher())
	require.NoError(t, err)
	for _, e := range shuffled {
		b, err = b.Insert(e)
		require.NoError(t, err)
	}

	assert.True(t, a.Equal(b))
}

func TestHashSetBloomAccelerator(t *testing.T) {
	s := buildHashSet(t, 500, WithBloomFilter[string](1000, 0.01))
	for i := 0; i < 500; i++ {
		assert.True(t, s.Contains(fmt.Sprintf("v%d", i)))
	}
	assert.False(t, s.Contains("definitely-absent-key"))

	ns, removed, err := s.Erase("v10")
	require.NoError(t, err)
	assert.True(t, removed)
	// the bloom filter never un-sets bits on erase; Contains must still
	// fall through to the CHAMP trie and answer correctly.
	assert.False(t, ns.Contains("v10"))
}

func TestTransientHashSet(t *testing.T) {
	s, err := NewHashSet[string](StringHasher())
	require.NoError(t, err)
	ts := s.AsTransient()
	for i := 0; i < 60; i++ {
		require.NoError(t, ts.Insert(fmt.Sprintf("v%d", i)))
	}
	built := ts.Persistent()
	assert.Equal(t, 60, built.Size())
	assert.True(t, built.Contains("v0"))
}
