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
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMapSetFindErase(t *testing.T) {
	m := NewHashMap[string, int](StringHasher())
	for i := 0; i < 300; i++ {
		nm, err := m.Set(fmt.Sprintf("k%d", i), i)
		require.NoError(t, err)
		m = nm
	}
	require.Equal(t, 300, m.Size())

	for i := 0; i < 300; i++ {
		v, ok := m.Find(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	nm, removed, err := m.Erase("k150")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 299, nm.Size())
	_, ok := nm.Find("k150")
	assert.False(t, ok)

	// erase of an absent key is a no-op, same value returned
	same, removed, err := nm.Erase("k150")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, nm.Size(), same.Size())
}

// degenerateHash always returns the same hash, forcing every key into one
// collision bucket regardless of key content.
func degenerateHash(string) uint64 { return 42 }

func TestHashMapDegenerateHashCollision(t *testing.T) {
	h := NewHasher(degenerateHash, func(a, b string) bool { return a == b })
	m := NewHashMap[string, int](h)

	keys := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for i, k := range keys {
		nm, err := m.Set(k, i)
		require.NoError(t, err)
		m = nm
	}
	require.Equal(t, len(keys), m.Size())
	for i, k := range keys {
		v, ok := m.Find(k)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	nm, removed, err := m.Erase("bravo")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, len(keys)-1, nm.Size())
	_, ok := nm.Find("bravo")
	assert.False(t, ok)
	_, ok = nm.Find("charlie")
	assert.True(t, ok)
}

func TestHashMapIteratorMatchesOracleSet(t *testing.T) {
	m := NewHashMap[int, int](Int64Hasher2())
	oracle := mapset.NewSet[int]()
	for i := 0; i < 200; i++ {
		nm, err := m.Set(i, i*i)
		require.NoError(t, err)
		m = nm
		oracle.Add(i)
	}

	seen := mapset.NewSet[int]()
	it := m.Iterator()
	for it.HasNext() {
		k, v, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, k*k, v)
		seen.Add(k)
	}
	assert.True(t, oracle.Equal(seen))
}

// Int64Hasher2 adapts Int64Hasher to an int-keyed map for the test above.
func Int64Hasher2() Hasher[int] {
	h := Int64Hasher()
	return NewHasher(
		func(i int) uint64 { return h.Hash(int64(i)) },
		func(a, b int) bool { return a == b },
	)
}

func TestHashMapTransientBulkBuildParity(t *testing.T) {
	m := NewHashMap[string, int](StringHasher())
	tm := m.AsTransient()
	for i := 0; i < 400; i++ {
		require.NoError(t, tm.Set(fmt.Sprintf("k%d", i), i))
	}
	built := tm.Persistent()

	persistent := NewHashMap[string, int](StringHasher())
	for i := 0; i < 400; i++ {
		nm, err := persistent.Set(fmt.Sprintf("k%d", i), i)
		require.NoError(t, err)
		persistent = nm
	}

	assert.True(t, built.Equal(persistent, func(a, b int) bool { return a == b }))
}
