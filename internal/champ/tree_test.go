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

package champ

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func stringEq(a, b string) bool { return a == b }

func buildMap(t *testing.T, n int) Map[string, int] {
	t.Helper()
	m := Empty[string, int](Config{}, stringHash, stringEq)
	for i := 0; i < n; i++ {
		nm, err := m.Set(fmt.Sprintf("k%d", i), i)
		require.NoError(t, err)
		m = nm
	}
	return m
}

func TestSetFindContains(t *testing.T) {
	m := buildMap(t, 400)
	require.Equal(t, 400, m.Size())
	for i := 0; i < 400; i++ {
		v, ok := m.Find(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.False(t, m.Contains("absent"))
}

func TestSetReplacesExistingKeyWithoutGrowingSize(t *testing.T) {
	m := buildMap(t, 10)
	nm, err := m.Set("k5", 999)
	require.NoError(t, err)
	assert.Equal(t, m.Size(), nm.Size())
	v, ok := nm.Find("k5")
	require.True(t, ok)
	assert.Equal(t, 999, v)

	orig, ok := m.Find("k5")
	require.True(t, ok)
	assert.Equal(t, 5, orig)
}

func TestEraseAbsentKeyIsNoop(t *testing.T) {
	m := buildMap(t, 20)
	nm, removed, err := m.Erase("nope")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, m.Size(), nm.Size())
}

func TestEraseRemovesEveryKey(t *testing.T) {
	m := buildMap(t, 300)
	for i := 0; i < 300; i++ {
		var err error
		var removed bool
		key := fmt.Sprintf("k%d", i)
		m, removed, err = m.Erase(key)
		require.NoError(t, err)
		require.True(t, removed)
		assert.False(t, m.Contains(key))
	}
	assert.Equal(t, 0, m.Size())
}

// degenerateHash funnels every key into the same bucket, forcing collision
// nodes regardless of key distribution.
func degenerateHash(string) uint64 { return 7 }

func TestCollisionNodeInsertFindErase(t *testing.T) {
	m := Empty[string, int](Config{}, degenerateHash, stringEq)
	keys := []string{"one", "two", "three", "four", "five"}
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

	nm, removed, err := m.Erase("three")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, len(keys)-1, nm.Size())
	assert.False(t, nm.Contains("three"))
	assert.True(t, nm.Contains("four"))

	// the untouched map must still see all five
	assert.Equal(t, len(keys), m.Size())
}

// TestMixedHashSplitsCollisionBucket exercises splitCollision: a key that
// shares every fragment up to some depth with an existing collision bucket,
// but not the bucket's actual hash, must be spliced in as a sibling rather
// than merged into the bucket.
func TestMixedHashSplitsCollisionBucket(t *testing.T) {
	hashes := map[string]uint64{
		"a": 0x1111,
		"b": 0x1111, // true collision with "a"
		"c": 0x1131, // same depth-0 fragment (17) as "a"/"b", different depth-1 fragment (9 vs 8)
	}
	hash := func(s string) uint64 { return hashes[s] }
	m := Empty[string, int](Config{}, hash, stringEq)

	for i, k := range []string{"a", "b", "c"} {
		nm, err := m.Set(k, i)
		require.NoError(t, err)
		m = nm
	}
	require.Equal(t, 3, m.Size())
	for i, k := range []string{"a", "b", "c"} {
		v, ok := m.Find(k)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestIteratorVisitsEveryEntryExactlyOnce(t *testing.T) {
	m := buildMap(t, 500)
	seen := make(map[string]int, 500)
	it := m.Iterator()
	for it.HasNext() {
		k, v, err := it.Next()
		require.NoError(t, err)
		seen[k] = v
	}
	assert.Len(t, seen, 500)
	for i := 0; i < 500; i++ {
		assert.Equal(t, i, seen[fmt.Sprintf("k%d", i)])
	}
}

func TestEqualIndependentOfInsertionOrder(t *testing.T) {
	a := Empty[string, int](Config{}, stringHash, stringEq)
	b := Empty[string, int](Config{}, stringHash, stringEq)

	forward := []string{"p", "q", "r", "s", "t"}
	backward := []string{"t", "s", "r", "q", "p"}

	for i, k := range forward {
		nm, err := a.Set(k, i)
		require.NoError(t, err)
		a = nm
	}
	for _, k := range backward {
		var i int
		for j, fk := range forward {
			if fk == k {
				i = j
			}
		}
		nm, err := b.Set(k, i)
		require.NoError(t, err)
		b = nm
	}

	assert.True(t, Equal(a, b, func(x, y int) bool { return x == y }))
}
