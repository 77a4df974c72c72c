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

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBVecHeavyweightValueType exercises BVec with a 256-bit integer
// element, demonstrating the container works with non-trivial value types
// beyond machine words.
func TestBVecHeavyweightValueType(t *testing.T) {
	vs := make([]uint256.Int, 0, 64)
	for i := uint64(0); i < 64; i++ {
		vs = append(vs, *uint256.NewInt(i).MulUint64(uint256.NewInt(i), 1<<40))
	}
	v, err := BVecFromSlice(vs)
	require.NoError(t, err)
	require.Equal(t, 64, v.Size())

	for i := 0; i < 64; i++ {
		got, err := v.At(i)
		require.NoError(t, err)
		assert.True(t, got.Eq(&vs[i]))
	}
}

// TestHashMapHeavyweightKeyType exercises HashMap keyed by uint256.Int via
// StringerHasher, which hashes the canonical decimal string form.
func TestHashMapHeavyweightKeyType(t *testing.T) {
	m := NewHashMap[uint256.Int, string](StringerHasher[uint256.Int]())

	keys := make([]uint256.Int, 0, 40)
	for i := uint64(0); i < 40; i++ {
		keys = append(keys, *uint256.NewInt(i).Exp(uint256.NewInt(i+1), uint256.NewInt(3)))
	}
	for i, k := range keys {
		nm, err := m.Set(k, keyLabel(i))
		require.NoError(t, err)
		m = nm
	}
	require.Equal(t, len(keys), m.Size())

	for i, k := range keys {
		v, ok := m.Find(k)
		require.True(t, ok)
		assert.Equal(t, keyLabel(i), v)
	}
}

func keyLabel(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%len(letters)])
}
