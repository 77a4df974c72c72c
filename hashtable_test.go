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
	"github.com/stretchr/testify/require"
)

type account struct {
	ID      string
	Balance int
}

func accountKey(a account) string { return a.ID }

func TestHashTableInsertFindByProjectedKey(t *testing.T) {
	tbl, err := NewHashTable[account, string](accountKey, StringHasher())
	require.NoError(t, err)

	tbl, err = tbl.Insert(account{ID: "alice", Balance: 100})
	require.NoError(t, err)
	tbl, err = tbl.Insert(account{ID: "bob", Balance: 50})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Size())

	got, ok := tbl.Find("alice")
	require.True(t, ok)
	assert.Equal(t, 100, got.Balance)

	// inserting again under the same projected key replaces the value
	tbl, err = tbl.Insert(account{ID: "alice", Balance: 200})
	require.NoError(t, err)
	got, ok = tbl.Find("alice")
	require.True(t, ok)
	assert.Equal(t, 200, got.Balance)
	assert.Equal(t, 2, tbl.Size())
}

func TestHashTableEraseAndBloomAccelerator(t *testing.T) {
	tbl, err := NewHashTable[account, string](accountKey, StringHasher(), WithTableBloomFilter[account, string](100, 0.01))
	require.NoError(t, err)

	for i, id := range []string{"a", "b", "c", "d"} {
		tbl, err = tbl.Insert(account{ID: id, Balance: i})
		require.NoError(t, err)
	}
	assert.True(t, tbl.Contains("c"))
	assert.False(t, tbl.Contains("zzz"))

	ntbl, removed, err := tbl.Erase("c")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, ntbl.Contains("c"))
}

func TestTransientHashTable(t *testing.T) {
	tbl, err := NewHashTable[account, string](accountKey, StringHasher())
	require.NoError(t, err)
	tt := tbl.AsTransient()
	require.NoError(t, tt.Insert(account{ID: "x", Balance: 1}))
	require.NoError(t, tt.Insert(account{ID: "y", Balance: 2}))

	built := tt.Persistent()
	assert.Equal(t, 2, built.Size())
	got, ok := built.Find("y")
	require.True(t, ok)
	assert.Equal(t, 2, got.Balance)
}
