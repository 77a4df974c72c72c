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

func TestRRBVecConcatAndSlice(t *testing.T) {
	a, err := RRBVecFromSlice(rangeSlice(137))
	require.NoError(t, err)
	b, err := RRBVecFromSlice(rangeSliceFrom(137, 263))
	require.NoError(t, err)

	whole, err := Concat(a, b)
	require.NoError(t, err)
	require.Equal(t, 400, whole.Size())

	for i := 0; i < 400; i++ {
		got, err := whole.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	prefix, err := whole.Take(137)
	require.NoError(t, err)
	assert.True(t, prefix.Equal(a, func(x, y int) bool { return x == y }))

	suffix, err := whole.Drop(137)
	require.NoError(t, err)
	assert.True(t, suffix.Equal(b, func(x, y int) bool { return x == y }))
}

func TestRRBVecConcatAssociativity(t *testing.T) {
	a, err := RRBVecFromSlice(rangeSlice(10))
	require.NoError(t, err)
	b, err := RRBVecFromSlice(rangeSliceFrom(10, 20))
	require.NoError(t, err)
	c, err := RRBVecFromSlice(rangeSliceFrom(20, 30))
	require.NoError(t, err)

	ab, err := Concat(a, b)
	require.NoError(t, err)
	abc1, err := Concat(ab, c)
	require.NoError(t, err)

	bc, err := Concat(b, c)
	require.NoError(t, err)
	abc2, err := Concat(a, bc)
	require.NoError(t, err)

	assert.True(t, abc1.Equal(abc2, func(x, y int) bool { return x == y }))
}

func TestRRBVecPushFrontInsertErase(t *testing.T) {
	v := NewRRBVec[int]()
	for i := 2; i >= 0; i-- {
		nv, err := v.PushFront(i)
		require.NoError(t, err)
		v = nv
	}
	require.Equal(t, 3, v.Size())
	for i := 0; i < 3; i++ {
		got, err := v.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	nv, err := v.Insert(1, 99)
	require.NoError(t, err)
	got, err := nv.At(1)
	require.NoError(t, err)
	assert.Equal(t, 99, got)
	require.Equal(t, 4, nv.Size())

	ev, err := nv.Erase(1)
	require.NoError(t, err)
	require.Equal(t, 3, ev.Size())
	assert.True(t, ev.Equal(v, func(a, b int) bool { return a == b }))
}

func TestTransientRRBVec(t *testing.T) {
	v := NewRRBVec[int]()
	tv := v.AsTransient()
	for i := 0; i < 50; i++ {
		require.NoError(t, tv.PushBack(i))
	}
	built := tv.Persistent()
	assert.Equal(t, 50, built.Size())
}

func rangeSliceFrom(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
