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

package rbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamtree/persist/internal/xerr"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestFromSliceAndAt(t *testing.T) {
	tr, err := FromSlice(Config{}, seq(513))
	require.NoError(t, err)
	require.Equal(t, 513, tr.Size())
	for i := 0; i < 513; i++ {
		v, err := tr.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	_, err = tr.At(513)
	assert.ErrorIs(t, err, xerr.ErrOutOfRange)
}

func TestPushBackAcrossRootGrowth(t *testing.T) {
	tr := Empty[int](Config{B: 2}) // BF=4: forces frequent root growth
	for i := 0; i < 300; i++ {
		nt, err := tr.PushBack(i)
		require.NoError(t, err)
		tr = nt
	}
	require.Equal(t, 300, tr.Size())
	for i := 0; i < 300; i++ {
		v, err := tr.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestPushBackPopBackInverse(t *testing.T) {
	tr := Empty[int](Config{})
	for i := 0; i < 200; i++ {
		nt, err := tr.PushBack(i)
		require.NoError(t, err)
		tr = nt
	}
	for i := 199; i >= 0; i-- {
		nt, err := tr.PopBack()
		require.NoError(t, err)
		tr = nt
		assert.Equal(t, i, tr.Size())
	}
	_, err := tr.PopBack()
	assert.ErrorIs(t, err, xerr.ErrOutOfRange)
}

func TestSetAndUpdateShareStructure(t *testing.T) {
	base, err := FromSlice(Config{}, seq(200))
	require.NoError(t, err)

	v1, err := base.Set(100, -1)
	require.NoError(t, err)
	v2, err := v1.Update(150, func(x int) int { return x * 2 })
	require.NoError(t, err)

	// base must be unaffected by either derivation
	got, err := base.At(100)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
	got, err = base.At(150)
	require.NoError(t, err)
	assert.Equal(t, 150, got)

	got, err = v2.At(100)
	require.NoError(t, err)
	assert.Equal(t, -1, got)
	got, err = v2.At(150)
	require.NoError(t, err)
	assert.Equal(t, 300, got)
}

func TestTakeDropConcat(t *testing.T) {
	tr, err := FromSlice(Config{}, seq(150))
	require.NoError(t, err)

	prefix, err := tr.Take(60)
	require.NoError(t, err)
	suffix, err := tr.Drop(60)
	require.NoError(t, err)

	rejoined, err := Concat(prefix, suffix)
	require.NoError(t, err)
	require.Equal(t, tr.Size(), rejoined.Size())
	for i := 0; i < tr.Size(); i++ {
		want, err := tr.At(i)
		require.NoError(t, err)
		got, err := rejoined.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestInsertErase(t *testing.T) {
	tr, err := FromSlice(Config{}, seq(50))
	require.NoError(t, err)

	ins, err := tr.Insert(25, 999)
	require.NoError(t, err)
	require.Equal(t, 51, ins.Size())
	v, err := ins.At(25)
	require.NoError(t, err)
	assert.Equal(t, 999, v)
	v, err = ins.At(26)
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	back, err := ins.Erase(25)
	require.NoError(t, err)
	require.Equal(t, tr.Size(), back.Size())
	assert.True(t, Equal(tr, back, func(a, b int) bool { return a == b }))
}

func TestIteratorForwardAndBackward(t *testing.T) {
	tr, err := FromSlice(Config{}, seq(40))
	require.NoError(t, err)

	it := tr.Iterator()
	var forward []int
	for it.HasNext() {
		v, err := it.Next()
		require.NoError(t, err)
		forward = append(forward, v)
	}
	assert.Equal(t, seq(40), forward)

	var backward []int
	for it.HasPrev() {
		v, err := it.Prev()
		require.NoError(t, err)
		backward = append(backward, v)
	}
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	assert.Equal(t, seq(40), backward)
}

func TestPushBackPopBackAfterConcatStaysCorrect(t *testing.T) {
	a, err := FromSlice(Config{}, seq(50))
	require.NoError(t, err)
	tail := make([]int, 50)
	for i := range tail {
		tail[i] = 50 + i
	}
	b, err := FromSlice(Config{}, tail)
	require.NoError(t, err)

	tr, err := Concat(a, b)
	require.NoError(t, err)
	require.True(t, tr.IsRelaxed())

	// PushBack must keep threading the relaxed tree's rightmost spine
	// (pushRelaxedLeaf), not silently drop back to a flatten-and-rebuild,
	// across several tail folds.
	for i := 100; i < 300; i++ {
		nt, err := tr.PushBack(i)
		require.NoError(t, err)
		tr = nt
	}
	require.Equal(t, 300, tr.Size())
	for i := 0; i < 300; i++ {
		v, err := tr.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}

	for i := 299; i >= 100; i-- {
		nt, err := tr.PopBack()
		require.NoError(t, err)
		tr = nt
		assert.Equal(t, i, tr.Size())
	}
	for i := 0; i < 100; i++ {
		v, err := tr.At(i)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestSizeArithmeticAcrossOps(t *testing.T) {
	tr, err := FromSlice(Config{}, seq(77))
	require.NoError(t, err)

	nt, err := tr.PushBack(1)
	require.NoError(t, err)
	assert.Equal(t, tr.Size()+1, nt.Size())

	nt, err = tr.PopBack()
	require.NoError(t, err)
	assert.Equal(t, tr.Size()-1, nt.Size())

	nt, err = tr.Insert(10, 1)
	require.NoError(t, err)
	assert.Equal(t, tr.Size()+1, nt.Size())

	nt, err = tr.Erase(10)
	require.NoError(t, err)
	assert.Equal(t, tr.Size()-1, nt.Size())
}
