package intvec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUintVecMin0Basic(t *testing.T) {
	vals := []uint64{0, 2, 5, 7, 7, 12, 18, 18, 21}
	width := WidthFor(21)
	b := NewUintVecMin0Builder(width)
	for _, v := range vals {
		require.NoError(t, b.Push(v))
	}
	vv := b.Build()
	require.Equal(t, len(vals), vv.Len())
	for i, want := range vals {
		require.Equal(t, want, vv.Get(i), "get(%d)", i)
	}
	a, bb := vv.Get2(3)
	require.Equal(t, uint64(7), a)
	require.Equal(t, uint64(7), bb)
}

func TestUintVecMin0Overflow(t *testing.T) {
	b := NewUintVecMin0Builder(2)
	require.Error(t, b.Push(4))
}

func TestSortedUintVecScenario(t *testing.T) {
	vals := []uint64{0, 2, 5, 7, 7, 12, 18, 18, 21}
	b := NewSortedUintVecBuilder(128)
	for _, v := range vals {
		b.Push(v)
	}
	s := b.Build()

	require.Equal(t, uint64(7), s.Get(4))
	a, bb := s.Get2(3)
	require.Equal(t, uint64(7), a)
	require.Equal(t, uint64(7), bb)
	require.Equal(t, 3, s.LowerBound(0, 9, 7))
	require.Equal(t, 5, s.UpperBound(0, 9, 7))
}

func TestSortedUintVecGetBlock(t *testing.T) {
	b := NewSortedUintVecBuilder(64)
	var vals []uint64
	v := uint64(0)
	for i := 0; i < 200; i++ {
		v += uint64(i % 5)
		vals = append(vals, v)
		b.Push(v)
	}
	s := b.Build()
	for blk := 0; blk < 4; blk++ {
		lo := blk * 64
		hi := lo + 64
		if hi > len(vals) {
			hi = len(vals)
		}
		got := s.GetBlock(blk, nil)
		require.Equal(t, vals[lo:hi], got)
	}
}

func TestSortedUintVecMonotoneProperty(t *testing.T) {
	b := NewSortedUintVecBuilder(64)
	var vals []uint64
	v := uint64(10)
	for i := 0; i < 500; i++ {
		vals = append(vals, v)
		b.Push(v)
		v += uint64(i % 3)
	}
	s := b.Build()
	first := 0 // index of the first element equal to vals[i]
	for i, want := range vals {
		if i > 0 && vals[i-1] != want {
			first = i
		}
		require.Equal(t, want, s.Get(i))
		require.Equal(t, first, s.LowerBound(0, len(vals), want))
	}
}
