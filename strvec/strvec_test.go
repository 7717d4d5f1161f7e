package strvec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedLenStrVecSortAndBsearch(t *testing.T) {
	v := NewFixedLenStrVec(3)
	for _, s := range []string{"bca", "abc", "bca", "abd"} {
		v.PushBack([]byte(s))
	}
	v.Sort()

	require.Equal(t, 1, v.LowerBound([]byte("abd")))
	require.Equal(t, 2, v.UpperBound([]byte("abd")))
	require.Equal(t, 2, v.UpperBoundAtPos(0, 4, 0, 'a'))
}

func TestStrVecSortPermutationPreservesMultiset(t *testing.T) {
	v := NewStrVec()
	words := []string{"pear", "apple", "peach", "banana", "apple"}
	for _, w := range words {
		v.PushBack([]byte(w))
	}
	order := v.Sort()
	require.Len(t, order, len(words))
	for i := 0; i+1 < v.Size(); i++ {
		require.LessOrEqual(t, string(v.NthData(i)), string(v.NthData(i+1)))
	}
	seen := make(map[string]int)
	for _, w := range words {
		seen[w]++
	}
	for i := 0; i < v.Size(); i++ {
		seen[string(v.NthData(i))]--
	}
	for w, c := range seen {
		require.Zerof(t, c, "word %q count mismatch after sort", w)
	}
}

func TestZoSortedStrVecBounds(t *testing.T) {
	words := []string{"apple", "banana", "cherry", "cherry", "date"}
	b := NewZoSortedStrVecBuilder(64)
	for _, w := range words {
		b.PushBack([]byte(w))
	}
	zv := b.Build()
	require.Equal(t, 2, zv.LowerBound(0, zv.Size(), []byte("cherry")))
	require.Equal(t, 4, zv.UpperBound(0, zv.Size(), []byte("cherry")))
}

func TestRevOrdStrVec(t *testing.T) {
	physical := NewStrVec()
	for _, w := range []string{"c", "b", "a"} { // stored descending
		physical.PushBack([]byte(w))
	}
	rv := NewRevOrdStrVec(physical)
	require.Equal(t, "a", string(rv.At(0)))
	require.Equal(t, "b", string(rv.At(1)))
	require.Equal(t, "c", string(rv.At(2)))
}

func TestReverseKeys(t *testing.T) {
	v := NewStrVec()
	v.PushBack([]byte("abc"))
	v.PushBack([]byte("de"))
	rv := v.ReverseKeys()
	require.Equal(t, "cba", string(rv.NthData(0)))
	require.Equal(t, "ed", string(rv.NthData(1)))
}
