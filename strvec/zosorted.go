package strvec

import (
	"bytes"
	"sort"

	"github.com/bytedance/terark-zip-sub003/intvec"
)

// ZoSortedStrVec is a sorted string pool whose offsets are stored in a
// delta-compressed SortedUintVec instead of a flat uint32 array, trading a
// decode indirection for a much smaller offset index when strings have
// similar lengths.
type ZoSortedStrVec struct {
	pool []byte
	off  *intvec.SortedUintVec
}

// ZoSortedStrVecBuilder accumulates sorted strings before freezing their
// offsets into a SortedUintVec.
type ZoSortedStrVecBuilder struct {
	pool       []byte
	offsets    []uint64
	blockUnits int
}

// NewZoSortedStrVecBuilder returns a builder using the given offset-index
// block unit (64 or 128).
func NewZoSortedStrVecBuilder(blockUnits int) *ZoSortedStrVecBuilder {
	return &ZoSortedStrVecBuilder{offsets: []uint64{0}, blockUnits: blockUnits}
}

// PushBack appends a string; callers must push in non-decreasing
// lexicographic order (builders call Sort first if needed).
func (b *ZoSortedStrVecBuilder) PushBack(s []byte) {
	b.pool = append(b.pool, s...)
	b.offsets = append(b.offsets, uint64(len(b.pool)))
}

// Build freezes the pool and offset index.
func (b *ZoSortedStrVecBuilder) Build() *ZoSortedStrVec {
	ob := intvec.NewSortedUintVecBuilder(b.blockUnits)
	for _, o := range b.offsets {
		ob.Push(o)
	}
	return &ZoSortedStrVec{pool: b.pool, off: ob.Build()}
}

// Size returns the number of strings.
func (v *ZoSortedStrVec) Size() int { return v.off.Len() - 1 }

// NthData returns the i-th string.
func (v *ZoSortedStrVec) NthData(i int) []byte {
	lo, hi := v.off.Get(i), v.off.Get(i+1)
	return v.pool[lo:hi]
}

// LowerBound returns the smallest index i in [lo, hi) with NthData(i) >=
// key.
func (v *ZoSortedStrVec) LowerBound(lo, hi int, key []byte) int {
	idx := sort.Search(hi-lo, func(j int) bool { return bytes.Compare(v.NthData(lo+j), key) >= 0 })
	return lo + idx
}

// UpperBound returns the smallest index i in [lo, hi) with NthData(i) >
// key.
func (v *ZoSortedStrVec) UpperBound(lo, hi int, key []byte) int {
	idx := sort.Search(hi-lo, func(j int) bool { return bytes.Compare(v.NthData(lo+j), key) > 0 })
	return lo + idx
}

// MemSize returns the resident byte size.
func (v *ZoSortedStrVec) MemSize() int { return len(v.pool) + v.off.MemSize() }

// RevOrdStrVec wraps a physically descending-order pool and exposes
// ascending (natural) iteration by reversing the index: At(i) accesses
// the physical element (size-1-i). Used when a caller builds a pool in
// descending order (e.g. suffix-sorted for a reversed-key trie) but wants
// ordinary ascending semantics at the access layer.
type RevOrdStrVec struct {
	inner *StrVec
}

// NewRevOrdStrVec wraps a physically descending-order StrVec.
func NewRevOrdStrVec(inner *StrVec) *RevOrdStrVec { return &RevOrdStrVec{inner: inner} }

// Size returns the number of strings.
func (v *RevOrdStrVec) Size() int { return v.inner.Size() }

// At returns the logical i-th string, i.e. physical (size-1-i).
func (v *RevOrdStrVec) At(i int) []byte {
	return v.inner.NthData(v.inner.Size() - 1 - i)
}

// ReverseKeys returns a fresh StrVec containing every key's bytes
// reversed, in the same logical order — used by builders that want to do
// a reverse-order prefix search (suffix search) over the same key set.
func (v *StrVec) ReverseKeys() *StrVec {
	out := NewStrVec()
	for i := 0; i < v.Size(); i++ {
		s := v.NthData(i)
		r := make([]byte, len(s))
		for j, c := range s {
			r[len(s)-1-j] = c
		}
		out.PushBack(r)
	}
	return out
}
