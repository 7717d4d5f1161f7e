// Package strvec implements the StrVec family: contiguous string pools
// with fixed-length, variable-length sorted, delta-compressed sorted, and
// reverse-order layouts. These back the edge-label pools and key sets fed
// into the nlt (NestLoudsTrie) builder.
//
// FixedLenStrVec packs equal-width records into a flat pool with no
// offset index at all; the sorted/delta-compressed and index-reversed
// variants live alongside it in this package. StrVec.Sort uses
// github.com/dgryski/go-radixsort, a byte-string sorter; FixedLenStrVec.Sort
// uses a stable comparison sort.
package strvec

import (
	"bytes"
	"sort"

	"github.com/dgryski/go-radixsort"
	"golang.org/x/exp/slices"
)

// StrVec is the variable-length string pool: concatenated bytes plus a
// uint32 offset array. The other layouts in this package are separate
// types, not implementations of a shared interface.
type StrVec struct {
	pool []byte
	off  []uint32 // len = n+1, off[i]..off[i+1] bounds the i-th string
}

// NewStrVec returns an empty, growable StrVec.
func NewStrVec() *StrVec {
	return &StrVec{off: []uint32{0}}
}

// PushBack appends a byte string to the pool.
func (v *StrVec) PushBack(s []byte) {
	v.pool = append(v.pool, s...)
	v.off = append(v.off, uint32(len(v.pool)))
}

// Size returns the number of strings pushed.
func (v *StrVec) Size() int { return len(v.off) - 1 }

// NthData returns the i-th string.
func (v *StrVec) NthData(i int) []byte { return v.pool[v.off[i]:v.off[i+1]] }

// NthSize returns the byte length of the i-th string.
func (v *StrVec) NthSize(i int) int { return int(v.off[i+1] - v.off[i]) }

// NthOffset returns the starting pool offset of the i-th string.
func (v *StrVec) NthOffset(i int) int { return int(v.off[i]) }

// NthEndPos returns the ending pool offset of the i-th string.
func (v *StrVec) NthEndPos(i int) int { return int(v.off[i+1]) }

// PoolSize returns the total size of the backing byte pool.
func (v *StrVec) PoolSize() int { return len(v.pool) }

// Sort sorts the pushed strings lexicographically in place using a
// byte-wise radix sort, rebuilding the pool and offsets. Returns the
// permutation applied (newIndex -> oldIndex) so callers can carry a
// parallel value array along.
func (v *StrVec) Sort() []int {
	n := v.Size()
	items := make([][]byte, n)
	for i := 0; i < n; i++ {
		items[i] = append([]byte(nil), v.NthData(i)...)
	}
	radixsort.Bytes(items)

	// radixsort.Bytes does not carry side payloads, so the permutation
	// (needed by callers that keep a value array parallel to the string
	// pool) is recovered with a stable sort of the original indices on
	// the same comparator the radix pass just applied to the content.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bytes.Compare(v.NthData(order[a]), v.NthData(order[b])) < 0
	})

	newPool := make([]byte, 0, len(v.pool))
	newOff := make([]uint32, 1, n+1)
	for _, item := range items {
		newPool = append(newPool, item...)
		newOff = append(newOff, uint32(len(newPool)))
	}
	v.pool, v.off = newPool, newOff
	return order
}

// LowerBound returns the smallest index i in [lo, hi) with NthData(i) >=
// key lexicographically, or hi if none.
func (v *StrVec) LowerBound(lo, hi int, key []byte) int {
	idx := sort.Search(hi-lo, func(j int) bool { return bytes.Compare(v.NthData(lo+j), key) >= 0 })
	return lo + idx
}

// UpperBound returns the smallest index i in [lo, hi) with NthData(i) >
// key lexicographically, or hi if none.
func (v *StrVec) UpperBound(lo, hi int, key []byte) int {
	idx := sort.Search(hi-lo, func(j int) bool { return bytes.Compare(v.NthData(lo+j), key) > 0 })
	return lo + idx
}

// UpperBoundAtPos restricts the lexicographic search to records whose
// pos-th byte equals ch, returning the upper bound among just that run:
// the end of the group of records sharing a given byte at a fixed depth.
func (v *StrVec) UpperBoundAtPos(lo, hi, pos int, ch byte) int {
	idx := sort.Search(hi-lo, func(j int) bool {
		s := v.NthData(lo + j)
		if pos >= len(s) {
			return false
		}
		return s[pos] > ch
	})
	return lo + idx
}

// MemSize returns the resident byte size.
func (v *StrVec) MemSize() int { return len(v.pool) + len(v.off)*4 }

// FixedLenStrVec is a StrVec where every record has the same length L;
// the i-th key is simply pool[i*L : (i+1)*L).
type FixedLenStrVec struct {
	pool []byte
	l    int
}

// NewFixedLenStrVec returns an empty fixed-length StrVec with record
// length l.
func NewFixedLenStrVec(l int) *FixedLenStrVec { return &FixedLenStrVec{l: l} }

// PushBack appends a record; it must have length l.
func (v *FixedLenStrVec) PushBack(s []byte) {
	if len(s) != v.l {
		panic("strvec: FixedLenStrVec record length mismatch")
	}
	v.pool = append(v.pool, s...)
}

// Size returns the number of records.
func (v *FixedLenStrVec) Size() int {
	if v.l == 0 {
		return 0
	}
	return len(v.pool) / v.l
}

// At returns the i-th record.
func (v *FixedLenStrVec) At(i int) []byte { return v.pool[i*v.l : (i+1)*v.l] }

// Sort sorts records in place and returns the permutation
// (newIndex -> oldIndex).
func (v *FixedLenStrVec) Sort() []int {
	n := v.Size()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return bytes.Compare(v.At(order[a]), v.At(order[b])) < 0 })
	newPool := make([]byte, 0, len(v.pool))
	for _, idx := range order {
		newPool = append(newPool, v.At(idx)...)
	}
	v.pool = newPool
	return order
}

// identityIndices returns [0, n), the index-slice shim LowerBound/UpperBound
// hand to slices.BinarySearchFunc in place of a real []E of records (the
// pool is packed, not a Go slice of elements).
func identityIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// LowerBound returns the smallest index i with At(i) >= key.
func (v *FixedLenStrVec) LowerBound(key []byte) int {
	idx, _ := slices.BinarySearchFunc(identityIndices(v.Size()), key, func(i int, target []byte) int {
		return bytes.Compare(v.At(i), target)
	})
	return idx
}

// UpperBound returns the smallest index i with At(i) > key.
func (v *FixedLenStrVec) UpperBound(key []byte) int {
	n := v.Size()
	idx, found := slices.BinarySearchFunc(identityIndices(n), key, func(i int, target []byte) int {
		return bytes.Compare(v.At(i), target)
	})
	if found {
		// BinarySearchFunc's idx lands on the first match; advance past the
		// whole equal-key run to get the strict upper bound.
		for idx < n && bytes.Equal(v.At(idx), key) {
			idx++
		}
	}
	return idx
}

// UpperBoundAtPos restricts to records whose pos-th byte equals the
// implied prefix run at index lo; returns the upper bound of the run of
// records sharing byte ch at pos, scanning [lo, hi).
func (v *FixedLenStrVec) UpperBoundAtPos(lo, hi, pos int, ch byte) int {
	idx := sort.Search(hi-lo, func(j int) bool {
		rec := v.At(lo + j)
		if pos >= len(rec) {
			return false
		}
		return rec[pos] > ch
	})
	return lo + idx
}

// MemSize returns the resident byte size.
func (v *FixedLenStrVec) MemSize() int { return len(v.pool) }
