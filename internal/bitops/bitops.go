// Package bitops holds the word-level primitives the rank/select and
// bit-packed integer layers build on: popcount, trailing/leading zero
// counts, and select-in-word. No portable BMI2 PDEP/BZHI binding exists
// for O(1) select-in-word, so this package follows the same fallback
// github.com/hillbig/rsdic uses: a De Bruijn-sequence based select, with
// math/bits supplying popcount/ctz. math/bits is the standard library's
// intrinsic-backed primitive layer; reaching past it for popcount/ctz
// would just reimplement what the compiler already lowers to a single
// instruction.
package bitops

import "math/bits"

// WordBits is the width of the word the rank/select layer operates on.
const WordBits = 64

// PopCount64 returns the number of set bits in w.
func PopCount64(w uint64) int {
	return bits.OnesCount64(w)
}

// PopCountRange64 returns the number of set bits in w within [0, n) bits,
// 0 <= n <= 64.
func PopCountRange64(w uint64, n uint) int {
	if n >= 64 {
		return bits.OnesCount64(w)
	}
	return bits.OnesCount64(w & LowMask64(n))
}

// LowMask64 returns a mask with the low n bits set, 0 <= n <= 64.
func LowMask64(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// TrailingZeros64 returns the number of trailing zero bits in w, 64 if w==0.
func TrailingZeros64(w uint64) int {
	return bits.TrailingZeros64(w)
}

// deBruijn64 and deBruijnTable implement select-in-word without BMI2: find
// the position of the r-th set bit (0-indexed) in w by repeatedly isolating
// the lowest set bit and consulting a De Bruijn perfect-hash table for its
// index, the portable fallback for machines without a native select
// intrinsic.
const deBruijn64 = 0x03f79d71b4ca8b09

var deBruijnTable = [64]uint8{
	0, 1, 56, 2, 57, 49, 28, 3, 61, 58, 42, 50, 38, 29, 17, 4,
	62, 47, 59, 36, 45, 43, 51, 22, 53, 39, 33, 30, 24, 18, 12, 5,
	63, 55, 48, 27, 60, 41, 37, 16, 46, 35, 44, 21, 52, 32, 23, 11,
	54, 26, 40, 15, 34, 20, 31, 10, 25, 14, 19, 9, 13, 8, 7, 6,
}

// bitIndex returns the 0-based index of the single set bit in w, which
// must have exactly one bit set.
func bitIndex(w uint64) int {
	return int(deBruijnTable[(w*deBruijn64)>>58])
}

// SelectInWord returns the position (0-63) of the r-th set bit (0-indexed)
// in w, or -1 if w has fewer than r+1 set bits.
func SelectInWord(w uint64, r int) int {
	if r < 0 || r >= bits.OnesCount64(w) {
		return -1
	}
	for i := 0; i < r; i++ {
		w &= w - 1 // clear lowest set bit
	}
	return bitIndex(w & -w)
}

// SelectInWord0 is SelectInWord over the complement of w, i.e. selects the
// r-th zero bit.
func SelectInWord0(w uint64, r int) int {
	return SelectInWord(^w, r)
}
