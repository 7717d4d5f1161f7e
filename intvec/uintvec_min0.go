// Package intvec implements the bit-packed integer containers: UintVecMin0
// (fixed-width packed array) and SortedUintVec (block-delta-compressed
// non-decreasing sequences used throughout the blob-store offset indexes).
//
// UintVecMin0's pack/unpack of a fixed bit width into a []uint64 slice
// follows the same bit-packing idiom used throughout this module's succinct
// containers; SortedUintVec layers a block-sampled binary search on top.
package intvec

import "fmt"

// UintVecMin0 is a random-access array of unsigned integers all sharing a
// common bit width w, fixed by the caller when the builder is created
// (WidthFor gives the minimal width for a known maximum). get(i) is an
// unaligned load at bit offset i*w.
type UintVecMin0 struct {
	width  int
	n      int
	packed []uint64
}

// UintVecMin0Builder collects pushed values in a plain []uint64 slice and
// packs them all at once in Build; it does not emit packed output
// incrementally, so the unpacked values are held in memory until Build.
type UintVecMin0Builder struct {
	width int
	vals  []uint64
}

// NewUintVecMin0Builder creates a builder that packs values into width
// bits each. width must be in [0, 64]; values wider than width overflow
// and are rejected by Push with an error.
func NewUintVecMin0Builder(width int) *UintVecMin0Builder {
	if width < 0 || width > 64 {
		panic(fmt.Sprintf("intvec: invalid width %d", width))
	}
	return &UintVecMin0Builder{width: width}
}

// WidthFor returns the minimal bit width that can represent every value up
// to and including maxVal.
func WidthFor(maxVal uint64) int {
	w := 0
	for (uint64(1)<<uint(w))-1 < maxVal {
		w++
	}
	return w
}

// Push appends a value.
func (b *UintVecMin0Builder) Push(v uint64) error {
	if b.width < 64 && v >= uint64(1)<<uint(b.width) {
		return fmt.Errorf("intvec: value %d overflows width %d", v, b.width)
	}
	b.vals = append(b.vals, v)
	return nil
}

// Build finalizes the packed array.
func (b *UintVecMin0Builder) Build() *UintVecMin0 {
	return &UintVecMin0{width: b.width, n: len(b.vals), packed: packBits(b.vals, b.width)}
}

// Len returns the number of elements.
func (v *UintVecMin0) Len() int { return v.n }

// Width returns the fixed bit width of each element.
func (v *UintVecMin0) Width() int { return v.width }

// Get returns the value at index i.
func (v *UintVecMin0) Get(i int) uint64 {
	return unpackBits(v.packed, i, v.width)
}

// Get2 fetches the adjacent pair (i, i+1) in one call.
func (v *UintVecMin0) Get2(i int) (a, b uint64) {
	return v.Get(i), v.Get(i + 1)
}

// MemSize returns the resident byte size.
func (v *UintVecMin0) MemSize() int { return len(v.packed) * 8 }

// packBits packs values into a dense []uint64 slice using exactly
// bitWidth bits per value.
func packBits(values []uint64, bitWidth int) []uint64 {
	if len(values) == 0 {
		return nil
	}
	if bitWidth == 0 {
		return []uint64{}
	}
	totalBits := len(values) * bitWidth
	numWords := (totalBits + 63) / 64
	packed := make([]uint64, numWords)
	mask := lowMask(bitWidth)

	for i, val := range values {
		bitPos := i * bitWidth
		wordIdx := bitPos / 64
		bitOffset := uint(bitPos % 64)
		maskedVal := val & mask

		packed[wordIdx] |= maskedVal << bitOffset
		bitsAvailable := 64 - int(bitOffset)
		if bitsAvailable < bitWidth {
			packed[wordIdx+1] |= maskedVal >> uint(bitsAvailable)
		}
	}
	return packed
}

// unpackBits extracts the index-th bitWidth-bit value from packed.
func unpackBits(packed []uint64, index int, bitWidth int) uint64 {
	if bitWidth == 0 {
		return 0
	}
	bitPos := index * bitWidth
	wordIdx := bitPos / 64
	bitOffset := uint(bitPos % 64)

	val := packed[wordIdx] >> bitOffset
	bitsAvailable := 64 - int(bitOffset)
	if bitsAvailable < bitWidth {
		val |= packed[wordIdx+1] << uint(bitsAvailable)
	}
	return val & lowMask(bitWidth)
}

func lowMask(bitWidth int) uint64 {
	if bitWidth >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bitWidth)) - 1
}
