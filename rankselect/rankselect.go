// Package rankselect implements succinct rank/select bitvectors: dense
// cached variants (the "IL"/"SE" family), sparse FewZero/FewOne variants,
// constant-space AllZero/AllOne degenerate forms, a packed Mixed variant,
// and an adapter onto github.com/hillbig/rsdic used both as a production
// variant and as the cross-check oracle in this package's tests.
//
// The rsdic adapter follows rsdic.RSDic's own dense rank/select recipe;
// the FewZero/FewOne hierarchical layout is grounded on
// src/terark/succinct/rank_select_fewzero.{hpp,cpp}.
package rankselect

// RankSelect is the contract every bitvector variant in this package
// implements. Indices are 0-based; rank is exclusive of i, select is
// 0-indexed and returns the position of the k-th set/clear bit.
type RankSelect interface {
	// Len returns N, the number of bits.
	Len() int
	// Is1 reports whether bit i is set. 0 <= i < Len().
	Is1(i int) bool
	// Is0 reports whether bit i is clear.
	Is0(i int) bool
	// Rank1 returns the number of set bits in [0, i). 0 <= i <= Len().
	Rank1(i int) int
	// Rank0 returns the number of clear bits in [0, i).
	Rank0(i int) int
	// Select1 returns the position of the k-th set bit (0-indexed).
	// Undefined (contract violation) if k >= MaxRank1(); implementations
	// return Len() in that case rather than panicking.
	Select1(k int) int
	// Select0 returns the position of the k-th clear bit (0-indexed).
	Select0(k int) int
	// OneSeqLen returns the number of consecutive set bits starting at i.
	OneSeqLen(i int) int
	// ZeroSeqLen returns the number of consecutive clear bits starting at i.
	ZeroSeqLen(i int) int
	// OneSeqRevLen returns the number of consecutive set bits ending at i
	// (exclusive), scanning backwards.
	OneSeqRevLen(i int) int
	// ZeroSeqRevLen returns the number of consecutive clear bits ending at
	// i (exclusive), scanning backwards.
	ZeroSeqRevLen(i int) int
	// MaxRank1 returns the total number of set bits.
	MaxRank1() int
	// MaxRank0 returns the total number of clear bits.
	MaxRank0() int
	// MemSize returns the approximate resident byte size of the structure,
	// including cache arrays.
	MemSize() int
}

// Builder accumulates bits in append order before a variant is built from
// them. It is the common precursor to every dense/sparse/mixed variant in
// this package, mirroring the "empty -> resized -> populated" states of
// the bitvector lifecycle.
type Builder struct {
	words []uint64
	n     int
}

// NewBuilder returns an empty Builder, optionally reserving room for
// sizeHint bits.
func NewBuilder(sizeHint int) *Builder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Builder{words: make([]uint64, 0, (sizeHint+63)/64)}
}

// PushBack appends a single bit.
func (b *Builder) PushBack(bit bool) {
	wordIdx := b.n / 64
	if wordIdx >= len(b.words) {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[wordIdx] |= uint64(1) << uint(b.n%64)
	}
	b.n++
}

// Set assigns bit i, growing the builder if necessary.
func (b *Builder) Set(i int, bit bool) {
	for i >= b.n {
		b.PushBack(false)
	}
	wordIdx := i / 64
	mask := uint64(1) << uint(i%64)
	if bit {
		b.words[wordIdx] |= mask
	} else {
		b.words[wordIdx] &^= mask
	}
}

// Len returns the number of bits pushed so far.
func (b *Builder) Len() int { return b.n }

// Words returns the raw backing words (read-only view; do not mutate).
func (b *Builder) Words() []uint64 { return b.words }
