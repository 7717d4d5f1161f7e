package rankselect

import "github.com/hillbig/rsdic"

// RSDicVariant adapts github.com/hillbig/rsdic.RSDic to the RankSelect
// contract. It is both a production variant (rsdic already implements a
// dense run-length rank/select dictionary competitive with the IL/SE
// families) and the cross-check oracle used in this package's tests,
// using rsdic.RSDic directly as bitvector backing.
type RSDicVariant struct {
	bv *rsdic.RSDic
}

// NewRSDicVariant builds an RSDicVariant from a Builder's accumulated bits.
func NewRSDicVariant(b *Builder) *RSDicVariant {
	bv := rsdic.New()
	for i := 0; i < b.Len(); i++ {
		wordIdx := i / 64
		bit := false
		if wordIdx < len(b.Words()) {
			bit = b.Words()[wordIdx]&(uint64(1)<<uint(i%64)) != 0
		}
		bv.PushBack(bit)
	}
	return &RSDicVariant{bv: bv}
}

// Len implements RankSelect.
func (r *RSDicVariant) Len() int { return int(r.bv.Num()) }

// Is1 implements RankSelect.
func (r *RSDicVariant) Is1(i int) bool { return r.bv.Bit(uint64(i)) }

// Is0 implements RankSelect.
func (r *RSDicVariant) Is0(i int) bool { return !r.bv.Bit(uint64(i)) }

// Rank1 implements RankSelect.
func (r *RSDicVariant) Rank1(i int) int {
	i = clamp(i, r.Len())
	return int(r.bv.Rank(uint64(i), true))
}

// Rank0 implements RankSelect.
func (r *RSDicVariant) Rank0(i int) int {
	i = clamp(i, r.Len())
	return int(r.bv.Rank(uint64(i), false))
}

// Select1 implements RankSelect.
func (r *RSDicVariant) Select1(k int) int {
	if k < 0 || k >= r.MaxRank1() {
		return r.Len()
	}
	return int(r.bv.Select(uint64(k), true))
}

// Select0 implements RankSelect.
func (r *RSDicVariant) Select0(k int) int {
	if k < 0 || k >= r.MaxRank0() {
		return r.Len()
	}
	return int(r.bv.Select(uint64(k), false))
}

// MaxRank1 implements RankSelect.
func (r *RSDicVariant) MaxRank1() int { return int(r.bv.OneNum()) }

// MaxRank0 implements RankSelect.
func (r *RSDicVariant) MaxRank0() int { return int(r.bv.ZeroNum()) }

// OneSeqLen implements RankSelect.
func (r *RSDicVariant) OneSeqLen(i int) int { return rsdicSeqLen(r, i, true, 1) }

// ZeroSeqLen implements RankSelect.
func (r *RSDicVariant) ZeroSeqLen(i int) int { return rsdicSeqLen(r, i, false, 1) }

// OneSeqRevLen implements RankSelect.
func (r *RSDicVariant) OneSeqRevLen(i int) int { return rsdicSeqLen(r, i-1, true, -1) }

// ZeroSeqRevLen implements RankSelect.
func (r *RSDicVariant) ZeroSeqRevLen(i int) int { return rsdicSeqLen(r, i-1, false, -1) }

func rsdicSeqLen(r *RSDicVariant, start int, one bool, dir int) int {
	count := 0
	n := r.Len()
	for i := start; i >= 0 && i < n; i += dir {
		if r.Is1(i) != one {
			break
		}
		count++
	}
	return count
}

// MemSize implements RankSelect.
func (r *RSDicVariant) MemSize() int { return int(r.bv.AllocSize()) }
