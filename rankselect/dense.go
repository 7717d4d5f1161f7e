package rankselect

import (
	"fmt"

	"github.com/bytedance/terark-zip-sub003/internal/bitops"
)

// Config selects the physical layout of a Dense bitvector, matching the
// spec's naming pattern rank_select_<layout>_<superblock>_<word>.
type Config struct {
	// SuperBlock is the block size in bits at which a rank_cache entry is
	// stored; must be 256 or 512.
	SuperBlock int
	// Interleaved selects the "IL" layout (rank base and its block's words
	// share one contiguous span, one cache line per block lookup) over the
	// "SE" layout (bits and rank cache in separate arrays).
	Interleaved bool
	// SelectSampleRate, if non-zero, builds sel0_cache/sel1_cache sampling
	// every SelectSampleRate-th clear/set bit to skip most of the rank
	// cache binary search during Select0/Select1. Spec suggests K ~= 512.
	SelectSampleRate int
}

// DefaultConfig is rank_select_il_256_32: interleaved, 256-bit superblocks,
// select sampling every 512th set/clear bit — the variant used throughout the example
// pack's rloc/trie/shzft code as the default RSDic-equivalent shape.
var DefaultConfig = Config{SuperBlock: 256, Interleaved: true, SelectSampleRate: 512}

// Dense is a cached rank/select bitvector over a fixed bit array. Build it
// from a Builder via NewDense; it implements RankSelect.
type Dense struct {
	cfg Config
	n   int

	wordsPerBlock int
	numBlocks     int

	// Interleaved layout: flat[i*stride] is the cumulative rank base before
	// block i; flat[i*stride+1 .. +wordsPerBlock] are that block's words.
	flat   []uint64
	stride int

	// Separated layout.
	bits  []uint64
	ranks []uint64

	sel1Cache []int32
	sel0Cache []int32

	maxRank1 int
}

// NewDense builds a Dense bitvector from b's accumulated bits under cfg.
func NewDense(b *Builder, cfg Config) *Dense {
	if cfg.SuperBlock != 256 && cfg.SuperBlock != 512 {
		panic(fmt.Sprintf("rankselect: invalid SuperBlock %d, want 256 or 512", cfg.SuperBlock))
	}
	d := &Dense{cfg: cfg, n: b.Len()}
	d.wordsPerBlock = cfg.SuperBlock / 64
	d.numBlocks = (b.Len() + cfg.SuperBlock - 1) / cfg.SuperBlock
	if d.numBlocks == 0 {
		d.numBlocks = 1
	}
	totalWords := d.numBlocks * d.wordsPerBlock
	words := make([]uint64, totalWords)
	copy(words, b.Words())

	if cfg.Interleaved {
		d.stride = d.wordsPerBlock + 1
		d.flat = make([]uint64, d.numBlocks*d.stride)
	} else {
		d.bits = words
		d.ranks = make([]uint64, d.numBlocks+1)
	}

	base := 0
	for blk := 0; blk < d.numBlocks; blk++ {
		blockWords := words[blk*d.wordsPerBlock : (blk+1)*d.wordsPerBlock]
		if cfg.Interleaved {
			off := blk * d.stride
			d.flat[off] = uint64(base)
			copy(d.flat[off+1:off+1+d.wordsPerBlock], blockWords)
		} else {
			d.ranks[blk] = uint64(base)
		}
		for _, w := range blockWords {
			base += bitops.PopCount64(w)
		}
	}
	if !cfg.Interleaved {
		d.ranks[d.numBlocks] = uint64(base)
	}
	d.maxRank1 = base

	if cfg.SelectSampleRate > 0 {
		d.buildSelectCaches(cfg.SelectSampleRate)
	}
	return d
}

func (d *Dense) blockWords(blk int) []uint64 {
	if d.cfg.Interleaved {
		off := blk*d.stride + 1
		return d.flat[off : off+d.wordsPerBlock]
	}
	return d.bits[blk*d.wordsPerBlock : (blk+1)*d.wordsPerBlock]
}

func (d *Dense) blockBase(blk int) int {
	if d.cfg.Interleaved {
		return int(d.flat[blk*d.stride])
	}
	return int(d.ranks[blk])
}

func (d *Dense) buildSelectCaches(rate int) {
	d.sel1Cache = d.sel1Cache[:0]
	d.sel0Cache = d.sel0Cache[:0]
	ones, zeros := 0, 0
	for blk := 0; blk < d.numBlocks; blk++ {
		for _, w := range d.blockWords(blk) {
			pc := bitops.PopCount64(w)
			if (ones+pc)/rate > ones/rate {
				d.sel1Cache = append(d.sel1Cache, int32(blk))
			}
			zc := 64 - pc
			if (zeros+zc)/rate > zeros/rate {
				d.sel0Cache = append(d.sel0Cache, int32(blk))
			}
			ones += pc
			zeros += zc
		}
	}
}

// Len implements RankSelect.
func (d *Dense) Len() int { return d.n }

// Is1 implements RankSelect.
func (d *Dense) Is1(i int) bool {
	blk, wordIdx, bitIdx := d.locate(i)
	return d.blockWords(blk)[wordIdx]&(uint64(1)<<uint(bitIdx)) != 0
}

// Is0 implements RankSelect.
func (d *Dense) Is0(i int) bool { return !d.Is1(i) }

func (d *Dense) locate(i int) (blk, wordIdx, bitIdx int) {
	blk = i / d.cfg.SuperBlock
	within := i % d.cfg.SuperBlock
	return blk, within / 64, within % 64
}

// Rank1 implements RankSelect.
func (d *Dense) Rank1(i int) int {
	if i <= 0 {
		return 0
	}
	if i >= d.n {
		return d.maxRank1
	}
	blk, wordIdx, bitIdx := d.locate(i)
	rank := d.blockBase(blk)
	words := d.blockWords(blk)
	for w := 0; w < wordIdx; w++ {
		rank += bitops.PopCount64(words[w])
	}
	rank += bitops.PopCountRange64(words[wordIdx], uint(bitIdx))
	return rank
}

// Rank0 implements RankSelect.
func (d *Dense) Rank0(i int) int {
	if i <= 0 {
		return 0
	}
	if i > d.n {
		i = d.n
	}
	return i - d.Rank1(i)
}

// MaxRank1 implements RankSelect.
func (d *Dense) MaxRank1() int { return d.maxRank1 }

// MaxRank0 implements RankSelect.
func (d *Dense) MaxRank0() int { return d.n - d.maxRank1 }

// Select1 implements RankSelect.
func (d *Dense) Select1(k int) int {
	if k < 0 || k >= d.maxRank1 {
		return d.n
	}
	blk := d.blockForRank(k, true)
	return d.selectWithinBlock(blk, k, true)
}

// Select0 implements RankSelect.
func (d *Dense) Select0(k int) int {
	if k < 0 || k >= d.MaxRank0() {
		return d.n
	}
	blk := d.blockForRank(k, false)
	return d.selectWithinBlock(blk, k, false)
}

// blockForRank finds the block containing the k-th set (one=true) or clear
// bit, using the sampled select cache when available, else a binary search
// over block bases.
func (d *Dense) blockForRank(k int, one bool) int {
	cache := d.sel1Cache
	rate := d.cfg.SelectSampleRate
	if !one {
		cache = d.sel0Cache
	}
	lo := 0
	if len(cache) > 0 {
		idx := k / rate
		if idx > 0 && idx-1 < len(cache) {
			lo = int(cache[idx-1])
		}
	}
	hi := d.numBlocks - 1
	blockRank := func(blk int) int {
		base := d.blockBase(blk)
		if one {
			return base
		}
		return blk*d.cfg.SuperBlock - base
	}
	// binary search for the last block whose base rank is <= k
	best := lo
	for lo <= hi {
		mid := (lo + hi) / 2
		if blockRank(mid) <= k {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

func (d *Dense) selectWithinBlock(blk, k int, one bool) int {
	base := d.blockBase(blk)
	remaining := k - base
	if !one {
		remaining = k - (blk*d.cfg.SuperBlock - base)
	}
	words := d.blockWords(blk)
	pos := blk * d.cfg.SuperBlock
	for _, w := range words {
		ww := w
		if !one {
			ww = ^w
		}
		pc := bitops.PopCount64(ww)
		if remaining < pc {
			return pos + bitops.SelectInWord(ww, remaining)
		}
		remaining -= pc
		pos += 64
	}
	return d.n
}

// OneSeqLen implements RankSelect: the number of consecutive set bits
// starting at i.
func (d *Dense) OneSeqLen(i int) int { return seqLen(d, i, true, 1) }

// ZeroSeqLen implements RankSelect.
func (d *Dense) ZeroSeqLen(i int) int { return seqLen(d, i, false, 1) }

// OneSeqRevLen implements RankSelect: consecutive set bits ending at i,
// scanning backwards (i exclusive).
func (d *Dense) OneSeqRevLen(i int) int { return seqLen(d, i-1, true, -1) }

// ZeroSeqRevLen implements RankSelect.
func (d *Dense) ZeroSeqRevLen(i int) int { return seqLen(d, i-1, false, -1) }

func seqLen(d *Dense, start int, one bool, dir int) int {
	count := 0
	for i := start; i >= 0 && i < d.n; i += dir {
		if d.Is1(i) != one {
			break
		}
		count++
	}
	return count
}

// MemSize implements RankSelect.
func (d *Dense) MemSize() int {
	size := len(d.flat)*8 + len(d.bits)*8 + len(d.ranks)*8
	size += len(d.sel1Cache)*4 + len(d.sel0Cache)*4
	return size
}
