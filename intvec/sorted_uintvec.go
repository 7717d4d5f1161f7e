package intvec

import "sort"

// SortedUintVec stores a non-decreasing sequence of integers as a
// sequence of fixed-size blocks (64 or 128 elements). Each block records
// its minimum value as a base and the element deltas packed at the
// block's own minimal width, so a block of nearly-equal values costs far
// less than the corpus-wide width would. It backs every "offset index"
// in the blob package (ZipOffset, Entropy, DictZip).
type SortedUintVec struct {
	blockUnits int
	n          int
	blockBase  []uint64
	blockWidth []uint8
	blocks     [][]uint64 // per-block packed deltas
}

// SortedUintVecBuilder accumulates a non-decreasing sequence before
// freezing it into blocks.
type SortedUintVecBuilder struct {
	blockUnits int
	vals       []uint64
}

// NewSortedUintVecBuilder creates a builder with the given block unit (64
// or 128; 0 means "store plain", i.e. one element per block, used by
// ZipOffsetBlobStore when block compression is disabled).
func NewSortedUintVecBuilder(blockUnits int) *SortedUintVecBuilder {
	if blockUnits == 0 {
		blockUnits = 1
	}
	return &SortedUintVecBuilder{blockUnits: blockUnits}
}

// Push appends the next value; it must be >= the previous value.
func (b *SortedUintVecBuilder) Push(v uint64) {
	if len(b.vals) > 0 && v < b.vals[len(b.vals)-1] {
		panic("intvec: SortedUintVec values must be non-decreasing")
	}
	b.vals = append(b.vals, v)
}

// Build finalizes the blocks.
func (b *SortedUintVecBuilder) Build() *SortedUintVec {
	n := len(b.vals)
	numBlocks := (n + b.blockUnits - 1) / b.blockUnits
	if numBlocks == 0 {
		numBlocks = 1
	}
	s := &SortedUintVec{
		blockUnits: b.blockUnits,
		n:          n,
		blockBase:  make([]uint64, numBlocks),
		blockWidth: make([]uint8, numBlocks),
		blocks:     make([][]uint64, numBlocks),
	}
	for blk := 0; blk < numBlocks; blk++ {
		lo := blk * b.blockUnits
		hi := lo + b.blockUnits
		if hi > n {
			hi = n
		}
		if lo >= n {
			continue
		}
		base := b.vals[lo]
		deltas := make([]uint64, hi-lo)
		maxDelta := uint64(0)
		for i := lo; i < hi; i++ {
			d := b.vals[i] - base
			deltas[i-lo] = d
			if d > maxDelta {
				maxDelta = d
			}
		}
		width := WidthFor(maxDelta)
		s.blockBase[blk] = base
		s.blockWidth[blk] = uint8(width)
		s.blocks[blk] = packBits(deltas, width)
	}
	return s
}

// Len returns the number of elements.
func (s *SortedUintVec) Len() int { return s.n }

// Get returns the value at index i.
func (s *SortedUintVec) Get(i int) uint64 {
	blk, within := i/s.blockUnits, i%s.blockUnits
	return s.blockBase[blk] + unpackBits(s.blocks[blk], within, int(s.blockWidth[blk]))
}

// Get2 fetches the adjacent pair (i, i+1) in one call.
func (s *SortedUintVec) Get2(i int) (a, b uint64) {
	return s.Get(i), s.Get(i + 1)
}

// GetBlock bulk-decodes block blk into out, returning the slice (resized
// if necessary). Used by scans and by offset-index readers that want to
// consume a whole run of records at once.
func (s *SortedUintVec) GetBlock(blk int, out []uint64) []uint64 {
	lo := blk * s.blockUnits
	hi := lo + s.blockUnits
	if hi > s.n {
		hi = s.n
	}
	count := hi - lo
	if cap(out) < count {
		out = make([]uint64, count)
	}
	out = out[:count]
	base := s.blockBase[blk]
	width := int(s.blockWidth[blk])
	for i := 0; i < count; i++ {
		out[i] = base + unpackBits(s.blocks[blk], i, width)
	}
	return out
}

// numBlocks returns the number of blocks, ceil(n/blockUnits).
func (s *SortedUintVec) numBlocks() int { return len(s.blockBase) }

// LowerBound returns the smallest index i in [lo, hi) with Get(i) >= key,
// or hi if none. It first narrows the search to the block whose base
// value-ladder brackets key, then binary searches the decoded values
// within that block's neighborhood — the same two-stage search
// SortedUintVec.lower_bound uses elsewhere in the ecosystem.
func (s *SortedUintVec) LowerBound(lo, hi int, key uint64) int {
	if lo >= hi {
		return hi
	}
	startBlk, endBlk := lo/s.blockUnits, (hi-1)/s.blockUnits
	// Narrow to the last block whose base is < key using the sampled
	// base-value ladder: every element before that block is < key, and a
	// block whose base equals key may still be preceded by equal values.
	blk := sort.Search(endBlk-startBlk+1, func(j int) bool {
		return s.blockBase[startBlk+j] >= key
	}) - 1 + startBlk
	if blk < startBlk {
		blk = startBlk
	}
	// Scan from the start of that block (it may still undershoot by one
	// block if key falls in a gap between blocks' max and the next base).
	searchLo := blk * s.blockUnits
	if searchLo < lo {
		searchLo = lo
	}
	idx := sort.Search(hi-searchLo, func(j int) bool { return s.Get(searchLo+j) >= key })
	return searchLo + idx
}

// UpperBound returns the smallest index i in [lo, hi) with Get(i) > key,
// or hi if none.
func (s *SortedUintVec) UpperBound(lo, hi int, key uint64) int {
	if lo >= hi {
		return hi
	}
	idx := sort.Search(hi-lo, func(j int) bool { return s.Get(lo+j) > key })
	return lo + idx
}

// MemSize returns the resident byte size.
func (s *SortedUintVec) MemSize() int {
	size := len(s.blockBase)*8 + len(s.blockWidth)
	for _, blk := range s.blocks {
		size += len(blk) * 8
	}
	return size
}
