package rankselect

import "github.com/bytedance/terark-zip-sub003/internal/bitops"

// Mixed packs several logical bitvectors of equal length into one set of
// shared superblocks (Mixed_IL_256 / Mixed_XL_256), amortizing the per-block rank_cache metadata across the K interleaved
// bitvectors instead of paying for it once per bitvector.
type Mixed struct {
	k             int
	n             int
	superBlock    int
	wordsPerBlock int
	numBlocks     int
	stride        int // wordsPerBlock*k + k (one rank base per lane, per block)
	flat          []uint64
	maxRank1      []int
}

// NewMixed packs the bitvectors in builders (all must have equal length)
// into one Mixed structure using the given superblock size (256 or 512).
func NewMixed(builders []*Builder, superBlock int) *Mixed {
	if len(builders) == 0 {
		panic("rankselect: NewMixed requires at least one lane")
	}
	n := builders[0].Len()
	for _, b := range builders {
		if b.Len() != n {
			panic("rankselect: NewMixed requires equal-length lanes")
		}
	}
	m := &Mixed{k: len(builders), n: n, superBlock: superBlock}
	m.wordsPerBlock = superBlock / 64
	m.numBlocks = (n + superBlock - 1) / superBlock
	if m.numBlocks == 0 {
		m.numBlocks = 1
	}
	m.stride = m.k * (m.wordsPerBlock + 1)
	m.flat = make([]uint64, m.numBlocks*m.stride)
	m.maxRank1 = make([]int, m.k)

	padded := make([][]uint64, m.k)
	for lane, b := range builders {
		words := make([]uint64, m.numBlocks*m.wordsPerBlock)
		copy(words, b.Words())
		padded[lane] = words
	}

	for blk := 0; blk < m.numBlocks; blk++ {
		for lane := 0; lane < m.k; lane++ {
			off := blk*m.stride + lane*(m.wordsPerBlock+1)
			m.flat[off] = uint64(m.maxRank1[lane])
			blockWords := padded[lane][blk*m.wordsPerBlock : (blk+1)*m.wordsPerBlock]
			copy(m.flat[off+1:off+1+m.wordsPerBlock], blockWords)
			for _, w := range blockWords {
				m.maxRank1[lane] += bitops.PopCount64(w)
			}
		}
	}
	return m
}

// Lane returns a RankSelect view over the lane-th packed bitvector.
func (m *Mixed) Lane(lane int) RankSelect { return &mixedLane{m: m, lane: lane} }

// NumLanes returns the number of packed bitvectors.
func (m *Mixed) NumLanes() int { return m.k }

// MemSize returns the combined resident size of all lanes.
func (m *Mixed) MemSize() int { return len(m.flat) * 8 }

type mixedLane struct {
	m    *Mixed
	lane int
}

func (l *mixedLane) laneWords(blk int) []uint64 {
	off := blk*l.m.stride + l.lane*(l.m.wordsPerBlock+1) + 1
	return l.m.flat[off : off+l.m.wordsPerBlock]
}

func (l *mixedLane) laneBase(blk int) int {
	off := blk*l.m.stride + l.lane*(l.m.wordsPerBlock+1)
	return int(l.m.flat[off])
}

func (l *mixedLane) Len() int { return l.m.n }

func (l *mixedLane) locate(i int) (blk, wordIdx, bitIdx int) {
	blk = i / l.m.superBlock
	within := i % l.m.superBlock
	return blk, within / 64, within % 64
}

func (l *mixedLane) Is1(i int) bool {
	blk, w, bit := l.locate(i)
	return l.laneWords(blk)[w]&(uint64(1)<<uint(bit)) != 0
}
func (l *mixedLane) Is0(i int) bool { return !l.Is1(i) }

func (l *mixedLane) Rank1(i int) int {
	if i <= 0 {
		return 0
	}
	if i >= l.m.n {
		return l.m.maxRank1[l.lane]
	}
	blk, wordIdx, bitIdx := l.locate(i)
	rank := l.laneBase(blk)
	words := l.laneWords(blk)
	for w := 0; w < wordIdx; w++ {
		rank += bitops.PopCount64(words[w])
	}
	rank += bitops.PopCountRange64(words[wordIdx], uint(bitIdx))
	return rank
}

func (l *mixedLane) Rank0(i int) int {
	if i <= 0 {
		return 0
	}
	if i > l.m.n {
		i = l.m.n
	}
	return i - l.Rank1(i)
}

func (l *mixedLane) MaxRank1() int { return l.m.maxRank1[l.lane] }
func (l *mixedLane) MaxRank0() int { return l.m.n - l.m.maxRank1[l.lane] }

func (l *mixedLane) selectGeneric(k int, one bool) int {
	target := k
	if one {
		if k < 0 || k >= l.MaxRank1() {
			return l.m.n
		}
	} else if k < 0 || k >= l.MaxRank0() {
		return l.m.n
	}
	lo, hi := 0, l.m.numBlocks-1
	rankAt := func(blk int) int {
		base := l.laneBase(blk)
		if one {
			return base
		}
		return blk*l.m.superBlock - base
	}
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if rankAt(mid) <= target {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	base := l.laneBase(best)
	remaining := target - base
	if !one {
		remaining = target - (best*l.m.superBlock - base)
	}
	pos := best * l.m.superBlock
	for _, w := range l.laneWords(best) {
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
	return l.m.n
}

func (l *mixedLane) Select1(k int) int { return l.selectGeneric(k, true) }
func (l *mixedLane) Select0(k int) int { return l.selectGeneric(k, false) }

func (l *mixedLane) OneSeqLen(i int) int     { return mixedSeqLen(l, i, true, 1) }
func (l *mixedLane) ZeroSeqLen(i int) int    { return mixedSeqLen(l, i, false, 1) }
func (l *mixedLane) OneSeqRevLen(i int) int  { return mixedSeqLen(l, i-1, true, -1) }
func (l *mixedLane) ZeroSeqRevLen(i int) int { return mixedSeqLen(l, i-1, false, -1) }

func mixedSeqLen(l *mixedLane, start int, one bool, dir int) int {
	count := 0
	for i := start; i >= 0 && i < l.m.n; i += dir {
		if l.Is1(i) != one {
			break
		}
		count++
	}
	return count
}

func (l *mixedLane) MemSize() int { return 0 } // accounted once via Mixed.MemSize
