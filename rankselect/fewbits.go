package rankselect

import (
	"sort"

	"github.com/bytedance/terark-zip-sub003/internal/unum"
)

// FewBits is the FewZero/FewOne representation: used when the rare bit's
// count is small relative to N, it stores the rare bit's positions
// directly in a hierarchical sparse array (fan-out 256, level[0] strictly
// increasing) instead of a dense cache. W is the position width; callers
// pick the narrowest type (uint16/uint32/uint64) that fits N.
//
// Grounded on src/terark/succinct/rank_select_fewzero.{hpp,cpp}.
type FewBits[W unum.Unsigned] struct {
	n      int
	rareIs bool // true => FewOne (rare bit is 1), false => FewZero (rare bit is 0)
	levels [][]W
}

const fewBitsFanOut = 256

// NewFewBits builds a FewBits structure from the sorted, strictly
// increasing positions of the rare bit. rareIs selects FewOne (true) or
// FewZero (false) semantics.
func NewFewBits[W unum.Unsigned](n int, positions []W, rareIs bool) *FewBits[W] {
	fb := &FewBits[W]{n: n, rareIs: rareIs}
	level := append([]W(nil), positions...)
	fb.levels = append(fb.levels, level)
	for len(level) > 1 {
		next := make([]W, 0, (len(level)+fewBitsFanOut-1)/fewBitsFanOut)
		for i := 0; i < len(level); i += fewBitsFanOut {
			next = append(next, level[i])
		}
		fb.levels = append(fb.levels, next)
		level = next
	}
	return fb
}

// rareCount is the number of rare-bit positions, i.e. len(levels[0]).
func (fb *FewBits[W]) rareCount() int {
	if len(fb.levels) == 0 {
		return 0
	}
	return len(fb.levels[0])
}

// lowerBound walks the levels top-down and returns the count of rare
// positions strictly less than val, i.e. the index of the first position
// >= val in levels[0].
func (fb *FewBits[W]) lowerBound(val int) int {
	if len(fb.levels) == 0 {
		return 0
	}
	top := len(fb.levels) - 1
	lo, hi := 0, len(fb.levels[top])
	for level := top; level > 0; level-- {
		arr := fb.levels[level]
		// Pick the last block in [lo, hi) whose minimum is < val: the first
		// position >= val lies inside that block or right after it. Then
		// narrow [lo, hi) to that block one level down (fan-out 256).
		idx := sort.Search(hi-lo, func(i int) bool { return int(arr[lo+i]) >= val })
		blk := lo + idx - 1
		if blk < lo {
			blk = lo
		}
		lo, hi = blk*fewBitsFanOut, (blk+1)*fewBitsFanOut
		if next := len(fb.levels[level-1]); hi > next {
			hi = next
		}
	}
	arr := fb.levels[0]
	return lo + sort.Search(hi-lo, func(i int) bool { return int(arr[lo+i]) >= val })
}

// Len implements RankSelect.
func (fb *FewBits[W]) Len() int { return fb.n }

// Is1 implements RankSelect.
func (fb *FewBits[W]) Is1(i int) bool {
	idx := fb.lowerBound(i)
	isRarePos := idx < fb.rareCount() && int(fb.levels[0][idx]) == i
	if fb.rareIs {
		return isRarePos
	}
	return !isRarePos
}

// Is0 implements RankSelect.
func (fb *FewBits[W]) Is0(i int) bool { return !fb.Is1(i) }

// Rank1 implements RankSelect.
func (fb *FewBits[W]) Rank1(i int) int {
	if i <= 0 {
		return 0
	}
	if i > fb.n {
		i = fb.n
	}
	rare := fb.lowerBound(i)
	if fb.rareIs {
		return rare
	}
	return i - rare
}

// Rank0 implements RankSelect.
func (fb *FewBits[W]) Rank0(i int) int {
	if i <= 0 {
		return 0
	}
	if i > fb.n {
		i = fb.n
	}
	return i - fb.Rank1(i)
}

// MaxRank1 implements RankSelect.
func (fb *FewBits[W]) MaxRank1() int {
	if fb.rareIs {
		return fb.rareCount()
	}
	return fb.n - fb.rareCount()
}

// MaxRank0 implements RankSelect.
func (fb *FewBits[W]) MaxRank0() int { return fb.n - fb.MaxRank1() }

// Select1 implements RankSelect.
func (fb *FewBits[W]) Select1(k int) int {
	if fb.rareIs {
		if k < 0 || k >= fb.rareCount() {
			return fb.n
		}
		return int(fb.levels[0][k])
	}
	return fb.selectCommon(k)
}

// Select0 implements RankSelect.
func (fb *FewBits[W]) Select0(k int) int {
	if !fb.rareIs {
		if k < 0 || k >= fb.rareCount() {
			return fb.n
		}
		return int(fb.levels[0][k])
	}
	return fb.selectCommon(k)
}

// selectCommon finds the position of the k-th common (non-rare) bit via
// binary search on the monotone "common rank" function. The rare
// positions are indexed in O(1); the common side pays O(log N) in
// exchange for not storing the dominant bit at all.
func (fb *FewBits[W]) selectCommon(k int) int {
	if k < 0 || k >= fb.n-fb.rareCount() {
		return fb.n
	}
	lo, hi := 0, fb.n
	commonRank := func(p int) int { return p - fb.lowerBound(p) }
	for lo < hi {
		mid := (lo + hi) / 2
		if commonRank(mid+1) > k {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// OneSeqLen implements RankSelect.
func (fb *FewBits[W]) OneSeqLen(i int) int { return fewSeqLen(fb, i, true, 1) }

// ZeroSeqLen implements RankSelect.
func (fb *FewBits[W]) ZeroSeqLen(i int) int { return fewSeqLen(fb, i, false, 1) }

// OneSeqRevLen implements RankSelect.
func (fb *FewBits[W]) OneSeqRevLen(i int) int { return fewSeqLen(fb, i-1, true, -1) }

// ZeroSeqRevLen implements RankSelect.
func (fb *FewBits[W]) ZeroSeqRevLen(i int) int { return fewSeqLen(fb, i-1, false, -1) }

func fewSeqLen[W unum.Unsigned](fb *FewBits[W], start int, one bool, dir int) int {
	count := 0
	for i := start; i >= 0 && i < fb.n; i += dir {
		if fb.Is1(i) != one {
			break
		}
		count++
	}
	return count
}

// MemSize implements RankSelect.
func (fb *FewBits[W]) MemSize() int {
	var w W
	size := 0
	for _, level := range fb.levels {
		size += len(level) * sizeOfUnsigned(w)
	}
	return size
}

func sizeOfUnsigned[W unum.Unsigned](w W) int {
	switch any(w).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// FewBitsCursor is a mutable monotonic cursor over a FewBits structure,
// exploiting sequential access patterns the way a "Hint variant" does:
// repeated Rank/Select calls with non-decreasing arguments skip
// re-walking the coarse levels from the top.
type FewBitsCursor[W unum.Unsigned] struct {
	fb       *FewBits[W]
	lastVal  int
	lastIdx  int
	hasState bool
}

// NewFewBitsCursor returns a cursor over fb.
func NewFewBitsCursor[W unum.Unsigned](fb *FewBits[W]) *FewBitsCursor[W] {
	return &FewBitsCursor[W]{fb: fb}
}

// LowerBound behaves like the FewBits internal lowerBound but starts the
// scan from the previous result when val has not decreased, turning the
// common "scan forward" access pattern into a short linear probe instead
// of a fresh O(log log N) descent.
func (c *FewBitsCursor[W]) LowerBound(val int) int {
	if len(c.fb.levels) == 0 {
		return 0
	}
	arr := c.fb.levels[0]
	if c.hasState && val >= c.lastVal {
		i := c.lastIdx
		for i < len(arr) && int(arr[i]) < val {
			i++
		}
		c.lastVal, c.lastIdx, c.hasState = val, i, true
		return i
	}
	idx := c.fb.lowerBound(val)
	c.lastVal, c.lastIdx, c.hasState = val, idx, true
	return idx
}
