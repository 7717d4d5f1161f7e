package rankselect

// Constant is the AllZero/AllOne degenerate RankSelect form: a bitvector
// whose bits are all the same value needs no cache at all, only its
// length and that value.
type Constant struct {
	n   int
	one bool
}

// NewAllZero returns a constant-space RankSelect over n clear bits.
func NewAllZero(n int) *Constant { return &Constant{n: n} }

// NewAllOne returns a constant-space RankSelect over n set bits.
func NewAllOne(n int) *Constant { return &Constant{n: n, one: true} }

// Len implements RankSelect.
func (c *Constant) Len() int { return c.n }

// Is1 implements RankSelect.
func (c *Constant) Is1(i int) bool { return c.one }

// Is0 implements RankSelect.
func (c *Constant) Is0(i int) bool { return !c.one }

// Rank1 implements RankSelect.
func (c *Constant) Rank1(i int) int {
	i = clamp(i, c.n)
	if c.one {
		return i
	}
	return 0
}

// Rank0 implements RankSelect.
func (c *Constant) Rank0(i int) int {
	i = clamp(i, c.n)
	if c.one {
		return 0
	}
	return i
}

// Select1 implements RankSelect.
func (c *Constant) Select1(k int) int {
	if c.one && k >= 0 && k < c.n {
		return k
	}
	return c.n
}

// Select0 implements RankSelect.
func (c *Constant) Select0(k int) int {
	if !c.one && k >= 0 && k < c.n {
		return k
	}
	return c.n
}

// OneSeqLen implements RankSelect.
func (c *Constant) OneSeqLen(i int) int {
	if !c.one || i < 0 || i >= c.n {
		return 0
	}
	return c.n - i
}

// ZeroSeqLen implements RankSelect.
func (c *Constant) ZeroSeqLen(i int) int {
	if c.one || i < 0 || i >= c.n {
		return 0
	}
	return c.n - i
}

// OneSeqRevLen implements RankSelect.
func (c *Constant) OneSeqRevLen(i int) int {
	if !c.one || i <= 0 || i > c.n {
		return 0
	}
	return i
}

// ZeroSeqRevLen implements RankSelect.
func (c *Constant) ZeroSeqRevLen(i int) int {
	if c.one || i <= 0 || i > c.n {
		return 0
	}
	return i
}

// MaxRank1 implements RankSelect.
func (c *Constant) MaxRank1() int {
	if c.one {
		return c.n
	}
	return 0
}

// MaxRank0 implements RankSelect.
func (c *Constant) MaxRank0() int { return c.n - c.MaxRank1() }

// MemSize implements RankSelect.
func (c *Constant) MemSize() int { return 16 }

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
