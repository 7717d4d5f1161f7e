package rankselect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFromBits(bitsStr string) *Builder {
	b := NewBuilder(len(bitsStr))
	for _, c := range bitsStr {
		b.PushBack(c == '1')
	}
	return b
}

func TestDenseScenarioSmall(t *testing.T) {
	pattern := "1011001"
	for _, cfg := range []Config{
		{SuperBlock: 256, Interleaved: true, SelectSampleRate: 512},
		{SuperBlock: 256, Interleaved: false, SelectSampleRate: 0},
		{SuperBlock: 512, Interleaved: true, SelectSampleRate: 512},
	} {
		d := NewDense(buildFromBits(pattern), cfg)

		wantRank1 := []int{0, 1, 1, 2, 3, 3, 3, 4}
		wantRank0 := []int{0, 0, 1, 1, 1, 2, 3, 3}
		for i := 0; i <= 7; i++ {
			assert.Equalf(t, wantRank1[i], d.Rank1(i), "rank1(%d) cfg=%+v", i, cfg)
			assert.Equalf(t, wantRank0[i], d.Rank0(i), "rank0(%d) cfg=%+v", i, cfg)
		}

		wantSel1 := []int{0, 2, 3, 6}
		for k, want := range wantSel1 {
			assert.Equalf(t, want, d.Select1(k), "select1(%d) cfg=%+v", k, cfg)
		}
		wantSel0 := []int{1, 4, 5}
		for k, want := range wantSel0 {
			assert.Equalf(t, want, d.Select0(k), "select0(%d) cfg=%+v", k, cfg)
		}
	}
}

// scenario 2: FewZero round-trip against the dense reference.
func TestFewZeroRoundTrip(t *testing.T) {
	pattern := "1011001"
	ref := NewDense(buildFromBits(pattern), DefaultConfig)

	var zeroPositions []uint32
	for i, c := range pattern {
		if c == '0' {
			zeroPositions = append(zeroPositions, uint32(i))
		}
	}
	fz := NewFewBits[uint32](len(pattern), zeroPositions, false)

	for i := 0; i <= len(pattern); i++ {
		require.Equal(t, ref.Rank1(i), fz.Rank1(i), "rank1(%d)", i)
		require.Equal(t, ref.Rank0(i), fz.Rank0(i), "rank0(%d)", i)
	}
	for i := 0; i < len(pattern); i++ {
		require.Equal(t, ref.Is1(i), fz.Is1(i), "is1(%d)", i)
		require.Equal(t, ref.OneSeqLen(i), fz.OneSeqLen(i), "oneSeqLen(%d)", i)
		require.Equal(t, ref.ZeroSeqLen(i), fz.ZeroSeqLen(i), "zeroSeqLen(%d)", i)
	}
	for k := 0; k < ref.MaxRank1(); k++ {
		require.Equal(t, ref.Select1(k), fz.Select1(k), "select1(%d)", k)
	}
	for k := 0; k < ref.MaxRank0(); k++ {
		require.Equal(t, ref.Select0(k), fz.Select0(k), "select0(%d)", k)
	}
}

func TestRSDicVariantAgreesWithDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 2000
	b := NewBuilder(n)
	for i := 0; i < n; i++ {
		b.PushBack(rng.Intn(100) < 5) // sparse: FewOne territory
	}
	dense := NewDense(b, DefaultConfig)
	rs := NewRSDicVariant(b)

	require.Equal(t, dense.MaxRank1(), rs.MaxRank1())
	require.Equal(t, dense.MaxRank0(), rs.MaxRank0())
	for i := 0; i <= n; i += 37 {
		require.Equal(t, dense.Rank1(i), rs.Rank1(i), "rank1(%d)", i)
		require.Equal(t, dense.Rank0(i), rs.Rank0(i), "rank0(%d)", i)
	}
	for k := 0; k < dense.MaxRank1(); k += 7 {
		require.Equal(t, dense.Select1(k), rs.Select1(k), "select1(%d)", k)
	}
}

func TestUniversalInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 1500
	b := NewBuilder(n)
	for i := 0; i < n; i++ {
		b.PushBack(rng.Intn(2) == 1)
	}
	d := NewDense(b, DefaultConfig)

	for i := 0; i <= n; i++ {
		assert.Equal(t, i, d.Rank1(i)+d.Rank0(i), "rank1+rank0 at %d", i)
	}
	for k := 0; k < d.MaxRank1(); k++ {
		pos := d.Select1(k)
		require.True(t, d.Is1(pos))
		require.Equal(t, k, d.Rank1(pos))
	}
}

func TestConstantVariants(t *testing.T) {
	az := NewAllZero(10)
	assert.Equal(t, 0, az.MaxRank1())
	assert.Equal(t, 10, az.MaxRank0())
	assert.Equal(t, 10, az.Select1(0))
	assert.Equal(t, 3, az.Select0(3))

	ao := NewAllOne(10)
	assert.Equal(t, 10, ao.MaxRank1())
	assert.Equal(t, 5, ao.Select1(5))
}

func TestMixedLanesIndependent(t *testing.T) {
	b1 := buildFromBits("1011001")
	b2 := buildFromBits("0100110")
	m := NewMixed([]*Builder{b1, b2}, 256)

	l1 := m.Lane(0)
	l2 := m.Lane(1)

	ref1 := NewDense(b1, DefaultConfig)
	ref2 := NewDense(b2, DefaultConfig)

	for i := 0; i <= 7; i++ {
		assert.Equal(t, ref1.Rank1(i), l1.Rank1(i))
		assert.Equal(t, ref2.Rank1(i), l2.Rank1(i))
	}
}

func TestFewBitsCursorMatchesPlain(t *testing.T) {
	positions := []uint32{3, 9, 20, 21, 50}
	fb := NewFewBits[uint32](64, positions, true)
	cur := NewFewBitsCursor(fb)
	for v := 0; v <= 64; v++ {
		require.Equal(t, fb.lowerBound(v), cur.LowerBound(v), "val=%d", v)
	}
}
