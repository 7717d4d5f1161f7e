package nlt

import (
	"bytes"
	"sort"

	"github.com/bytedance/terark-zip-sub003/errutil"
	"github.com/bytedance/terark-zip-sub003/internal/bitops"
	"github.com/bytedance/terark-zip-sub003/rankselect"
)

// Trie is a built, read-only NestLoudsTrie. State 0 is always the root.
type Trie struct {
	cfg Config

	louds      rankselect.RankSelect // LOUDS unary encoding, root included
	isTerminal rankselect.RankSelect // one bit per state

	labelData []byte  // labelData[s] = first byte of the edge leading into s
	parent    []int32 // parent[s] = parent state; the root's entry is 0 and is never read
	isLink    []bool  // isLink[s]: s's incoming edge carries a zpath beyond labelData[s]
	linkLen   []int32 // byte length of the zpath when stored inline (corePool mode)
	linkOff   []int32 // offset into corePool, or a word id into nested

	corePool []byte // raw zpath bytes, used when nested == nil
	nested   *Trie  // recursive trie over this level's deduplicated zpath fragments

	bitmap map[int][4]uint64 // state -> 256-bit child-label presence bitmap, wide fan-out only

	dawgID   []uint32 // dawgID[terminalRank(s)] = lexicographic word id, for terminal states s in ascending state order
	invDawg  []int32  // invDawg[wordID] = state
	numWords int
}

// NumStates returns the number of trie states (including the root).
func (t *Trie) NumStates() int { return len(t.labelData) }

// NumWords returns the number of distinct keys stored.
func (t *Trie) NumWords() int { return t.numWords }

// children returns the half-open state range [child0, child0+k) of node s's
// children: bp = select0(s); child0 = bp - s; k =
// one_seq_len(bp+1).
func (t *Trie) children(s int) (child0, k int) {
	bp := t.louds.Select0(s)
	child0 = bp - s
	k = t.louds.OneSeqLen(bp + 1)
	return
}

// hasLabel reports whether bit ch is set in bm.
func hasLabel(bm [4]uint64, ch byte) bool {
	return bm[ch/64]&(uint64(1)<<uint(ch%64)) != 0
}

// bitmapRank counts set bits in bm strictly below position ch, giving the
// 0-indexed rank of ch among the set bits (used to map a label byte to its
// child offset without a linear scan over a 256-bit bitmap).
func bitmapRank(bm [4]uint64, ch int) int {
	word, bit := ch/64, uint(ch%64)
	rank := 0
	for w := 0; w < word; w++ {
		rank += bitops.PopCount64(bm[w])
	}
	rank += bitops.PopCountRange64(bm[word], bit)
	return rank
}

// StateMove finds the child of s labelled ch, returning -1 if none exists.
func (t *Trie) StateMove(s int, ch byte) int {
	child0, k := t.children(s)
	if k == 0 {
		return -1
	}
	if bm, ok := t.bitmap[s]; ok {
		if !hasLabel(bm, ch) {
			return -1
		}
		rank := bitmapRank(bm, int(ch))
		return child0 + rank
	}
	row := t.labelData[child0 : child0+k]
	idx := sort.Search(k, func(i int) bool { return row[i] >= ch })
	if idx < k && row[idx] == ch {
		return child0 + idx
	}
	return -1
}

// StateMoveLowerBound returns the smallest child of s with label >= ch,
// plus whether that child's label equals ch exactly. Returns (-1, false)
// if every child's label is < ch or s has no children.
func (t *Trie) StateMoveLowerBound(s int, ch byte) (int, bool) {
	child0, k := t.children(s)
	if k == 0 {
		return -1, false
	}
	if bm, ok := t.bitmap[s]; ok {
		for c := int(ch); c < 256; c++ {
			if hasLabel(bm, byte(c)) {
				return child0 + bitmapRank(bm, c), c == int(ch)
			}
		}
		return -1, false
	}
	row := t.labelData[child0 : child0+k]
	idx := sort.Search(k, func(i int) bool { return row[i] >= ch })
	if idx >= k {
		return -1, false
	}
	return child0 + idx, row[idx] == ch
}

// zpath returns the zpath bytes (beyond the first label byte) carried by
// state s's incoming edge, or nil if s is not a link state.
func (t *Trie) zpath(s int) []byte {
	if !t.isLink[s] {
		return nil
	}
	if t.nested != nil {
		return t.nested.NthWord(int(t.linkOff[s]))
	}
	off := t.linkOff[s]
	return t.corePool[off : off+t.linkLen[s]]
}

// edgeInto returns the full edge bytes (label byte plus any zpath) leading
// into state s.
func (t *Trie) edgeInto(s int) []byte {
	edge := []byte{t.labelData[s]}
	if t.isLink[s] {
		edge = append(edge, t.zpath(s)...)
	}
	return edge
}

// RestoreString reconstructs the key spelled by walking from state up to
// the root (the "restore_string" operation).
func (t *Trie) RestoreString(state int) []byte {
	var rev []byte
	for s := state; s > 0; s = int(t.parent[s]) {
		edge := t.edgeInto(s)
		for i := len(edge) - 1; i >= 0; i-- {
			rev = append(rev, edge[i])
		}
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// Lookup walks key from the root, matching both inline labels and zpath
// suffixes, and returns the resulting state plus whether it is terminal.
func (t *Trie) Lookup(key []byte) (int, bool) {
	s := 0
	i := 0
	for i < len(key) {
		c := t.StateMove(s, key[i])
		if c < 0 {
			return -1, false
		}
		i++
		if t.isLink[c] {
			zp := t.zpath(c)
			if i+len(zp) > len(key) || !bytes.Equal(key[i:i+len(zp)], zp) {
				return -1, false
			}
			i += len(zp)
		}
		s = c
	}
	return s, t.isTerminal.Is1(s)
}

// Contains reports whether key is one of the stored keys.
func (t *Trie) Contains(key []byte) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Index maps key to its dictionary rank (0-indexed, ascending lexicographic
// order) or -1 if key is absent. This is the DAWG forward bijection.
func (t *Trie) Index(key []byte) int {
	s, ok := t.Lookup(key)
	if !ok {
		return -1
	}
	rank := t.isTerminal.Rank1(s)
	errutil.BugOn(rank >= len(t.dawgID), "dawg rank out of range")
	return int(t.dawgID[rank])
}

// NthWord maps a dictionary rank back to its key. id must satisfy
// 0 <= id < NumWords().
func (t *Trie) NthWord(id int) []byte {
	return t.RestoreString(int(t.invDawg[id]))
}

// MemSize returns the approximate resident byte size of the trie,
// including any nested child trie.
func (t *Trie) MemSize() int {
	size := t.louds.MemSize() + t.isTerminal.MemSize()
	size += len(t.labelData) + len(t.parent)*4 + len(t.isLink) + len(t.linkLen)*4 + len(t.linkOff)*4
	size += len(t.corePool)
	size += len(t.dawgID)*4 + len(t.invDawg)*4
	size += len(t.bitmap) * 32
	if t.nested != nil {
		size += t.nested.MemSize()
	}
	return size
}

// NestDepth reports how many nested trie levels this trie's zpath pool was
// folded into (0 if this level stores its zpath pool inline).
func (t *Trie) NestDepth() int {
	if t.nested == nil {
		return 0
	}
	return 1 + t.nested.NestDepth()
}
