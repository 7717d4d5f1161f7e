package blob

import (
	"container/heap"

	"github.com/bytedance/terark-zip-sub003/intvec"
)

// EntropyZipStore encodes its concatenated records with an order-1 Huffman
// model (one code table per preceding byte) and stores each record's
// starting bit offset in a SortedUintVec. The Huffman tree construction
// itself is built on container/heap (stdlib): no order-1 entropy coder is
// available as a library dependency, and compress/flate's static coder
// does not expose a custom per-symbol model, so there is no third-party
// library to bind here.
type EntropyZipStore struct {
	roots      [256]*huffNode // per-context decode tree, nil if context unused
	data       []byte
	bitOffsets *intvec.SortedUintVec
	lens       []uint32 // per-record decoded byte length
}

// EntropyZipBuilder accumulates records, then builds the order-1 frequency
// histogram and Huffman tables at Finish time by scanning freq_hist_o1
// from the accumulated input.
type EntropyZipBuilder struct {
	records    [][]byte
	blockUnits int
}

// NewEntropyZipBuilder returns a builder whose offset index uses the given
// block unit.
func NewEntropyZipBuilder(blockUnits int) *EntropyZipBuilder {
	return &EntropyZipBuilder{blockUnits: blockUnits}
}

// AddRecord appends a record.
func (b *EntropyZipBuilder) AddRecord(rec []byte) {
	b.records = append(b.records, append([]byte(nil), rec...))
}

type huffNode struct {
	freq        int
	sym         int // -1 for internal nodes
	left, right *huffNode
}

type huffHeap []*huffNode

func (h huffHeap) Len() int            { return len(h) }
func (h huffHeap) Less(i, j int) bool  { return h[i].freq < h[j].freq }
func (h huffHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *huffHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type huffCode struct {
	bits uint32
	len  uint8
}

// buildHuffman constructs a Huffman tree over a 256-entry
// frequency table, returning both the per-symbol codes and the tree root
// needed for decoding.
func buildHuffman(freq [256]int) (codes [256]huffCode, root *huffNode) {
	h := &huffHeap{}
	heap.Init(h)
	for sym, f := range freq {
		if f > 0 {
			heap.Push(h, &huffNode{freq: f, sym: sym})
		}
	}
	switch h.Len() {
	case 0:
		return codes, nil
	case 1:
		only := heap.Pop(h).(*huffNode)
		codes[only.sym] = huffCode{bits: 0, len: 1}
		return codes, &huffNode{freq: only.freq, sym: -1, left: only, right: only}
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(*huffNode)
		b := heap.Pop(h).(*huffNode)
		heap.Push(h, &huffNode{freq: a.freq + b.freq, sym: -1, left: a, right: b})
	}
	root = (*h)[0]
	var walk func(n *huffNode, bits uint32, depth uint8)
	walk = func(n *huffNode, bits uint32, depth uint8) {
		if n.sym >= 0 {
			codes[n.sym] = huffCode{bits: bits, len: depth}
			return
		}
		walk(n.left, bits<<1, depth+1)
		walk(n.right, (bits<<1)|1, depth+1)
	}
	walk(root, 0, 0)
	return codes, root
}

// bitWriter packs Huffman codes MSB-first into a growing byte buffer.
type bitWriter struct {
	buf   []byte
	nbits int
}

func (w *bitWriter) writeBits(bits uint32, n uint8) {
	for i := int(n) - 1; i >= 0; i-- {
		byteIdx := w.nbits / 8
		for byteIdx >= len(w.buf) {
			w.buf = append(w.buf, 0)
		}
		if (bits>>uint(i))&1 == 1 {
			w.buf[byteIdx] |= 1 << uint(7-w.nbits%8)
		}
		w.nbits++
	}
}

func getBit(data []byte, pos int) int {
	return int((data[pos/8] >> uint(7-pos%8)) & 1)
}

// Finish builds the per-context Huffman tables and encodes every record.
func (b *EntropyZipBuilder) Finish() *EntropyZipStore {
	var freq [256][256]int // freq[prevByte][thisByte], prevByte resets to 0 at each record start
	for _, rec := range b.records {
		prev := byte(0)
		for _, c := range rec {
			freq[prev][c]++
			prev = c
		}
	}

	var codes [256][256]huffCode
	var roots [256]*huffNode
	for ctx := 0; ctx < 256; ctx++ {
		codes[ctx], roots[ctx] = buildHuffman(freq[ctx])
	}

	bw := &bitWriter{}
	offBuilder := intvec.NewSortedUintVecBuilder(b.blockUnits)
	offBuilder.Push(0)
	lens := make([]uint32, len(b.records))
	for i, rec := range b.records {
		prev := byte(0)
		for _, c := range rec {
			code := codes[prev][c]
			bw.writeBits(code.bits, code.len)
			prev = c
		}
		offBuilder.Push(uint64(bw.nbits))
		lens[i] = uint32(len(rec))
	}

	return &EntropyZipStore{roots: roots, data: bw.buf, bitOffsets: offBuilder.Build(), lens: lens}
}

// NumRecords returns the number of records.
func (s *EntropyZipStore) NumRecords() int { return len(s.lens) }

// TotalDataSize returns the sum of decoded record lengths.
func (s *EntropyZipStore) TotalDataSize() int {
	total := 0
	for _, l := range s.lens {
		total += int(l)
	}
	return total
}

// MemSize returns the approximate resident byte size.
func (s *EntropyZipStore) MemSize() int {
	return len(s.data) + s.bitOffsets.MemSize() + len(s.lens)*4
}

// Dict returns nil; EntropyZipStore has no dictionary.
func (s *EntropyZipStore) Dict() []byte { return nil }

// GetRecord decodes and returns the i-th record.
func (s *EntropyZipStore) GetRecord(i int) ([]byte, error) {
	bitPos := int(s.bitOffsets.Get(i))
	n := int(s.lens[i])
	out := make([]byte, 0, n)
	prev := byte(0)
	for len(out) < n {
		node := s.roots[prev]
		for node.sym < 0 {
			if getBit(s.data, bitPos) == 0 {
				node = node.left
			} else {
				node = node.right
			}
			bitPos++
		}
		out = append(out, byte(node.sym))
		prev = byte(node.sym)
	}
	return out, nil
}

// AppendRecord appends the i-th record to buf.
func (s *EntropyZipStore) AppendRecord(i int, buf []byte) ([]byte, error) {
	rec, err := s.GetRecord(i)
	if err != nil {
		return buf, err
	}
	return append(buf, rec...), nil
}
