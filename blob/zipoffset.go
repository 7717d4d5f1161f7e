package blob

import "github.com/bytedance/terark-zip-sub003/intvec"

// ZipOffsetStore stores records back-to-back in raw form with offsets kept
// in a SortedUintVec, trading an extra decode indirection for a much
// smaller offset index whenever record lengths repeat or cluster.
type ZipOffsetStore struct {
	data    []byte
	offsets *intvec.SortedUintVec
}

// ZipOffsetBuilder accumulates records before freezing their offsets into
// a SortedUintVec with the given block unit (0, 64, or 128).
type ZipOffsetBuilder struct {
	data    []byte
	offsets *intvec.SortedUintVecBuilder
}

// NewZipOffsetBuilder returns a builder using blockUnits for the offset
// index (0 disables block compression, storing offsets plain).
func NewZipOffsetBuilder(blockUnits int) *ZipOffsetBuilder {
	b := &ZipOffsetBuilder{offsets: intvec.NewSortedUintVecBuilder(blockUnits)}
	b.offsets.Push(0)
	return b
}

// AddRecord appends a record.
func (b *ZipOffsetBuilder) AddRecord(rec []byte) {
	b.data = append(b.data, rec...)
	b.offsets.Push(uint64(len(b.data)))
}

// Finish freezes the builder into a ZipOffsetStore.
func (b *ZipOffsetBuilder) Finish() *ZipOffsetStore {
	return &ZipOffsetStore{data: b.data, offsets: b.offsets.Build()}
}

// NumRecords returns the number of records.
func (s *ZipOffsetStore) NumRecords() int { return s.offsets.Len() - 1 }

// TotalDataSize returns the size of the concatenated record payload.
func (s *ZipOffsetStore) TotalDataSize() int { return len(s.data) }

// MemSize returns the approximate resident byte size.
func (s *ZipOffsetStore) MemSize() int { return len(s.data) + s.offsets.MemSize() }

// Dict returns nil; ZipOffsetStore has no dictionary.
func (s *ZipOffsetStore) Dict() []byte { return nil }

// GetRecord returns the i-th record.
func (s *ZipOffsetStore) GetRecord(i int) ([]byte, error) {
	lo, hi := s.offsets.Get2(i)
	return s.data[lo:hi], nil
}

// AppendRecord appends the i-th record to buf.
func (s *ZipOffsetStore) AppendRecord(i int, buf []byte) ([]byte, error) {
	rec, err := s.GetRecord(i)
	if err != nil {
		return buf, err
	}
	return append(buf, rec...), nil
}
