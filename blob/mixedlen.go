package blob

import "github.com/bytedance/terark-zip-sub003/rankselect"

// MixedLenStore separates records into a fixed-length slab (for the common
// case where most records share one length L) and a Plain fallback store
// for everything else, distinguished by a rank/select bitvector.
type MixedLenStore struct {
	fixedLen  int
	isFixed   rankselect.RankSelect // bit i: record i has length == fixedLen
	fixedSlab []byte
	varStore  *PlainStore
}

// MixedLenBuilder accumulates records, routing each to the fixed slab or
// the variable-length fallback store.
type MixedLenBuilder struct {
	fixedLen   int
	bits       *rankselect.Builder
	fixedSlab  []byte
	varBuilder *PlainBuilder
}

// NewMixedLenBuilder returns a builder that special-cases length fixedLen.
func NewMixedLenBuilder(fixedLen int, chkLevel ChecksumLevel) *MixedLenBuilder {
	return &MixedLenBuilder{
		fixedLen:   fixedLen,
		bits:       rankselect.NewBuilder(0),
		varBuilder: NewPlainBuilder(chkLevel),
	}
}

// AddRecord appends a record.
func (b *MixedLenBuilder) AddRecord(rec []byte) {
	if len(rec) == b.fixedLen {
		b.bits.PushBack(true)
		b.fixedSlab = append(b.fixedSlab, rec...)
		return
	}
	b.bits.PushBack(false)
	b.varBuilder.AddRecord(rec)
}

// Finish freezes the builder into a MixedLenStore.
func (b *MixedLenBuilder) Finish() *MixedLenStore {
	return &MixedLenStore{
		fixedLen:  b.fixedLen,
		isFixed:   rankselect.NewDense(b.bits, rankselect.DefaultConfig),
		fixedSlab: b.fixedSlab,
		varStore:  b.varBuilder.Finish(),
	}
}

// NumRecords returns the number of records.
func (s *MixedLenStore) NumRecords() int { return s.isFixed.Len() }

// TotalDataSize returns the combined payload size of both sub-stores.
func (s *MixedLenStore) TotalDataSize() int { return len(s.fixedSlab) + s.varStore.TotalDataSize() }

// MemSize returns the approximate resident byte size.
func (s *MixedLenStore) MemSize() int {
	return s.isFixed.MemSize() + len(s.fixedSlab) + s.varStore.MemSize()
}

// Dict returns nil; MixedLenStore has no dictionary.
func (s *MixedLenStore) Dict() []byte { return nil }

// GetRecord returns the i-th record, from whichever sub-store holds it.
func (s *MixedLenStore) GetRecord(i int) ([]byte, error) {
	if s.isFixed.Is1(i) {
		rank := s.isFixed.Rank1(i)
		return s.fixedSlab[rank*s.fixedLen : (rank+1)*s.fixedLen], nil
	}
	rank := s.isFixed.Rank0(i)
	return s.varStore.GetRecord(rank)
}

// AppendRecord appends the i-th record to buf.
func (s *MixedLenStore) AppendRecord(i int, buf []byte) ([]byte, error) {
	rec, err := s.GetRecord(i)
	if err != nil {
		return buf, err
	}
	return append(buf, rec...), nil
}
