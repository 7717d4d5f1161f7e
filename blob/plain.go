package blob

import (
	"encoding/binary"
	"fmt"
)

// PlainStore stores records back-to-back with a uint32 offset array of
// size num_records+1 — the simplest variant, and the only one in this
// package with a Marshal/Unmarshal pair; the other variants are
// in-memory only.
type PlainStore struct {
	data        []byte
	offsets     []uint32
	chkType     ChecksumType
	chkLevel    ChecksumLevel
	recordCRC   []uint32 // present iff chkLevel == ChecksumPerRecord
	hasDataCRC  bool     // chkLevel == ChecksumWholeData
	dataCRCOK   bool     // whole-data checksum was checked and matched
	dataCRCWant uint32
	dataCRCGot  uint32
}

// PlainBuilder accumulates records before freezing them into a PlainStore.
type PlainBuilder struct {
	data     []byte
	offsets  []uint32
	chkType  ChecksumType
	chkLevel ChecksumLevel
}

// NewPlainBuilder returns a builder with the given record checksum policy,
// using CRC32C as the checksum algorithm.
func NewPlainBuilder(chkLevel ChecksumLevel) *PlainBuilder {
	return NewPlainBuilderWithType(ChecksumCRC32C, chkLevel)
}

// NewPlainBuilderWithType returns a builder with an explicit checksum
// algorithm and policy.
func NewPlainBuilderWithType(chkType ChecksumType, chkLevel ChecksumLevel) *PlainBuilder {
	return &PlainBuilder{offsets: []uint32{0}, chkType: chkType, chkLevel: chkLevel}
}

// AddRecord appends a record.
func (b *PlainBuilder) AddRecord(rec []byte) {
	b.data = append(b.data, rec...)
	b.offsets = append(b.offsets, uint32(len(b.data)))
}

// Finish freezes the builder into a PlainStore. Under ChecksumPerRecord
// every record gets its own checksum, verified independently on each
// GetRecord call. Under ChecksumWholeData a single checksum covers the
// entire data region instead; it is checked once, when the store is
// built or unmarshaled, not on every access.
func (b *PlainBuilder) Finish() *PlainStore {
	s := &PlainStore{data: b.data, offsets: b.offsets, chkType: b.chkType, chkLevel: b.chkLevel}
	switch b.chkLevel {
	case ChecksumPerRecord:
		s.recordCRC = make([]uint32, len(s.offsets)-1)
		for i := range s.recordCRC {
			s.recordCRC[i] = checksumOf(b.chkType, s.data[s.offsets[i]:s.offsets[i+1]])
		}
	case ChecksumWholeData:
		c := checksumOf(b.chkType, s.data)
		s.hasDataCRC = true
		s.dataCRCOK = true
		s.dataCRCWant = c
		s.dataCRCGot = c
	}
	return s
}

// NumRecords returns the number of records.
func (s *PlainStore) NumRecords() int { return len(s.offsets) - 1 }

// TotalDataSize returns the size of the concatenated record payload.
func (s *PlainStore) TotalDataSize() int { return len(s.data) }

// MemSize returns the approximate resident byte size.
func (s *PlainStore) MemSize() int {
	return len(s.data) + len(s.offsets)*4 + len(s.recordCRC)*4
}

// Dict returns nil; PlainStore has no dictionary.
func (s *PlainStore) Dict() []byte { return nil }

// GetRecord returns the i-th record. Under ChecksumPerRecord it verifies
// that record's own checksum on every call. Under ChecksumWholeData the
// data region was already checksum-verified once, at build or unmarshal
// time; GetRecord just reports that earlier verdict instead of redoing
// the whole-region scan per call.
func (s *PlainStore) GetRecord(i int) ([]byte, error) {
	rec := s.data[s.offsets[i]:s.offsets[i+1]]
	switch {
	case s.chkLevel == ChecksumPerRecord:
		got := checksumOf(s.chkType, rec)
		if got != s.recordCRC[i] {
			return nil, &BadChecksumError{Kind: "record", RecordIndex: i, Stored: s.recordCRC[i], Computed: got}
		}
	case s.hasDataCRC && !s.dataCRCOK:
		return nil, &BadChecksumError{Kind: "data", RecordIndex: i, Stored: s.dataCRCWant, Computed: s.dataCRCGot}
	}
	return rec, nil
}

// AppendRecord appends the i-th record to buf.
func (s *PlainStore) AppendRecord(i int, buf []byte) ([]byte, error) {
	rec, err := s.GetRecord(i)
	if err != nil {
		return buf, err
	}
	return append(buf, rec...), nil
}

// Marshal encodes the store as a single self-contained buffer: header,
// offset array, record payload, and (under ChecksumPerRecord) the
// per-record CRC trailer array. Under ChecksumWholeData the single
// data-region checksum travels in the header itself (DataCRC) instead of
// a trailer, since there is only one value to carry.
func (s *PlainStore) Marshal() []byte {
	h := &Header{
		ClassName:   "PlainBlobStore",
		Version:     1,
		NumRecords:  uint64(s.NumRecords()),
		ContentSize: uint64(len(s.data)),
		OffsetSize:  uint64(len(s.offsets) * 4),
		ChkType:     s.chkType,
		ChkLevel:    s.chkLevel,
	}
	if s.hasDataCRC {
		h.DataCRC = s.dataCRCWant
	}
	buf := h.Marshal()
	for _, off := range s.offsets {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], off)
		buf = append(buf, b[:]...)
	}
	buf = append(buf, s.data...)
	if s.chkLevel == ChecksumPerRecord {
		for _, c := range s.recordCRC {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], c)
			buf = append(buf, b[:]...)
		}
	}
	return buf
}

// UnmarshalPlainStore decodes a buffer produced by PlainStore.Marshal.
func UnmarshalPlainStore(buf []byte) (*PlainStore, error) {
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.ClassName != "PlainBlobStore" {
		return nil, fmt.Errorf("blob: expected PlainBlobStore, got %q", h.ClassName)
	}
	pos := HeaderSize
	n := int(h.NumRecords)
	offsets := make([]uint32, n+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(buf[pos : pos+4])
		pos += 4
	}
	data := buf[pos : pos+int(h.ContentSize)]
	pos += int(h.ContentSize)
	s := &PlainStore{data: data, offsets: offsets, chkType: h.ChkType, chkLevel: h.ChkLevel}
	switch h.ChkLevel {
	case ChecksumPerRecord:
		s.recordCRC = make([]uint32, n)
		for i := range s.recordCRC {
			s.recordCRC[i] = binary.LittleEndian.Uint32(buf[pos : pos+4])
			pos += 4
		}
	case ChecksumWholeData:
		s.hasDataCRC = true
		s.dataCRCWant = h.DataCRC
		s.dataCRCGot = checksumOf(h.ChkType, data)
		s.dataCRCOK = s.dataCRCGot == s.dataCRCWant
		if !s.dataCRCOK {
			return nil, &BadChecksumError{Kind: "data", RecordIndex: -1, Stored: s.dataCRCWant, Computed: s.dataCRCGot}
		}
	}
	return s, nil
}
