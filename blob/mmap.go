package blob

import "golang.org/x/exp/mmap"

// MmapPlainStore is a PlainStore loaded through a memory mapping, for the
// "load_from_mmap(path, populate)" access path. The record data lives in
// a heap copy of the mapped file, not in the mapping itself.
type MmapPlainStore struct {
	*PlainStore
	reader *mmap.ReaderAt
}

// LoadPlainStoreFromMmap memory-maps path, copies the whole mapping into a
// heap buffer with one ReadAt, and decodes a PlainStore over that copy; the
// store does not reference the mapped pages directly. populate additionally
// touches one byte of every 4 KiB page of the heap copy.
func LoadPlainStoreFromMmap(path string, populate bool) (*MmapPlainStore, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil {
		r.Close()
		return nil, err
	}
	if populate {
		sum := 0
		for i := 0; i < len(buf); i += 4096 {
			sum += int(buf[i])
		}
		_ = sum
	}
	s, err := UnmarshalPlainStore(buf)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &MmapPlainStore{PlainStore: s, reader: r}, nil
}

// Close releases the underlying memory mapping.
func (s *MmapPlainStore) Close() error {
	return s.reader.Close()
}
