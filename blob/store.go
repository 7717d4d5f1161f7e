package blob

// Store is the common contract every variant in this package implements:
// get_record, num_records, total_data_size, mem_size, get_dict.
type Store interface {
	// GetRecord returns the i-th record. It returns a *BadChecksumError if
	// the store's checksum policy is enabled and the record fails
	// verification.
	GetRecord(i int) ([]byte, error)
	// AppendRecord appends the i-th record to buf, returning the grown
	// slice, avoiding an extra allocation for the common "scan and
	// concatenate" access pattern.
	AppendRecord(i int, buf []byte) ([]byte, error)
	NumRecords() int
	TotalDataSize() int
	MemSize() int
	// Dict returns the store's embedded dictionary, or nil if it has none.
	Dict() []byte
}

// ReorderMap is a permutation: ReorderMap[newIndex] = oldIndex.
type ReorderMap []int

// ExtractReordered reads every record out of s in the order given by
// remap, the shared first step behind every variant's reorder_zip_data:
// payload bytes move, and each variant's builder re-ingests them in the
// new order to rebuild its own offset index.
func ExtractReordered(s Store, remap ReorderMap) ([][]byte, error) {
	out := make([][]byte, len(remap))
	for newIdx, oldIdx := range remap {
		rec, err := s.GetRecord(oldIdx)
		if err != nil {
			return nil, err
		}
		out[newIdx] = append([]byte(nil), rec...)
	}
	return out, nil
}

// IdentityReorderMap returns the identity permutation of length n:
// reordering by it must reproduce the original payload unchanged.
func IdentityReorderMap(n int) ReorderMap {
	m := make(ReorderMap, n)
	for i := range m {
		m[i] = i
	}
	return m
}
