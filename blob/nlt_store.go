package blob

import "github.com/bytedance/terark-zip-sub003/nlt"

// NestLoudsTrieStore presents a nlt.Trie as a Store: record index i maps
// directly to DAWG word id i, so GetRecord is a single NthWord lookup.
// This is the right variant for records that are themselves key-like
// strings with heavy shared prefixes/suffixes.
type NestLoudsTrieStore struct {
	trie *nlt.Trie
}

// NewNestLoudsTrieStore wraps an already-built trie as a Store.
func NewNestLoudsTrieStore(t *nlt.Trie) *NestLoudsTrieStore {
	return &NestLoudsTrieStore{trie: t}
}

// BuildNestLoudsTrieStore builds a trie from records and wraps it. Records
// must be distinct; duplicate records collapse to one DAWG entry the same
// way nlt.Build dedups keys, so callers needing positional record-index
// semantics over potentially-duplicated input should sort and dedup
// upstream and keep their own reorder map.
func BuildNestLoudsTrieStore(records [][]byte, cfg nlt.Config) (*NestLoudsTrieStore, error) {
	t, err := nlt.Build(records, cfg)
	if err != nil {
		return nil, err
	}
	return &NestLoudsTrieStore{trie: t}, nil
}

// NumRecords returns the number of distinct words held by the trie.
func (s *NestLoudsTrieStore) NumRecords() int { return s.trie.NumWords() }

// TotalDataSize returns the sum of all record lengths.
func (s *NestLoudsTrieStore) TotalDataSize() int {
	total := 0
	for i := 0; i < s.trie.NumWords(); i++ {
		total += len(s.trie.NthWord(i))
	}
	return total
}

// MemSize returns the approximate resident byte size of the backing trie.
func (s *NestLoudsTrieStore) MemSize() int { return s.trie.MemSize() }

// Dict returns nil; NestLoudsTrieStore has no separate dictionary, the
// trie's shared-prefix/suffix structure serves that role implicitly.
func (s *NestLoudsTrieStore) Dict() []byte { return nil }

// GetRecord returns the i-th word in DAWG id order.
func (s *NestLoudsTrieStore) GetRecord(i int) ([]byte, error) {
	return s.trie.NthWord(i), nil
}

// AppendRecord appends the i-th record to buf.
func (s *NestLoudsTrieStore) AppendRecord(i int, buf []byte) ([]byte, error) {
	rec, err := s.GetRecord(i)
	if err != nil {
		return buf, err
	}
	return append(buf, rec...), nil
}

// Lookup returns the record index for key, or -1 if absent — the reverse
// direction PlainStore et al. cannot offer without a side index.
func (s *NestLoudsTrieStore) Lookup(key []byte) int {
	return s.trie.Index(key)
}
