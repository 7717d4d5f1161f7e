package nlt

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func words() [][]byte {
	ss := []string{"cat", "car", "cart", "carts", "dog", "do", "dodge", "apple", "app", "application"}
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func sortedCopy(keys [][]byte) [][]byte {
	out := make([][]byte, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i], out[j]) < 0 })
	return out
}

func TestLookupAllInsertedKeysFound(t *testing.T) {
	keys := words()
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)
	for _, k := range keys {
		ok := trie.Contains(k)
		require.Truef(t, ok, "missing key %q", k)
	}
	require.False(t, trie.Contains([]byte("ca")))
	require.False(t, trie.Contains([]byte("carted")))
	require.False(t, trie.Contains([]byte("")))
}

func TestRestoreStringMatchesOriginal(t *testing.T) {
	keys := words()
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)
	for _, k := range keys {
		s, ok := trie.Lookup(k)
		require.True(t, ok)
		require.Equal(t, string(k), string(trie.RestoreString(s)))
	}
}

func TestDawgBijection(t *testing.T) {
	keys := sortedCopy(words())
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, len(keys), trie.NumWords())
	for id, k := range keys {
		got := trie.NthWord(id)
		require.Equal(t, string(k), string(got))
		require.Equal(t, id, trie.Index(k))
	}
	require.Equal(t, -1, trie.Index([]byte("nonexistent-key")))
}

func TestOrderedIteratorYieldsSortedKeys(t *testing.T) {
	keys := sortedCopy(words())
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)

	it := trie.NewIterator()
	var got [][]byte
	for ok := it.SeekBegin(); ok; ok = it.Incr() {
		got = append(got, append([]byte(nil), it.Key()...))
	}
	require.Len(t, got, len(keys))
	for i, k := range keys {
		require.Equal(t, string(k), string(got[i]))
	}
}

func TestIteratorDecrMirrorsIncr(t *testing.T) {
	keys := sortedCopy(words())
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)

	it := trie.NewIterator()
	var forward [][]byte
	for ok := it.SeekBegin(); ok; ok = it.Incr() {
		forward = append(forward, append([]byte(nil), it.Key()...))
	}

	it2 := trie.NewIterator()
	var backward [][]byte
	for ok := it2.SeekEnd(); ok; ok = it2.Decr() {
		backward = append(backward, append([]byte(nil), it2.Key()...))
	}
	require.Len(t, backward, len(forward))
	for i := range forward {
		require.Equal(t, string(forward[i]), string(backward[len(backward)-1-i]))
	}
}

func TestSeekLowerBound(t *testing.T) {
	keys := sortedCopy(words())
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)

	cases := []struct {
		target string
		want   string
		found  bool
	}{
		{"car", "car", true},
		{"care", "cart", true},
		{"carts", "carts", true},
		{"cartz", "cat", true},
		{"zzz", "", false},
		{"a", "app", true},
	}
	for _, c := range cases {
		it := trie.NewIterator()
		ok := it.SeekLowerBound([]byte(c.target))
		require.Equal(t, c.found, ok, "target %q", c.target)
		if ok {
			require.Equal(t, c.want, string(it.Key()), "target %q", c.target)
		}
	}
}

func TestNestingProducesSameKeysAsUnnested(t *testing.T) {
	var keys [][]byte
	for i := 0; i < 64; i++ {
		keys = append(keys, []byte(string(rune('a'+i%26))+"-shared-suffix-fragment-repeated-often"))
	}
	keys = append(keys, []byte("unique-tail-one"), []byte("unique-tail-two"))
	sorted := sortedCopy(dedupBytes(keys))

	cfg := DefaultConfig()
	cfg.NestLevel = 4
	cfg.NestScale = 1
	trie, err := Build(sorted, cfg)
	require.NoError(t, err)
	for id, k := range sorted {
		require.Equal(t, string(k), string(trie.NthWord(id)))
		require.Equal(t, id, trie.Index(k))
	}
}

func dedupBytes(in [][]byte) [][]byte {
	seen := make(map[string]bool)
	var out [][]byte
	for _, k := range in {
		if !seen[string(k)] {
			seen[string(k)] = true
			out = append(out, k)
		}
	}
	return out
}

func TestEmptyKeyIsTerminalAtRoot(t *testing.T) {
	keys := [][]byte{[]byte(""), []byte("a"), []byte("ab")}
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)
	require.True(t, trie.Contains([]byte("")))
	require.Equal(t, 0, trie.Index([]byte("")))
}

func TestWideFanOutUsesBitmap(t *testing.T) {
	var keys [][]byte
	for c := 0; c < 200; c++ {
		keys = append(keys, []byte{byte(c), 'x'})
	}
	trie, err := Build(keys, DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, trie.bitmap)
	for _, k := range keys {
		require.True(t, trie.Contains(k))
	}
}
