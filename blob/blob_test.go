package blob

import (
	"bytes"
	"testing"

	"github.com/bytedance/terark-zip-sub003/nlt"
)

func buildPlain(t *testing.T, chk ChecksumLevel, recs [][]byte) *PlainStore {
	t.Helper()
	b := NewPlainBuilder(chk)
	for _, r := range recs {
		b.AddRecord(r)
	}
	return b.Finish()
}

func TestPlainStoreRoundTrip(t *testing.T) {
	recs := [][]byte{[]byte("foo"), []byte("bar"), []byte(""), []byte("quux")}
	s := buildPlain(t, ChecksumPerRecord, recs)
	if s.NumRecords() != len(recs) {
		t.Fatalf("NumRecords = %d, want %d", s.NumRecords(), len(recs))
	}
	for i, want := range recs {
		got, err := s.GetRecord(i)
		if err != nil {
			t.Fatalf("GetRecord(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("record %d = %q, want %q", i, got, want)
		}
	}
	if s.TotalDataSize() != 3+3+0+4 {
		t.Fatalf("TotalDataSize = %d", s.TotalDataSize())
	}
}

func TestPlainStoreMarshalRoundTrip(t *testing.T) {
	recs := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}
	s := buildPlain(t, ChecksumPerRecord, recs)
	buf := s.Marshal()

	s2, err := UnmarshalPlainStore(buf)
	if err != nil {
		t.Fatalf("UnmarshalPlainStore: %v", err)
	}
	for i, want := range recs {
		got, err := s2.GetRecord(i)
		if err != nil {
			t.Fatalf("GetRecord(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("record %d = %q, want %q", i, got, want)
		}
	}
}

func TestHeaderCRCDetectsCorruption(t *testing.T) {
	recs := [][]byte{[]byte("hello")}
	s := buildPlain(t, ChecksumHeaderOnly, recs)
	buf := s.Marshal()

	corrupted := append([]byte(nil), buf...)
	corrupted[25] ^= 0xFF // inside ClassName field, before the trailing CRC word
	if _, err := UnmarshalHeader(corrupted); err == nil {
		t.Fatal("expected header CRC mismatch, got nil error")
	}

	// Flipping the CRC word itself should also be detected (it stops
	// matching the now-unperturbed body).
	corrupted2 := append([]byte(nil), buf...)
	corrupted2[124] ^= 0xFF
	if _, err := UnmarshalHeader(corrupted2); err == nil {
		t.Fatal("expected header CRC mismatch after corrupting CRC word")
	}
}

func TestPlainStorePerRecordChecksumDetectsCorruption(t *testing.T) {
	recs := [][]byte{[]byte("first"), []byte("second")}
	s := buildPlain(t, ChecksumPerRecord, recs)

	// Corrupt the payload byte belonging to record 1 in place.
	s.data[s.offsets[1]] ^= 0xFF

	_, err := s.GetRecord(1)
	if err == nil {
		t.Fatal("expected BadChecksumError, got nil")
	}
	var bce *BadChecksumError
	if !asBadChecksum(err, &bce) {
		t.Fatalf("expected *BadChecksumError, got %T: %v", err, err)
	}
	if bce.RecordIndex != 1 {
		t.Fatalf("RecordIndex = %d, want 1", bce.RecordIndex)
	}
}

func asBadChecksum(err error, out **BadChecksumError) bool {
	bce, ok := err.(*BadChecksumError)
	if ok {
		*out = bce
	}
	return ok
}

func TestMixedLenStoreRoutesByLength(t *testing.T) {
	b := NewMixedLenBuilder(4, ChecksumNone)
	recs := [][]byte{[]byte("abcd"), []byte("xy"), []byte("wxyz"), []byte("longer record")}
	for _, r := range recs {
		b.AddRecord(r)
	}
	s := b.Finish()
	if s.NumRecords() != len(recs) {
		t.Fatalf("NumRecords = %d", s.NumRecords())
	}
	for i, want := range recs {
		got, err := s.GetRecord(i)
		if err != nil {
			t.Fatalf("GetRecord(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("record %d = %q, want %q", i, got, want)
		}
	}
}

func TestZipOffsetStoreRoundTrip(t *testing.T) {
	b := NewZipOffsetBuilder(0)
	recs := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc"), []byte("")}
	for _, r := range recs {
		b.AddRecord(r)
	}
	s := b.Finish()
	for i, want := range recs {
		got, err := s.GetRecord(i)
		if err != nil {
			t.Fatalf("GetRecord(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("record %d = %q, want %q", i, got, want)
		}
	}
}

func TestEntropyZipStoreRoundTrip(t *testing.T) {
	b := NewEntropyZipBuilder(0)
	recs := [][]byte{
		[]byte("mississippi"),
		[]byte("banana"),
		[]byte(""),
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("aaaaaaaaaaaaaaaaaaaa"),
	}
	for _, r := range recs {
		b.AddRecord(r)
	}
	s := b.Finish()
	if s.NumRecords() != len(recs) {
		t.Fatalf("NumRecords = %d", s.NumRecords())
	}
	for i, want := range recs {
		got, err := s.GetRecord(i)
		if err != nil {
			t.Fatalf("GetRecord(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("record %d = %q, want %q", i, got, want)
		}
	}
}

// TestDictZipRoundTripWithFullSample covers a sample ratio of 1.0 (whole
// corpus becomes the dictionary), checking NumRecords, two spot-checked
// records, TotalDataSize, and that corrupting a record trips
// BadChecksumError under ChecksumPerRecord.
func TestDictZipRoundTripWithFullSample(t *testing.T) {
	recs := [][]byte{[]byte("foobar"), []byte("foobaz"), []byte("foo"), []byte("barfoo")}
	b := NewDictZipBuilder(1.0, 0, ChecksumPerRecord)
	for _, r := range recs {
		b.AddRecord(r)
	}
	s := b.Finish()

	if s.NumRecords() != 4 {
		t.Fatalf("NumRecords = %d, want 4", s.NumRecords())
	}
	got0, err := s.GetRecord(0)
	if err != nil || !bytes.Equal(got0, []byte("foobar")) {
		t.Fatalf("GetRecord(0) = %q, %v, want foobar", got0, err)
	}
	got3, err := s.GetRecord(3)
	if err != nil || !bytes.Equal(got3, []byte("barfoo")) {
		t.Fatalf("GetRecord(3) = %q, %v, want barfoo", got3, err)
	}
	if s.TotalDataSize() != 21 {
		t.Fatalf("TotalDataSize = %d, want 21", s.TotalDataSize())
	}

	lo, _ := s.offsets.Get2(2)
	s.data[lo] ^= 0xFF
	if _, err := s.GetRecord(2); err == nil {
		t.Fatal("expected BadChecksumError after corrupting record 2")
	}
}

// TestReorderIdentityPreservesPayload checks that extracting records
// through the identity permutation reproduces every payload unchanged,
// for both a plain and a dictionary-compressed store.
func TestReorderIdentityPreservesPayload(t *testing.T) {
	recs := [][]byte{[]byte("one"), []byte("two"), []byte("three"), []byte("four")}

	plain := buildPlain(t, ChecksumNone, recs)
	out, err := ExtractReordered(plain, IdentityReorderMap(plain.NumRecords()))
	if err != nil {
		t.Fatalf("ExtractReordered(plain): %v", err)
	}
	for i, want := range recs {
		if !bytes.Equal(out[i], want) {
			t.Fatalf("plain reorder[%d] = %q, want %q", i, out[i], want)
		}
	}

	db := NewDictZipBuilder(1.0, 0, ChecksumNone)
	for _, r := range recs {
		db.AddRecord(r)
	}
	dz := db.Finish()
	out2, err := ExtractReordered(dz, IdentityReorderMap(dz.NumRecords()))
	if err != nil {
		t.Fatalf("ExtractReordered(dictzip): %v", err)
	}
	for i, want := range recs {
		if !bytes.Equal(out2[i], want) {
			t.Fatalf("dictzip reorder[%d] = %q, want %q", i, out2[i], want)
		}
	}
}

func TestNestLoudsTrieStoreRoundTrip(t *testing.T) {
	recs := [][]byte{[]byte("apple"), []byte("app"), []byte("application"), []byte("banana")}
	s, err := BuildNestLoudsTrieStore(recs, nlt.DefaultConfig())
	if err != nil {
		t.Fatalf("BuildNestLoudsTrieStore: %v", err)
	}
	if s.NumRecords() != len(recs) {
		t.Fatalf("NumRecords = %d, want %d", s.NumRecords(), len(recs))
	}
	for _, rec := range recs {
		id := s.Lookup(rec)
		if id < 0 {
			t.Fatalf("Lookup(%q) not found", rec)
		}
		got, err := s.GetRecord(id)
		if err != nil {
			t.Fatalf("GetRecord(%d): %v", id, err)
		}
		if !bytes.Equal(got, rec) {
			t.Fatalf("GetRecord(%d) = %q, want %q", id, got, rec)
		}
	}
}
