// Package blob implements the BlobStore family: record-indexed,
// optionally-compressed byte-blob containers with O(1) random access.
// Every on-disk artifact shares the 128-byte header and checksum
// discipline defined here; PlainBlobStore, MixedLenBlobStore,
// ZipOffsetBlobStore, EntropyZipBlobStore, DictZipBlobStore and
// NestLoudsTrieBlobStore layer their own payload format on top of it.
//
// The header's own trailing CRC, and any per-record or whole-data
// checksums a store opts into, all run through the same algorithm
// selected by ChecksumType. CRC32C uses hash/crc32's Castagnoli table
// directly. CRC16C has no standard-library or third-party equivalent
// available, so crc16cOf hand-rolls a table-driven reflected CRC-16
// (CRC-16/MCRF4XX) computation in the same style hash/crc32 uses for CRC32C.
package blob

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
)

// HeaderSize is the fixed size, in bytes, of every BlobStore header.
const HeaderSize = 128

// Magic is the leading 16-byte tag common to every variant.
const Magic = "TerarkBlobStore\x00"

// ChecksumType selects the CRC algorithm used for the header and, if
// enabled, per-record or whole-data checksums.
type ChecksumType uint8

const (
	ChecksumCRC32C ChecksumType = 0
	ChecksumCRC16C ChecksumType = 1
)

// ChecksumLevel controls how much of a store is checksummed.
type ChecksumLevel uint8

const (
	ChecksumNone       ChecksumLevel = 0 // no checksums at all
	ChecksumHeaderOnly ChecksumLevel = 1 // header CRC only
	ChecksumPerRecord  ChecksumLevel = 2 // header CRC + 4-byte trailer per record
	ChecksumWholeData  ChecksumLevel = 3 // header CRC + one CRC over the whole data region
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// crc16cTable is the byte-indexed lookup table for the reflected CRC-16
// with polynomial 0x1021 (reflected form 0x8408), built once at init.
var crc16cTable = func() [256]uint16 {
	var t [256]uint16
	for i := 0; i < 256; i++ {
		crc := uint16(i)
		for b := 0; b < 8; b++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0x8408
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}()

// crc16cOf returns the CRC-16/MCRF4XX checksum of b: reflected polynomial
// 0x8408, initial value 0xFFFF, no final XOR.
func crc16cOf(b []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, c := range b {
		crc = (crc >> 8) ^ crc16cTable[byte(crc)^c]
	}
	return crc
}

// crcOf returns the CRC32C of b. checksumOf uses it for ChecksumCRC32C
// and for any ChecksumType value it does not recognise.
func crcOf(b []byte) uint32 { return crc32.Checksum(b, crc32cTable) }

// checksumOf computes the checksum of b under the algorithm t selects.
// CRC16C values are zero-extended into the same uint32 field width as
// CRC32C so every store can share one on-disk trailer format regardless
// of which algorithm produced it.
func checksumOf(t ChecksumType, b []byte) uint32 {
	switch t {
	case ChecksumCRC16C:
		return uint32(crc16cOf(b))
	default:
		return crcOf(b)
	}
}

// Header is the common 128-byte preamble every variant's Marshal/Unmarshal
// pair reads and writes.
type Header struct {
	ClassName   string
	Version     uint32
	NumRecords  uint64
	ContentSize uint64
	OffsetSize  uint64
	UnzipSize   uint64
	ChkType     ChecksumType
	ChkLevel    ChecksumLevel
	Flags       uint16
	DictOffset  uint64
	DictSize    uint64
	// DataCRC holds the single whole-data-region checksum when ChkLevel is
	// ChecksumWholeData; zero and unused at every other level.
	DataCRC uint32
}

// Marshal encodes h into a fresh 128-byte buffer with a correct trailing
// checksum (under ChkType) over bytes [0:124).
func (h *Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:16], Magic)
	binary.LittleEndian.PutUint32(buf[16:20], h.Version)
	copy(buf[20:52], h.ClassName)
	binary.LittleEndian.PutUint64(buf[52:60], h.NumRecords)
	binary.LittleEndian.PutUint64(buf[60:68], h.ContentSize)
	binary.LittleEndian.PutUint64(buf[68:76], h.OffsetSize)
	binary.LittleEndian.PutUint64(buf[76:84], h.UnzipSize)
	buf[84] = byte(h.ChkType)
	buf[85] = byte(h.ChkLevel)
	binary.LittleEndian.PutUint16(buf[86:88], h.Flags)
	binary.LittleEndian.PutUint64(buf[88:96], h.DictOffset)
	binary.LittleEndian.PutUint64(buf[96:104], h.DictSize)
	binary.LittleEndian.PutUint32(buf[104:108], h.DataCRC)
	// buf[108:124] stays reserved/zero.
	binary.LittleEndian.PutUint32(buf[124:128], checksumOf(h.ChkType, buf[:124]))
	return buf
}

// UnmarshalHeader parses and checksum-validates a 128-byte header.
func UnmarshalHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("blob: short header (%d bytes)", len(buf))
	}
	if string(buf[0:16]) != Magic {
		return nil, fmt.Errorf("blob: bad magic %q", buf[0:16])
	}
	chkType := ChecksumType(buf[84])
	wantCRC := binary.LittleEndian.Uint32(buf[124:128])
	gotCRC := checksumOf(chkType, buf[:124])
	if wantCRC != gotCRC {
		return nil, &BadChecksumError{Kind: "header", RecordIndex: -1, Stored: wantCRC, Computed: gotCRC}
	}
	h := &Header{
		Version:     binary.LittleEndian.Uint32(buf[16:20]),
		ClassName:   strings.TrimRight(string(buf[20:52]), "\x00"),
		NumRecords:  binary.LittleEndian.Uint64(buf[52:60]),
		ContentSize: binary.LittleEndian.Uint64(buf[60:68]),
		OffsetSize:  binary.LittleEndian.Uint64(buf[68:76]),
		UnzipSize:   binary.LittleEndian.Uint64(buf[76:84]),
		ChkType:     ChecksumType(buf[84]),
		ChkLevel:    ChecksumLevel(buf[85]),
		Flags:       binary.LittleEndian.Uint16(buf[86:88]),
		DictOffset:  binary.LittleEndian.Uint64(buf[88:96]),
		DictSize:    binary.LittleEndian.Uint64(buf[96:104]),
		DataCRC:     binary.LittleEndian.Uint32(buf[104:108]),
	}
	return h, nil
}
