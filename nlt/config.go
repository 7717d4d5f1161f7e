// Package nlt implements NestLoudsTrie: a LOUDS-encoded succinct trie over
// a sorted string set with path compression (zpath) and recursive nesting
// of its own edge-label pool into a smaller child trie. It supports point
// lookup, ordered iteration, prefix seeks, and a dictionary-rank ↔ key
// bijection (the "DAWG" surface).
//
// The MPH-free recipe of building an explicit intermediate structure,
// flattening it against a rankselect.Dense bitvector, and bit-packing auxiliary
// integer arrays follows the same shape used elsewhere in this module for
// succinct handle indexing, adapted here to LOUDS child-range navigation.
// The LOUDS navigation formulas (child0 = select0(s) - s, k =
// one_seq_len(bp+1)) and the 256-bit child-label bitmap for wide fan-out
// nodes follow the classic LOUDS layout.
package nlt

// Config holds the knobs a build exposes for nesting depth, fragment
// sizing, and label layout.
type Config struct {
	// NestLevel bounds recursion depth when nesting the edge-label pool
	// into a child trie. 0 disables nesting entirely.
	NestLevel int
	// MinFragLen and MaxFragLen are carried in the configuration but the
	// builder does not read them: fragments of every length are treated
	// alike when deciding whether to nest.
	MinFragLen int
	MaxFragLen int
	// MinLinkStrLen is carried in the configuration but the builder does
	// not read it: every edge longer than one byte is stored as a link
	// (label byte plus zpath), however short its zpath is.
	MinLinkStrLen int
	// NestScale gates whether nesting is worthwhile: nesting stops once
	// the deduplicated fragment pool size times NestScale still exceeds
	// the size of the pool it would replace.
	NestScale int
	// UseFastLabel enables the 256-bit child-label bitmap for nodes with
	// wide fan-out (>= bitmapThreshold children), trading a little space
	// for O(1) popcount-rank dispatch instead of a binary search.
	UseFastLabel bool
	// UseMixedCoreLink allows a single node's children to mix inline
	// single-byte edges and linked (zpath) edges; when false, a node with
	// any linked child stores zpath data uniformly. This implementation
	// always allows mixing (it is the natural representation), so the
	// field is retained for configuration-surface parity and is
	// otherwise unused.
	UseMixedCoreLink bool
	// IsInputSorted, when true, skips the initial sort-and-dedup pass.
	IsInputSorted bool
}

// DefaultConfig returns the configuration used when callers do not
// override anything: nestLevel=3, nestScale=5 for general-purpose key sets.
func DefaultConfig() Config {
	return Config{
		NestLevel:        3,
		MinFragLen:       4,
		MaxFragLen:       256,
		MinLinkStrLen:    2,
		NestScale:        5,
		UseFastLabel:     true,
		UseMixedCoreLink: true,
	}
}

// bitmapThreshold is the fan-out at which a node's children switch from an
// inline label_data run to a 256-bit presence bitmap.
const bitmapThreshold = 36
