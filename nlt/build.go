package nlt

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/bytedance/terark-zip-sub003/errutil"
	"github.com/bytedance/terark-zip-sub003/rankselect"
	"github.com/bytedance/terark-zip-sub003/strvec"
)

// buildNode is the mutable radix-tree representation used only during
// construction; it never survives into the frozen Trie.
type buildNode struct {
	children map[byte]*buildNode
	edge     []byte // full edge bytes from the parent, edge[0] is the inline label
	terminal bool
	id       int
}

func newBuildNode() *buildNode {
	return &buildNode{children: make(map[byte]*buildNode)}
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// insert adds key to the radix tree rooted at root. Keys may be inserted in
// any order; duplicates are idempotent.
func insert(root *buildNode, key []byte) {
	if len(key) == 0 {
		root.terminal = true
		return
	}
	node := root
	i := 0
	for {
		ch := key[i]
		child, ok := node.children[ch]
		if !ok {
			node.children[ch] = &buildNode{children: make(map[byte]*buildNode), edge: append([]byte(nil), key[i:]...), terminal: true}
			return
		}
		lcp := commonPrefixLen(child.edge, key[i:])
		if lcp == len(child.edge) {
			i += lcp
			if i == len(key) {
				child.terminal = true
				return
			}
			node = child
			continue
		}
		// Split child's edge at lcp: insert an intermediate node.
		mid := &buildNode{children: make(map[byte]*buildNode), edge: append([]byte(nil), child.edge[:lcp]...)}
		mid.children[child.edge[lcp]] = child
		child.edge = append([]byte(nil), child.edge[lcp:]...)
		node.children[ch] = mid
		i += lcp
		if i == len(key) {
			mid.terminal = true
			return
		}
		mid.children[key[i]] = &buildNode{children: make(map[byte]*buildNode), edge: append([]byte(nil), key[i:]...), terminal: true}
		return
	}
}

func sortedChildKeys(n *buildNode) []byte {
	keys := make([]byte, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// flattenBFS assigns BFS (level-order) ids starting at 0 for root, matching
// the numbering the LOUDS formulas in nlt.go assume.
func flattenBFS(root *buildNode) []*buildNode {
	root.id = 0
	order := []*buildNode{root}
	queue := []*buildNode{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ch := range sortedChildKeys(cur) {
			child := cur.children[ch]
			child.id = len(order)
			order = append(order, child)
			queue = append(queue, child)
		}
	}
	return order
}

// Build constructs a Trie from an arbitrary (not necessarily sorted) set of
// keys. Keys are copied; duplicates are collapsed.
func Build(keys [][]byte, cfg Config) (*Trie, error) {
	if !cfg.IsInputSorted {
		sorted := make([][]byte, len(keys))
		copy(sorted, keys)
		sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
		keys = sorted
	}
	for i := 1; i < len(keys); i++ {
		if bytes.Compare(keys[i-1], keys[i]) > 0 {
			return nil, fmt.Errorf("nlt: keys not sorted at index %d", i)
		}
	}
	return buildTrie(keys, cfg), nil
}

// BuildFromStrVec is a convenience wrapper accepting the StrVec family's
// pool representation, building a nesting trie "from a SortableStrVec"
// build-pipeline entry point.
func BuildFromStrVec(v *strvec.StrVec, cfg Config) (*Trie, error) {
	keys := make([][]byte, v.Size())
	for i := range keys {
		keys[i] = append([]byte(nil), v.NthData(i)...)
	}
	return Build(keys, cfg)
}

// buildTrie is the internal, sorted-input entry point reused recursively
// when nesting the edge-label pool.
func buildTrie(sortedKeys [][]byte, cfg Config) *Trie {
	root := newBuildNode()
	for _, k := range sortedKeys {
		insert(root, k)
	}
	order := flattenBFS(root)
	n := len(order)

	loudsB := rankselect.NewBuilder(2*n + 2)
	loudsB.PushBack(true)
	loudsB.PushBack(false) // super-root marker, so select0(s)/one_seq_len formulas line up
	termB := rankselect.NewBuilder(n)

	labelData := make([]byte, n)
	parent := make([]int32, n)
	isLink := make([]bool, n)
	var fragments [][]byte
	linkFragIdx := make([]int, n) // index into fragments, -1 if not a link
	for i := range linkFragIdx {
		linkFragIdx[i] = -1
	}
	bitmap := make(map[int][4]uint64)

	for _, node := range order {
		termB.PushBack(node.terminal)
		childKeys := sortedChildKeys(node)
		for range childKeys {
			loudsB.PushBack(true)
		}
		loudsB.PushBack(false)

		if len(childKeys) >= bitmapThreshold && cfg.UseFastLabel {
			var bm [4]uint64
			for _, ch := range childKeys {
				bm[ch/64] |= uint64(1) << uint(ch%64)
			}
			bitmap[node.id] = bm
		}
		for _, ch := range childKeys {
			child := node.children[ch]
			parent[child.id] = int32(node.id)
			labelData[child.id] = child.edge[0]
			if len(child.edge) > 1 {
				isLink[child.id] = true
				linkFragIdx[child.id] = len(fragments)
				fragments = append(fragments, child.edge[1:])
			}
		}
	}

	louds := rankselect.NewDense(loudsB, rankselect.DefaultConfig)
	isTerminal := rankselect.NewDense(termB, rankselect.DefaultConfig)

	t := &Trie{
		cfg:        cfg,
		louds:      louds,
		isTerminal: isTerminal,
		labelData:  labelData,
		parent:     parent,
		isLink:     isLink,
		bitmap:     bitmap,
	}

	attachFragments(t, fragments, linkFragIdx, cfg)
	attachDawg(t, root, n)
	return t
}

// attachFragments decides, under the nesting-stop rule, whether to
// fold this level's zpath fragments into a recursively built child trie
// (deduplicated, sorted) or to keep them as a flat byte pool.
func attachFragments(t *Trie, fragments [][]byte, fragIdx []int, cfg Config) {
	n := len(t.labelData)
	t.linkLen = make([]int32, n)
	t.linkOff = make([]int32, n)

	if len(fragments) == 0 {
		return
	}

	poolCur := 0
	for _, f := range fragments {
		poolCur += len(f)
	}

	distinct := dedupSorted(fragments)
	poolNext := 0
	for _, f := range distinct {
		poolNext += len(f)
	}

	if cfg.NestLevel > 0 && len(distinct) > 0 && poolNext*cfg.NestScale <= poolCur {
		childCfg := cfg
		childCfg.NestLevel--
		childCfg.IsInputSorted = true
		t.nested = buildTrie(distinct, childCfg)
		for s := 0; s < n; s++ {
			if !t.isLink[s] {
				continue
			}
			frag := fragments[fragIdx[s]]
			id := t.nested.Index(frag)
			errutil.BugOn(id < 0, "nested fragment not found after dedup")
			t.linkOff[s] = int32(id)
		}
		return
	}

	// Flat pool: concatenate fragments in state-id order (monotonically
	// increasing, so offsets need no separate sorted index).
	for s := 0; s < n; s++ {
		if !t.isLink[s] {
			continue
		}
		frag := fragments[fragIdx[s]]
		t.linkOff[s] = int32(len(t.corePool))
		t.linkLen[s] = int32(len(frag))
		t.corePool = append(t.corePool, frag...)
	}
}

func dedupSorted(fragments [][]byte) [][]byte {
	cp := make([][]byte, len(fragments))
	copy(cp, fragments)
	sort.Slice(cp, func(i, j int) bool { return bytes.Compare(cp[i], cp[j]) < 0 })
	out := cp[:0]
	for i, f := range cp {
		if i == 0 || !bytes.Equal(f, cp[i-1]) {
			out = append(out, f)
		}
	}
	return out
}

// attachDawg performs the single lexicographic DFS (sorted children at
// every node, by construction) that assigns dictionary ranks to terminal
// states, and derives the state-order -> rank table needed for Index().
func attachDawg(t *Trie, root *buildNode, n int) {
	var invDawg []int32
	var dfs func(node *buildNode)
	dfs = func(node *buildNode) {
		if node.terminal {
			invDawg = append(invDawg, int32(node.id))
		}
		for _, ch := range sortedChildKeys(node) {
			dfs(node.children[ch])
		}
	}
	dfs(root)

	t.invDawg = invDawg
	t.numWords = len(invDawg)
	t.dawgID = make([]uint32, len(invDawg))
	for wordID, state := range invDawg {
		rank := t.isTerminal.Rank1(int(state))
		t.dawgID[rank] = uint32(wordID)
	}
}
