// Command nlt_build builds a NestLoudsTrie from a sorted or unsorted
// newline-delimited key file and reports its size, exercising the same
// build path blob.BuildNestLoudsTrieStore uses.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/terark-zip-sub003/blob"
	"github.com/bytedance/terark-zip-sub003/memreport"
	"github.com/bytedance/terark-zip-sub003/nlt"
)

func main() {
	var (
		inPath  = flag.String("in", "", "input key file, one key per line (required)")
		sorted  = flag.Bool("sorted", false, "input is already sorted and deduplicated")
		nestLvl = flag.Int("nest-level", nlt.DefaultConfig().NestLevel, "maximum nesting depth")
		nestScl = flag.Int("nest-scale", nlt.DefaultConfig().NestScale, "nesting gate scale factor")
	)
	flag.Parse()

	if *inPath == "" {
		fail(1, "usage: nlt_build -in <keys.txt> [-sorted] [-nest-level N] [-nest-scale N]")
	}

	keys, err := readLines(*inPath)
	if err != nil {
		fail(3, "reading %s: %v", *inPath, err)
	}

	cfg := nlt.DefaultConfig()
	cfg.IsInputSorted = *sorted
	cfg.NestLevel = *nestLvl
	cfg.NestScale = *nestScl

	store, err := blob.BuildNestLoudsTrieStore(keys, cfg)
	if err != nil {
		fail(3, "building trie: %v", err)
	}

	report := memreport.New("NestLoudsTrieBlobStore", store.MemSize())
	fmt.Printf("words: %d\n", store.NumRecords())
	report.Print(0)
}

func readLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out [][]byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := append([]byte(nil), sc.Bytes()...)
		out = append(out, line)
	}
	return out, sc.Err()
}

func fail(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
