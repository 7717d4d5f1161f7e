// Command zbs_build reads newline-delimited records from a text file and
// writes a PlainBlobStore artifact. A thin flag-based CLI, not part of
// the library surface proper.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/terark-zip-sub003/blob"
)

func main() {
	var (
		inPath   = flag.String("in", "", "input file, one record per line (required)")
		outPath  = flag.String("out", "", "output blob store path (required)")
		variant  = flag.String("variant", "plain", "store variant: plain")
		chkLevel = flag.Int("checksum", int(blob.ChecksumPerRecord), "checksum level: 0=none 1=header 2=per-record 3=whole-data")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fail(1, "usage: zbs_build -in <records.txt> -out <store.zbs> [-variant plain] [-checksum 0-3]")
	}
	if *variant != "plain" {
		fail(1, "unsupported variant %q: only \"plain\" is implemented", *variant)
	}

	records, err := readLines(*inPath)
	if err != nil {
		fail(3, "reading %s: %v", *inPath, err)
	}

	b := blob.NewPlainBuilder(blob.ChecksumLevel(*chkLevel))
	for _, rec := range records {
		b.AddRecord(rec)
	}
	store := b.Finish()

	if err := os.WriteFile(*outPath, store.Marshal(), 0o644); err != nil {
		fail(3, "writing %s: %v", *outPath, err)
	}
	fmt.Printf("wrote %d records (%d bytes payload) to %s\n", store.NumRecords(), store.TotalDataSize(), *outPath)
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
