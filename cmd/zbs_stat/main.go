// Command zbs_stat prints a memory usage report for a PlainBlobStore
// artifact, using the memreport package's humanized tree rendering.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/terark-zip-sub003/blob"
	"github.com/bytedance/terark-zip-sub003/memreport"
)

func main() {
	var (
		inPath = flag.String("in", "", "input blob store path (required)")
		asJSON = flag.Bool("json", false, "emit the report as JSON instead of a text tree")
	)
	flag.Parse()

	if *inPath == "" {
		fail(1, "usage: zbs_stat -in <store.zbs> [-json]")
	}

	buf, err := os.ReadFile(*inPath)
	if err != nil {
		fail(3, "reading %s: %v", *inPath, err)
	}

	store, err := blob.UnmarshalPlainStore(buf)
	if err != nil {
		fail(3, "unmarshaling %s: %v", *inPath, err)
	}

	report := memreport.New("PlainBlobStore", store.MemSize()).WithChildren(
		memreport.New("data", store.TotalDataSize()),
		memreport.New("offsets+checksums", store.MemSize()-store.TotalDataSize()),
	)

	if *asJSON {
		fmt.Println(report.JSON())
		return
	}
	fmt.Printf("records: %d\n", store.NumRecords())
	report.Print(0)
}

func fail(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
