// Command zbs_unzip reads a PlainBlobStore artifact and writes its
// records back out one per line, the inverse of zbs_build.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/terark-zip-sub003/blob"
)

func main() {
	var (
		inPath  = flag.String("in", "", "input blob store path (required)")
		outPath = flag.String("out", "", "output text file, one record per line (required)")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fail(1, "usage: zbs_unzip -in <store.zbs> -out <records.txt>")
	}

	buf, err := os.ReadFile(*inPath)
	if err != nil {
		fail(3, "reading %s: %v", *inPath, err)
	}

	store, err := blob.UnmarshalPlainStore(buf)
	if err != nil {
		fail(3, "unmarshaling %s: %v", *inPath, err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fail(3, "creating %s: %v", *outPath, err)
	}
	defer out.Close()

	for i := 0; i < store.NumRecords(); i++ {
		rec, err := store.GetRecord(i)
		if err != nil {
			fail(3, "reading record %d: %v", i, err)
		}
		if _, err := out.Write(rec); err != nil {
			fail(3, "writing record %d: %v", i, err)
		}
		if _, err := out.Write([]byte("\n")); err != nil {
			fail(3, "writing record %d: %v", i, err)
		}
	}
	fmt.Printf("wrote %d records to %s\n", store.NumRecords(), *outPath)
}

func fail(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
