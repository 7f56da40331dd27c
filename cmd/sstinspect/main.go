package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dreamvrutik/vrootkv/pkg/fileio"
	"github.com/dreamvrutik/vrootkv/pkg/sstable"
)

var (
	path    = flag.String("file", "", "path to an .sstable file to inspect")
	lookup  = flag.String("get", "", "look up a single key instead of dumping the whole table")
	dumpAll = flag.Bool("dump", false, "print every key/value pair in the table")
)

func main() {
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "sstinspect: -file is required")
		os.Exit(1)
	}

	files := fileio.NewOSFileManager()
	r, err := sstable.Open(files, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sstinspect: open %s: %v\n", *path, err)
		os.Exit(1)
	}

	ft := r.Footer()
	fmt.Printf("file: %s\n", *path)
	fmt.Printf("data blocks: %d\n", r.NumDataBlocks())
	fmt.Printf("filter handle: offset=%d size=%d\n", ft.FilterHandle.Offset, ft.FilterHandle.Size)
	fmt.Printf("index handle:  offset=%d size=%d\n", ft.IndexHandle.Offset, ft.IndexHandle.Size)

	if *lookup != "" {
		v, err := r.Get([]byte(*lookup))
		if err != nil {
			fmt.Printf("get %q: %v\n", *lookup, err)
			os.Exit(1)
		}
		fmt.Printf("get %q = %q\n", *lookup, v)
		return
	}

	if *dumpAll {
		it := r.NewIterator()
		count := 0
		for it.SeekToFirst(); it.Valid(); it.Next() {
			fmt.Printf("%q => %q\n", it.Key(), it.Value())
			count++
		}
		if it.Err() != nil {
			fmt.Fprintf(os.Stderr, "sstinspect: iteration error: %v\n", it.Err())
			os.Exit(1)
		}
		fmt.Printf("%d entries\n", count)
	}
}
