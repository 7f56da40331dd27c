package sstable

import (
	"testing"

	"github.com/dreamvrutik/vrootkv/pkg/fileio"
)

func TestIteratorAdapterSeekAndTombstone(t *testing.T) {
	files := fileio.NewMemFileManager()
	path := "/data/table-adapter.sstable"
	buildTable(t, files, path, [][2]string{
		{"a", "1"}, {"b", ""}, {"c", "3"},
	}, WithBlockSize(1))

	r, err := Open(files, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a := NewIteratorAdapter(r.NewIterator())
	if !a.Seek([]byte("b")) {
		t.Fatalf("expected seek to find b")
	}
	if !a.IsTombstone() {
		t.Fatalf("expected b to be a tombstone (empty value)")
	}
	if !a.Next() || string(a.Key()) != "c" {
		t.Fatalf("expected next entry c, got %q valid=%v", a.Key(), a.Valid())
	}
}
