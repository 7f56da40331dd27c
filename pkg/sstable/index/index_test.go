package index

import (
	"testing"

	"github.com/dreamvrutik/vrootkv/pkg/sstable/footer"
)

func buildIndex(t *testing.T, entries []struct {
	divider string
	handle  footer.BlockHandle
}) *Reader {
	t.Helper()
	b := NewBuilder()
	for _, e := range entries {
		if err := b.Add([]byte(e.divider), e.handle); err != nil {
			t.Fatalf("add %q: %v", e.divider, err)
		}
	}
	r, err := NewReader(b.Finish())
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	return r
}

func TestIndexFindRoutesToRightmostDividerLE(t *testing.T) {
	h1 := footer.BlockHandle{Offset: 0, Size: 100}
	h2 := footer.BlockHandle{Offset: 100, Size: 100}
	h3 := footer.BlockHandle{Offset: 200, Size: 100}

	r := buildIndex(t, []struct {
		divider string
		handle  footer.BlockHandle
	}{
		{"apple", h1}, {"banana", h2}, {"carrot", h3},
	})

	cases := []struct {
		key  string
		want footer.BlockHandle
		ok   bool
	}{
		{"aardvark", footer.BlockHandle{}, false},
		{"apple", h1, true},
		{"apricot", h1, true},
		{"banana", h2, true},
		{"blueberry", h2, true},
		{"carrot", h3, true},
		{"zzz", h3, true},
	}
	for _, c := range cases {
		got, ok := r.Find([]byte(c.key))
		if ok != c.ok {
			t.Fatalf("Find(%q) ok = %v, want %v", c.key, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("Find(%q) = %+v, want %+v", c.key, got, c.want)
		}
	}
}

func TestIndexAddRejectsNonIncreasingDividers(t *testing.T) {
	b := NewBuilder()
	if err := b.Add([]byte("b"), footer.BlockHandle{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add([]byte("a"), footer.BlockHandle{}); err != ErrNotSorted {
		t.Fatalf("got %v, want ErrNotSorted", err)
	}
}

func TestIndexReaderRejectsTruncatedTrailer(t *testing.T) {
	b := NewBuilder()
	_ = b.Add([]byte("a"), footer.BlockHandle{Offset: 1, Size: 2})
	data := b.Finish()
	_, err := NewReader(data[:len(data)-2])
	if err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestIndexEmptyReaderFindIsFalse(t *testing.T) {
	b := NewBuilder()
	r, err := NewReader(b.Finish())
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if _, ok := r.Find([]byte("anything")); ok {
		t.Fatalf("expected no match on empty index")
	}
}
