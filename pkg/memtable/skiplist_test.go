package memtable

import (
	"fmt"
	"testing"
)

func TestSkipListInsertGetOrder(t *testing.T) {
	s := NewSkipList()
	keys := []string{"delta", "alpha", "charlie", "bravo"}
	for _, k := range keys {
		if !s.Insert([]byte(k), []byte("v-"+k)) {
			t.Fatalf("expected fresh insert for %q", k)
		}
	}
	if s.Len() != len(keys) {
		t.Fatalf("len = %d, want %d", s.Len(), len(keys))
	}

	it := s.Begin()
	want := []string{"alpha", "bravo", "charlie", "delta"}
	for _, w := range want {
		if !it.Valid() {
			t.Fatalf("iterator ended early, expected %q", w)
		}
		if string(it.Key()) != w {
			t.Fatalf("got key %q, want %q", it.Key(), w)
		}
		it.Next()
	}
	if it.Valid() {
		t.Fatalf("expected iterator exhausted")
	}
}

func TestSkipListInsertRejectsDuplicate(t *testing.T) {
	s := NewSkipList()
	if !s.Insert([]byte("k"), []byte("1")) {
		t.Fatalf("first insert should succeed")
	}
	if s.Insert([]byte("k"), []byte("2")) {
		t.Fatalf("duplicate insert should fail")
	}
	v, ok := s.Get([]byte("k"))
	if !ok || string(v) != "1" {
		t.Fatalf("duplicate insert must not overwrite, got %q", v)
	}
}

func TestSkipListPutOverwrites(t *testing.T) {
	s := NewSkipList()
	if !s.Put([]byte("k"), []byte("1")) {
		t.Fatalf("first put should report new insertion")
	}
	if s.Put([]byte("k"), []byte("2")) {
		t.Fatalf("second put should report overwrite, not new insertion")
	}
	v, ok := s.Get([]byte("k"))
	if !ok || string(v) != "2" {
		t.Fatalf("expected overwritten value, got %q", v)
	}
	if s.Len() != 1 {
		t.Fatalf("overwrite must not grow the list, len = %d", s.Len())
	}
}

func TestSkipListEraseShrinksLevel(t *testing.T) {
	s := NewSkipListWithParams(4, 1, 2)
	for i := 0; i < 50; i++ {
		s.Insert([]byte(fmt.Sprintf("key-%03d", i)), []byte("v"))
	}
	for i := 0; i < 50; i++ {
		if !s.Erase([]byte(fmt.Sprintf("key-%03d", i))) {
			t.Fatalf("erase %d should succeed", i)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty list, len = %d", s.Len())
	}
	if s.level != 1 {
		t.Fatalf("expected level to shrink back to 1, got %d", s.level)
	}
	if s.Erase([]byte("key-000")) {
		t.Fatalf("erase of absent key should report false")
	}
}

func TestSkipListSeek(t *testing.T) {
	s := NewSkipList()
	for _, k := range []string{"a", "c", "e", "g"} {
		s.Insert([]byte(k), []byte(k))
	}
	it := s.Seek([]byte("d"))
	if !it.Valid() || string(it.Key()) != "e" {
		t.Fatalf("seek(d) should land on e, got valid=%v key=%q", it.Valid(), it.Key())
	}
	it = s.Seek([]byte("z"))
	if it.Valid() {
		t.Fatalf("seek past the end should be invalid")
	}
}

func TestSkipListApproximateSizeTracksPutDelta(t *testing.T) {
	s := NewSkipList()
	s.Put([]byte("k"), []byte("short"))
	sizeShort := s.ApproximateSize()
	s.Put([]byte("k"), []byte("a much longer value"))
	sizeLong := s.ApproximateSize()
	if sizeLong <= sizeShort {
		t.Fatalf("expected size to grow on overwrite with longer value: %d -> %d", sizeShort, sizeLong)
	}
}

func TestSkipListClear(t *testing.T) {
	s := NewSkipList()
	s.Insert([]byte("a"), []byte("1"))
	s.Insert([]byte("b"), []byte("2"))
	s.Clear()
	if s.Len() != 0 || s.ApproximateSize() != 0 {
		t.Fatalf("expected empty list after Clear")
	}
	if s.Begin().Valid() {
		t.Fatalf("expected no entries after Clear")
	}
}
