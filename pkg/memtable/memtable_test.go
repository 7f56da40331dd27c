package memtable

import "testing"

func TestMemTablePutGetDelete(t *testing.T) {
	m := New()
	m.Put([]byte("a"), []byte("1"))

	v, present, deleted := m.Get([]byte("a"))
	if !present || deleted || string(v) != "1" {
		t.Fatalf("got value=%q present=%v deleted=%v", v, present, deleted)
	}

	m.Delete([]byte("a"))
	v, present, deleted = m.Get([]byte("a"))
	if !present || !deleted || v != nil {
		t.Fatalf("after delete got value=%q present=%v deleted=%v", v, present, deleted)
	}
	if !m.IsDeleted([]byte("a")) {
		t.Fatalf("expected tombstone for deleted key")
	}

	_, present, _ = m.Get([]byte("never-seen"))
	if present {
		t.Fatalf("absent key should report present=false")
	}
}

func TestMemTableReinsertAfterDeleteClearsTombstone(t *testing.T) {
	m := New()
	m.Put([]byte("a"), []byte("1"))
	m.Delete([]byte("a"))
	m.Put([]byte("a"), []byte("2"))

	v, present, deleted := m.Get([]byte("a"))
	if !present || deleted || string(v) != "2" {
		t.Fatalf("got value=%q present=%v deleted=%v", v, present, deleted)
	}
}

func TestMemTableImmutableRejectsWrites(t *testing.T) {
	m := New()
	m.Put([]byte("a"), []byte("1"))
	m.SetImmutable()
	if !m.IsImmutable() {
		t.Fatalf("expected immutable")
	}

	m.Put([]byte("b"), []byte("2"))
	m.Delete([]byte("a"))

	if m.Contains([]byte("b")) {
		t.Fatalf("put on immutable table must be rejected")
	}
	v, _, deleted := m.Get([]byte("a"))
	if deleted || string(v) != "1" {
		t.Fatalf("delete on immutable table must be rejected, got value=%q deleted=%v", v, deleted)
	}
}

func TestMemTableIteratorOrdersKeysAndExposesTombstones(t *testing.T) {
	m := New()
	m.Put([]byte("b"), []byte("2"))
	m.Put([]byte("a"), []byte("1"))
	m.Put([]byte("c"), []byte("3"))
	m.Delete([]byte("b"))

	it := m.NewIterator()
	var order []string
	for ; it.Valid(); it.Next() {
		order = append(order, string(it.Key()))
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
	if !m.IsDeleted([]byte("b")) {
		t.Fatalf("expected b to remain a visible tombstone in iteration")
	}
}

func TestMemTableApplyWALEntry(t *testing.T) {
	m := New()
	if err := m.ApplyWALEntry([]byte("k"), []byte("v"), false); err != nil {
		t.Fatalf("apply put: %v", err)
	}
	if err := m.ApplyWALEntry([]byte("k2"), nil, true); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	v, present, deleted := m.Get([]byte("k"))
	if !present || deleted || string(v) != "v" {
		t.Fatalf("unexpected state for k: value=%q present=%v deleted=%v", v, present, deleted)
	}
	_, present, deleted = m.Get([]byte("k2"))
	if !present || !deleted {
		t.Fatalf("expected k2 tombstoned, present=%v deleted=%v", present, deleted)
	}
}
