package block

import (
	"bytes"
	"testing"
)

func buildBlock(t *testing.T, restartInterval int, kvs [][2]string) *Reader {
	t.Helper()
	b := NewBuilderWithRestartInterval(restartInterval)
	for _, kv := range kvs {
		if err := b.Add([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("add %q: %v", kv[0], err)
		}
	}
	r, err := NewReader(b.Finish())
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	return r
}

func TestBlockGetRestartsTwo(t *testing.T) {
	kvs := [][2]string{
		{"apple", "A"}, {"apples", "AA"}, {"apply", "AAA"},
		{"banana", "B"}, {"carrot", "C"}, {"carrots", "CC"},
	}
	r := buildBlock(t, 2, kvs)

	cases := []struct {
		key   string
		want  string
		found bool
	}{
		{"apple", "A", true},
		{"carrots", "CC", true},
		{"appl", "", false},
		{"blueberry", "", false},
		{"zzz", "", false},
	}
	for _, c := range cases {
		v, err := r.Get([]byte(c.key))
		if c.found {
			if err != nil || string(v) != c.want {
				t.Fatalf("Get(%q) = %q, %v; want %q", c.key, v, err, c.want)
			}
		} else if err != ErrNotFound {
			t.Fatalf("Get(%q) = %q, %v; want ErrNotFound", c.key, v, err)
		}
	}
}

func TestBlockIteratorYieldsAllInOrder(t *testing.T) {
	kvs := [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}}
	r := buildBlock(t, 2, kvs)

	it := r.Iterator()
	var got [][2]string
	for it.SeekToFirst(); it.Valid(); it.Next() {
		got = append(got, [2]string{string(it.Key()), string(it.Value())})
	}
	if it.Err() != nil {
		t.Fatalf("iterator error: %v", it.Err())
	}
	if len(got) != len(kvs) {
		t.Fatalf("got %v, want %v", got, kvs)
	}
	for i := range kvs {
		if got[i] != kvs[i] {
			t.Fatalf("entry %d: got %v, want %v", i, got[i], kvs[i])
		}
	}
}

func TestBlockAddRejectsNonIncreasingKeys(t *testing.T) {
	b := NewBuilder()
	if err := b.Add([]byte("b"), []byte("1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add([]byte("a"), []byte("2")); err != ErrNotSorted {
		t.Fatalf("got %v, want ErrNotSorted", err)
	}
	if err := b.Add([]byte("b"), []byte("2")); err != ErrNotSorted {
		t.Fatalf("got %v, want ErrNotSorted for duplicate", err)
	}
}

func TestBlockAddRejectsDuplicateEmptyKey(t *testing.T) {
	b := NewBuilder()
	if err := b.Add([]byte(""), []byte("1")); err != nil {
		t.Fatalf("add empty key: %v", err)
	}
	if err := b.Add([]byte(""), []byte("2")); err != ErrNotSorted {
		t.Fatalf("got %v, want ErrNotSorted for duplicate empty key", err)
	}
}

func TestBlockAddAfterFinishFails(t *testing.T) {
	b := NewBuilder()
	_ = b.Add([]byte("a"), []byte("1"))
	b.Finish()
	if err := b.Add([]byte("b"), []byte("2")); err != ErrFinished {
		t.Fatalf("got %v, want ErrFinished", err)
	}
}

func TestBlockReaderRejectsTruncatedTrailer(t *testing.T) {
	b := NewBuilder()
	_ = b.Add([]byte("a"), []byte("1"))
	data := b.Finish()
	_, err := NewReader(data[:len(data)-2])
	if err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestBlockSingleEntryRestartInterval1(t *testing.T) {
	r := buildBlock(t, 1, [][2]string{{"alpha", "1"}, {"beta", "2"}, {"gamma", "3"}})
	for _, want := range []struct{ k, v string }{{"alpha", "1"}, {"beta", "2"}, {"gamma", "3"}} {
		v, err := r.Get([]byte(want.k))
		if err != nil || !bytes.Equal(v, []byte(want.v)) {
			t.Fatalf("Get(%q) = %q, %v", want.k, v, err)
		}
	}
}
