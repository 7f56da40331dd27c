package sstable

import "github.com/dreamvrutik/vrootkv/pkg/common/iterator"

// IteratorAdapter adapts an SSTable Iterator to the common
// iterator.Iterator interface, so a table's entries can be merged with a
// MemTable's during a scan without the caller special-casing either
// source.
type IteratorAdapter struct {
	source *Iterator
}

// NewIteratorAdapter wraps an SSTable Iterator.
func NewIteratorAdapter(source *Iterator) *IteratorAdapter {
	return &IteratorAdapter{source: source}
}

// SeekToFirst positions the iterator at the table's first entry.
func (a *IteratorAdapter) SeekToFirst() {
	a.source.SeekToFirst()
}

// SeekToLast is unsupported by the underlying forward-only block iterator;
// it leaves the iterator invalid.
func (a *IteratorAdapter) SeekToLast() {
	a.source.blockAt = len(a.source.handles)
	a.source.cur = nil
}

// Seek positions the iterator at the first key >= target by scanning
// forward from the beginning; data blocks have no reverse index, so a
// linear scan is the correct fallback here.
func (a *IteratorAdapter) Seek(target []byte) bool {
	a.source.SeekToFirst()
	for a.Valid() && string(a.source.Key()) < string(target) {
		a.source.Next()
	}
	return a.Valid()
}

// Next advances to the next entry, reporting whether one exists.
func (a *IteratorAdapter) Next() bool {
	if !a.Valid() {
		return false
	}
	a.source.Next()
	return a.Valid()
}

// Key returns the current entry's key, or nil if invalid.
func (a *IteratorAdapter) Key() []byte {
	if !a.Valid() {
		return nil
	}
	return a.source.Key()
}

// Value returns the current entry's value, or nil if invalid.
func (a *IteratorAdapter) Value() []byte {
	if !a.Valid() {
		return nil
	}
	return a.source.Value()
}

// Valid reports whether the iterator is positioned at an entry.
func (a *IteratorAdapter) Valid() bool { return a.source.Valid() }

// IsTombstone reports whether the current entry's value is empty, the
// convention this table uses for a deletion marker.
func (a *IteratorAdapter) IsTombstone() bool {
	return a.Valid() && len(a.source.Value()) == 0
}

var (
	_ iterator.Iterator       = (*IteratorAdapter)(nil)
	_ iterator.TombstoneAware = (*IteratorAdapter)(nil)
)
