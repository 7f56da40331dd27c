package memtable

import "github.com/dreamvrutik/vrootkv/pkg/common/iterator"

// MemTableIteratorAdapter adapts a MemTable's skip-list Iterator to the
// common iterator.Iterator interface used across storage layers, so a
// MemTable can be merged with SSTable iterators during a flush or scan
// without the caller special-casing either source.
type MemTableIteratorAdapter struct {
	source *Iterator
	table  *MemTable
}

// NewMemTableIteratorAdapter wraps m's forward iterator.
func NewMemTableIteratorAdapter(m *MemTable) *MemTableIteratorAdapter {
	return &MemTableIteratorAdapter{source: m.NewIterator(), table: m}
}

// SeekToFirst positions the iterator at the smallest key.
func (a *MemTableIteratorAdapter) SeekToFirst() {
	a.source = a.table.NewIterator()
}

// SeekToLast is unsupported by the underlying forward-only skip list
// iterator; it leaves the iterator invalid.
func (a *MemTableIteratorAdapter) SeekToLast() {
	a.source = &Iterator{}
}

// Seek positions the iterator at the first key >= target.
func (a *MemTableIteratorAdapter) Seek(target []byte) bool {
	a.source = a.table.list.Seek(target)
	return a.Valid()
}

// Next advances to the next entry, reporting whether one exists.
func (a *MemTableIteratorAdapter) Next() bool {
	if !a.Valid() {
		return false
	}
	a.source.Next()
	return a.Valid()
}

// Key returns the current entry's key, or nil if invalid.
func (a *MemTableIteratorAdapter) Key() []byte {
	if !a.Valid() {
		return nil
	}
	return a.source.Key()
}

// Value returns the current entry's value, or nil if invalid.
func (a *MemTableIteratorAdapter) Value() []byte {
	if !a.Valid() {
		return nil
	}
	return a.source.Value()
}

// Valid reports whether the iterator is positioned at an entry.
func (a *MemTableIteratorAdapter) Valid() bool {
	return a.source != nil && a.source.Valid()
}

// IsTombstone reports whether the current entry is a deletion marker.
func (a *MemTableIteratorAdapter) IsTombstone() bool {
	return a.Valid() && a.table.IsDeleted(a.source.Key())
}

var (
	_ iterator.Iterator       = (*MemTableIteratorAdapter)(nil)
	_ iterator.TombstoneAware = (*MemTableIteratorAdapter)(nil)
)
