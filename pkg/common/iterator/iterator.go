// Package iterator defines the cursor shared by every component that walks
// sorted key/value data (memtable skip list, SSTable data blocks, and the
// bounded/filtered wrappers in this module's subpackages).
//
// Adapting a source type into an Iterator follows one shape throughout this
// module: a struct holding the source value, delegating Seek/Next/Key/Value
// to it, and guarding Key/Value so they return nil once the cursor runs off
// the end instead of panicking or returning stale data. See
// pkg/memtable/iterator_adapter.go and pkg/sstable/iterator_adapter.go for
// the two concrete adapters this repo ships.
package iterator

// Iterator is the cursor every sorted source exposes: position at an
// endpoint or a target key, walk forward, and read the current entry.
type Iterator interface {
	// SeekToFirst positions the iterator at the first key.
	SeekToFirst()

	// SeekToLast positions the iterator at the last key.
	SeekToLast()

	// Seek positions the iterator at the first key >= target.
	Seek(target []byte) bool

	// Next advances the iterator to the next key.
	Next() bool

	// Key returns the current key.
	Key() []byte

	// Value returns the current value.
	Value() []byte

	// Valid returns true if the iterator is positioned at a valid entry.
	Valid() bool
}

// TombstoneAware is implemented by iterators whose source can represent a
// deleted key as a tombstone entry (MemTable's tombstone map, an SSTable's
// empty-value-means-deleted convention). It is deliberately not part of
// Iterator itself: bounded/filtered/range wrapping is useful over any
// sorted source, most of which (a plain key range, a merge of two already
// tombstone-resolved sources) have no notion of deletion markers at all.
// Callers that need to tell a tombstone apart from an ordinary empty value
// (the bounded and filtered wrappers, when forwarding IsTombstone)
// type-assert for it.
type TombstoneAware interface {
	IsTombstone() bool
}
