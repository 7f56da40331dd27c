package bounded

import (
	"bytes"

	"github.com/dreamvrutik/vrootkv/pkg/common/iterator"
)

// BoundedIterator restricts a source iterator to the half-open range
// [start, end). A nil start or end leaves that side of the range open.
type BoundedIterator struct {
	iterator.Iterator
	start []byte
	end   []byte
}

// NewBoundedIterator wraps iter, restricting it to [startKey, endKey).
func NewBoundedIterator(iter iterator.Iterator, startKey, endKey []byte) *BoundedIterator {
	bi := &BoundedIterator{Iterator: iter}

	if startKey != nil {
		bi.start = append([]byte(nil), startKey...)
	}
	if endKey != nil {
		bi.end = append([]byte(nil), endKey...)
	}

	return bi
}

// SetBounds replaces the iterator's range without constructing a new one.
func (b *BoundedIterator) SetBounds(start, end []byte) {
	if start != nil {
		b.start = append([]byte(nil), start...)
	} else {
		b.start = nil
	}

	if end != nil {
		b.end = append([]byte(nil), end...)
	} else {
		b.end = nil
	}

	if b.Iterator.Valid() {
		b.checkBounds()
	}
}

// SeekToFirst positions at the range's first key.
func (b *BoundedIterator) SeekToFirst() {
	if b.start != nil {
		b.Iterator.Seek(b.start)
	} else {
		b.Iterator.SeekToFirst()
	}
	b.checkBounds()
}

// SeekToLast positions at the range's last key. end is exclusive, so a
// source iterator that can't seek backward from it has to scan forward
// from the start to find the key immediately before it.
func (b *BoundedIterator) SeekToLast() {
	if b.end != nil {
		b.Iterator.Seek(b.end)

		// Seek(end) lands on the first key >= end, which is outside the
		// range, or runs off the source entirely.
		if !b.Iterator.Valid() || bytes.Compare(b.Iterator.Key(), b.end) >= 0 {
			b.Iterator.SeekToFirst()

			var lastKey []byte
			for b.Iterator.Valid() && bytes.Compare(b.Iterator.Key(), b.end) < 0 {
				lastKey = b.Iterator.Key()
				b.Iterator.Next()
			}

			if lastKey != nil {
				b.Iterator.Seek(lastKey)
			} else {
				b.Iterator.SeekToFirst()
			}
		}
	} else {
		b.Iterator.SeekToLast()
	}

	b.checkBounds()
}

// Seek positions at the first key >= target within bounds
func (b *BoundedIterator) Seek(target []byte) bool {
	// If target is before start bound, use start bound instead
	if b.start != nil && bytes.Compare(target, b.start) < 0 {
		target = b.start
	}

	// If target is at or after end bound, the seek will fail
	if b.end != nil && bytes.Compare(target, b.end) >= 0 {
		return false
	}

	if b.Iterator.Seek(target) {
		return b.checkBounds()
	}
	return false
}

// Next advances to the next key within bounds
func (b *BoundedIterator) Next() bool {
	// First check if we're already at or beyond the end boundary
	if !b.checkBounds() {
		return false
	}

	// Then try to advance
	if !b.Iterator.Next() {
		return false
	}

	// Check if the new position is within bounds
	return b.checkBounds()
}

// Valid returns true if the iterator is positioned at a valid entry within bounds
func (b *BoundedIterator) Valid() bool {
	return b.Iterator.Valid() && b.checkBounds()
}

// Key returns the current key if within bounds
func (b *BoundedIterator) Key() []byte {
	if !b.Valid() {
		return nil
	}
	return b.Iterator.Key()
}

// Value returns the current value if within bounds
func (b *BoundedIterator) Value() []byte {
	if !b.Valid() {
		return nil
	}
	return b.Iterator.Value()
}

// IsTombstone reports whether the current entry is a deletion marker, for
// sources that carry that concept. A source with no tombstone notion (most
// bounded ranges don't need one) reports false rather than panicking.
func (b *BoundedIterator) IsTombstone() bool {
	if !b.Valid() {
		return false
	}
	t, ok := b.Iterator.(iterator.TombstoneAware)
	return ok && t.IsTombstone()
}

// checkBounds verifies that the current position is within the bounds
// Returns true if the position is valid and within bounds
func (b *BoundedIterator) checkBounds() bool {
	if !b.Iterator.Valid() {
		return false
	}

	// Check if the current key is before the start bound
	if b.start != nil && bytes.Compare(b.Iterator.Key(), b.start) < 0 {
		return false
	}

	// Check if the current key is beyond the end bound
	if b.end != nil && bytes.Compare(b.Iterator.Key(), b.end) >= 0 {
		return false
	}

	return true
}
