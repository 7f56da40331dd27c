// Package index implements the divider-key index block that routes an
// SSTable lookup to the data block that might contain it.
package index

import (
	"bytes"
	"errors"

	"github.com/dreamvrutik/vrootkv/pkg/codec"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/footer"
)

// ErrTruncated is returned when a serialized index block is shorter than
// its declared trailer requires.
var ErrTruncated = errors.New("index: truncated")

// ErrCorrupt is returned when the trailer or entries violate structural
// invariants (non-monotonic offsets, out-of-range offset, non-increasing
// dividers).
var ErrCorrupt = errors.New("index: corrupt")

// ErrNotSorted is returned by Add when dividers are not strictly
// increasing.
var ErrNotSorted = errors.New("index: dividers must be strictly increasing")

// Builder accumulates divider-key -> BlockHandle entries in strictly
// increasing divider order.
type Builder struct {
	buf        []byte
	offsets    []uint32
	lastKey    []byte
	hasLastKey bool
}

// NewBuilder constructs an empty index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a (divider, handle) entry. Dividers must be strictly
// increasing across calls.
func (b *Builder) Add(divider []byte, handle footer.BlockHandle) error {
	if b.hasLastKey && bytes.Compare(b.lastKey, divider) >= 0 {
		return ErrNotSorted
	}
	b.offsets = append(b.offsets, uint32(len(b.buf)))

	b.buf = codec.PutVarint32(b.buf, uint32(len(divider)))
	b.buf = append(b.buf, divider...)
	b.buf = append(b.buf, handle.Encode()...)

	b.lastKey = append(b.lastKey[:0], divider...)
	b.hasLastKey = true
	return nil
}

// Entries returns the number of entries added so far.
func (b *Builder) Entries() int { return len(b.offsets) }

// Finish serializes the trailer (entry offsets + count) and returns the
// complete index block bytes.
func (b *Builder) Finish() []byte {
	for _, off := range b.offsets {
		b.buf = codec.PutFixed32(b.buf, off)
	}
	b.buf = codec.PutFixed32(b.buf, uint32(len(b.offsets)))
	return b.buf
}

// entry is a parsed index block entry.
type entry struct {
	divider []byte
	handle  footer.BlockHandle
}

// Reader parses a serialized index block for Find lookups.
type Reader struct {
	entries []entry
}

// NewReader parses data's trailer and entries, validating offset
// monotonicity and in-range-ness.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < 4 {
		return nil, ErrTruncated
	}
	numEntries := codec.DecodeFixed32(data[len(data)-4:])
	trailerLen := 4 + int(numEntries)*4
	if len(data) < trailerLen {
		return nil, ErrTruncated
	}
	offsetsOff := len(data) - trailerLen
	entriesEnd := offsetsOff

	entries := make([]entry, numEntries)
	var prevOff uint32
	for i := uint32(0); i < numEntries; i++ {
		off := codec.DecodeFixed32(data[offsetsOff+int(i)*4:])
		if off > uint32(entriesEnd) {
			return nil, ErrCorrupt
		}
		if i > 0 && off < prevOff {
			return nil, ErrCorrupt
		}
		prevOff = off

		divLen, n, ok := codec.GetVarint32(data[off:entriesEnd])
		if !ok {
			return nil, ErrCorrupt
		}
		p := int(off) + n
		end := p + int(divLen)
		if end+footer.HandleSize > entriesEnd {
			return nil, ErrCorrupt
		}
		divider := data[p:end]
		if i > 0 && bytes.Compare(entries[i-1].divider, divider) >= 0 {
			return nil, ErrCorrupt
		}
		handle, err := footer.DecodeBlockHandle(data[end : end+footer.HandleSize])
		if err != nil {
			return nil, ErrCorrupt
		}
		entries[i] = entry{divider: divider, handle: handle}
	}

	return &Reader{entries: entries}, nil
}

// Find locates the rightmost entry whose divider <= searchKey, ties broken
// in favor of an exact match. ok is false when searchKey is smaller than
// every divider.
func (r *Reader) Find(searchKey []byte) (handle footer.BlockHandle, ok bool) {
	if len(r.entries) == 0 || bytes.Compare(searchKey, r.entries[0].divider) < 0 {
		return footer.BlockHandle{}, false
	}
	lo, hi := 0, len(r.entries)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if bytes.Compare(r.entries[mid].divider, searchKey) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return r.entries[lo].handle, true
}

// Entries returns the number of parsed entries.
func (r *Reader) Entries() int { return len(r.entries) }

// Handles returns every data-block handle in divider order, for callers
// that need to walk the whole table rather than look up a single key.
func (r *Reader) Handles() []footer.BlockHandle {
	out := make([]footer.BlockHandle, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.handle
	}
	return out
}
