package block

import (
	"bytes"

	"github.com/dreamvrutik/vrootkv/pkg/codec"
)

// Reader parses a serialized data block for point lookups and iteration.
// It holds a borrowed view over data; callers must keep the backing buffer
// alive for the reader's lifetime.
type Reader struct {
	data     []byte
	restarts []uint32
	dataEnd  int
}

// NewReader parses the trailer of a serialized block.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < 4 {
		return nil, ErrTruncated
	}
	numRestarts := codec.DecodeFixed32(data[len(data)-4:])
	trailerLen := 4 + int(numRestarts)*4
	if len(data) < trailerLen {
		return nil, ErrTruncated
	}

	restartsOff := len(data) - trailerLen
	restarts := make([]uint32, numRestarts)
	var prev uint32
	for i := uint32(0); i < numRestarts; i++ {
		off := codec.DecodeFixed32(data[restartsOff+int(i)*4:])
		if off > uint32(restartsOff) {
			return nil, ErrCorrupt
		}
		if i > 0 && off < prev {
			return nil, ErrCorrupt
		}
		restarts[i] = off
		prev = off
	}

	return &Reader{data: data, restarts: restarts, dataEnd: restartsOff}, nil
}

// entryAt decodes the entry header starting at off, returning the full key
// (reconstructed from prevKey+shared when provided), value, and the offset
// just past the entry. shared must be zero when prevKey is nil.
func (r *Reader) entryAt(off int, prevKey []byte) (key, value []byte, next int, err error) {
	if off+entryHeaderSize > r.dataEnd {
		return nil, nil, 0, ErrCorrupt
	}
	shared := codec.DecodeFixed32(r.data[off:])
	nonShared := codec.DecodeFixed32(r.data[off+4:])
	valueLen := codec.DecodeFixed32(r.data[off+8:])
	p := off + entryHeaderSize

	if int(shared) > len(prevKey) {
		return nil, nil, 0, ErrCorrupt
	}
	end := p + int(nonShared) + int(valueLen)
	if end > r.dataEnd {
		return nil, nil, 0, ErrCorrupt
	}

	key = make([]byte, int(shared)+int(nonShared))
	copy(key, prevKey[:shared])
	copy(key[shared:], r.data[p:p+int(nonShared)])
	value = r.data[p+int(nonShared) : end]
	return key, value, end, nil
}

// restartKey materializes the full key stored at a restart point, where
// shared is always zero.
func (r *Reader) restartKey(idx int) ([]byte, error) {
	key, _, _, err := r.entryAt(int(r.restarts[idx]), nil)
	return key, err
}

// Get performs a point lookup for target: Phase 1 binary-searches the
// restart-point keys, Phase 2 linearly scans the located run.
func (r *Reader) Get(target []byte) ([]byte, error) {
	if len(r.restarts) == 0 {
		return nil, ErrNotFound
	}

	lo, hi := 0, len(r.restarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		key, err := r.restartKey(mid)
		if err != nil {
			return nil, err
		}
		if bytes.Compare(key, target) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	off := int(r.restarts[lo])
	runEnd := r.dataEnd
	if lo+1 < len(r.restarts) {
		runEnd = int(r.restarts[lo+1])
	}

	var prevKey []byte
	for off < runEnd {
		key, value, next, err := r.entryAt(off, prevKey)
		if err != nil {
			return nil, err
		}
		cmp := bytes.Compare(key, target)
		if cmp == 0 {
			return value, nil
		}
		if cmp > 0 {
			return nil, ErrNotFound
		}
		prevKey = key
		off = next
	}
	return nil, ErrNotFound
}

// Iterator returns a forward iterator over every entry in the block.
func (r *Reader) Iterator() *Iterator {
	return &Iterator{r: r}
}

// Iterator walks a block's entries in key order, reconstructing full keys
// from restart-relative deltas as it goes.
type Iterator struct {
	r       *Reader
	off     int
	prevKey []byte
	key     []byte
	value   []byte
	valid   bool
	started bool
	err     error
}

// SeekToFirst positions the iterator at the block's first entry.
func (it *Iterator) SeekToFirst() {
	it.off = 0
	it.prevKey = nil
	it.started = true
	it.advance()
}

// Next advances to the following entry.
func (it *Iterator) Next() {
	if !it.started {
		it.SeekToFirst()
		return
	}
	it.advance()
}

func (it *Iterator) advance() {
	if it.off >= it.r.dataEnd {
		it.valid = false
		return
	}
	key, value, next, err := it.r.entryAt(it.off, it.prevKey)
	if err != nil {
		it.valid = false
		it.err = err
		return
	}
	it.key, it.value = key, value
	it.prevKey = key
	it.off = next
	it.valid = true
}

// Valid reports whether the iterator is positioned at an entry.
func (it *Iterator) Valid() bool { return it.valid }

// Err returns any structural error encountered while iterating.
func (it *Iterator) Err() error { return it.err }

// Key returns the current entry's key. Precondition: Valid().
func (it *Iterator) Key() []byte { return it.key }

// Value returns the current entry's value. Precondition: Valid().
func (it *Iterator) Value() []byte { return it.value }
