package sstable

import (
	"github.com/dreamvrutik/vrootkv/pkg/sstable/block"
	"github.com/dreamvrutik/vrootkv/pkg/sstable/footer"
)

// Iterator walks every key/value pair in a table in sorted order, crossing
// data block boundaries transparently.
type Iterator struct {
	r       *Reader
	handles []footer.BlockHandle
	blockAt int
	cur     *block.Iterator
	err     error
}

// NewIterator returns an iterator over the whole table.
func (r *Reader) NewIterator() *Iterator {
	return &Iterator{r: r, handles: r.idx.Handles(), blockAt: -1}
}

// SeekToFirst positions the iterator at the table's first entry.
func (it *Iterator) SeekToFirst() {
	it.blockAt = 0
	it.cur = nil
	it.loadCurrentBlock()
	if it.cur != nil {
		it.cur.SeekToFirst()
		it.skipExhaustedBlocks()
	}
}

func (it *Iterator) loadCurrentBlock() {
	if it.blockAt >= len(it.handles) {
		it.cur = nil
		return
	}
	data, err := it.r.blockAt(it.handles[it.blockAt])
	if err != nil {
		it.err = err
		it.cur = nil
		return
	}
	br, err := block.NewReader(data)
	if err != nil {
		it.err = err
		it.cur = nil
		return
	}
	it.cur = br.Iterator()
}

func (it *Iterator) skipExhaustedBlocks() {
	for it.cur != nil && !it.cur.Valid() {
		if it.cur.Err() != nil {
			it.err = it.cur.Err()
			it.cur = nil
			return
		}
		it.blockAt++
		it.loadCurrentBlock()
		if it.cur != nil {
			it.cur.SeekToFirst()
		}
	}
}

// Next advances to the following entry, crossing into the next data block
// as needed.
func (it *Iterator) Next() {
	if it.cur == nil {
		return
	}
	it.cur.Next()
	it.skipExhaustedBlocks()
}

// Valid reports whether the iterator is positioned at an entry.
func (it *Iterator) Valid() bool { return it.cur != nil && it.cur.Valid() }

// Err returns any structural error encountered while iterating.
func (it *Iterator) Err() error { return it.err }

// Key returns the current entry's key. Precondition: Valid().
func (it *Iterator) Key() []byte { return it.cur.Key() }

// Value returns the current entry's value. Precondition: Valid().
func (it *Iterator) Value() []byte { return it.cur.Value() }
