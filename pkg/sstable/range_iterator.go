package sstable

import (
	"github.com/dreamvrutik/vrootkv/pkg/common/iterator"
	"github.com/dreamvrutik/vrootkv/pkg/common/iterator/bounded"
	"github.com/dreamvrutik/vrootkv/pkg/common/iterator/filtered"
)

// NewRangeIterator returns an iterator over this table's entries in
// [start, end); a nil start or end leaves that side of the range open.
func (r *Reader) NewRangeIterator(start, end []byte) iterator.Iterator {
	return bounded.NewBoundedIterator(NewIteratorAdapter(r.NewIterator()), start, end)
}

// NewPrefixIterator returns an iterator over entries whose key shares the
// given prefix.
func (r *Reader) NewPrefixIterator(prefix []byte) iterator.Iterator {
	return filtered.NewPrefixIterator(NewIteratorAdapter(r.NewIterator()), prefix)
}
