package memtable

import (
	"github.com/dreamvrutik/vrootkv/pkg/common/iterator"
	"github.com/dreamvrutik/vrootkv/pkg/common/iterator/bounded"
	"github.com/dreamvrutik/vrootkv/pkg/common/iterator/filtered"
)

// NewRangeIterator returns an iterator over keys in [start, end); a nil
// start or end leaves that side of the range open. This is the range-access
// half of the MemTable's "point/range access and sorted iteration"
// contract, built on top of the point-iteration adapter.
func (m *MemTable) NewRangeIterator(start, end []byte) iterator.Iterator {
	return bounded.NewBoundedIterator(NewMemTableIteratorAdapter(m), start, end)
}

// NewPrefixIterator returns an iterator over keys sharing the given prefix.
func (m *MemTable) NewPrefixIterator(prefix []byte) iterator.Iterator {
	return filtered.NewPrefixIterator(NewMemTableIteratorAdapter(m), prefix)
}
