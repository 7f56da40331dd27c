package memtable

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dreamvrutik/vrootkv/pkg/config"
	"github.com/dreamvrutik/vrootkv/pkg/wal"
)

// MemTable wraps a SkipList with the immutability and sizing bookkeeping a
// caller needs to decide when to flush it into an SSTable, and to feed it
// WAL entries during recovery. Deleted keys are represented with a
// tombstone so a later SSTable flush can carry the deletion forward.
type MemTable struct {
	list         *SkipList
	tombstones   map[string]bool
	creationTime time.Time
	immutable    atomic.Bool
	mu           sync.RWMutex
	metrics      Metrics
}

// New creates an empty, mutable MemTable.
func New() *MemTable {
	return &MemTable{
		list:         NewSkipList(),
		tombstones:   make(map[string]bool),
		creationTime: time.Now(),
		metrics:      NewNoopMetrics(),
	}
}

// NewWithConfig sizes the underlying skip list according to cfg's skip list
// parameters.
func NewWithConfig(cfg *config.Config) *MemTable {
	const promoteScale = 1 << 16
	pNum := int(math.Round(cfg.SkipListPromoteP * promoteScale))
	return &MemTable{
		list:         NewSkipListWithParams(cfg.SkipListMaxLevel, pNum, promoteScale),
		tombstones:   make(map[string]bool),
		creationTime: time.Now(),
		metrics:      NewNoopMetrics(),
	}
}

// SetMetrics installs the telemetry sink used for insert/lookup instrumentation.
func (m *MemTable) SetMetrics(metrics Metrics) {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	m.metrics = metrics
}

// Put inserts or overwrites key/value. It is a no-op on an immutable table.
func (m *MemTable) Put(key, value []byte) {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsImmutable() {
		return
	}
	delete(m.tombstones, string(key))
	m.list.Put(key, value)
	m.metrics.RecordInsert(time.Since(start), int64(len(key)+len(value)), false)
}

// Delete marks key as deleted with a tombstone. It is a no-op on an
// immutable table.
func (m *MemTable) Delete(key []byte) {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsImmutable() {
		return
	}
	m.tombstones[string(key)] = true
	m.list.Put(key, nil)
	m.metrics.RecordInsert(time.Since(start), int64(len(key)), true)
}

// Get retrieves the value for key. The second return distinguishes "key
// absent" (false) from "key present" (true); when present but deleted, the
// returned value is nil and deleted is true.
func (m *MemTable) Get(key []byte) (value []byte, present bool, deleted bool) {
	start := time.Now()
	if m.IsImmutable() {
		value, present, deleted = m.getLocked(key)
		m.metrics.RecordLookup(time.Since(start), present)
		return value, present, deleted
	}
	m.mu.RLock()
	value, present, deleted = m.getLocked(key)
	m.mu.RUnlock()
	m.metrics.RecordLookup(time.Since(start), present)
	return value, present, deleted
}

func (m *MemTable) getLocked(key []byte) (value []byte, present bool, deleted bool) {
	v, ok := m.list.Get(key)
	if !ok {
		return nil, false, false
	}
	if m.tombstones[string(key)] {
		return nil, true, true
	}
	return v, true, false
}

// Contains reports whether key has any entry (live or tombstoned).
func (m *MemTable) Contains(key []byte) bool {
	if m.IsImmutable() {
		return m.list.Contains(key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.Contains(key)
}

// ApproximateSize returns the approximate memory footprint of stored
// entries, used to trigger a flush.
func (m *MemTable) ApproximateSize() int64 {
	return m.list.ApproximateSize()
}

// Len returns the number of live and tombstoned entries.
func (m *MemTable) Len() int {
	return m.list.Len()
}

// SetImmutable marks the table read-only, ready to be flushed.
func (m *MemTable) SetImmutable() {
	m.immutable.Store(true)
}

// IsImmutable reports whether the table has been frozen.
func (m *MemTable) IsImmutable() bool {
	return m.immutable.Load()
}

// Age returns how long this MemTable has existed, in seconds.
func (m *MemTable) Age() float64 {
	return time.Since(m.creationTime).Seconds()
}

// NewIterator returns a forward iterator over all entries in key order,
// including tombstoned keys (callers consult IsDeleted to distinguish
// them).
func (m *MemTable) NewIterator() *Iterator {
	if m.IsImmutable() {
		return m.list.Begin()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.Begin()
}

// IsDeleted reports whether key's current entry is a tombstone.
func (m *MemTable) IsDeleted(key []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tombstones[string(key)]
}

// ApplyWALEntry applies a single recovered WAL mutation (see
// pkg/wal.EntryHandler) to this table.
func (m *MemTable) ApplyWALEntry(key, value []byte, isDelete bool) error {
	if isDelete {
		m.Delete(key)
	} else {
		m.Put(key, value)
	}
	return nil
}

// RecoverFromWAL replays every WAL segment in dir into a fresh, mutable
// MemTable.
func RecoverFromWAL(dir string) (*MemTable, *wal.RecoveryStats, error) {
	m := New()
	stats, err := wal.RecoverDir(dir, m.ApplyWALEntry)
	if err != nil {
		return nil, nil, err
	}
	return m, stats, nil
}
