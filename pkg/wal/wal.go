// Package wal implements the write-ahead log framing and recovery layer:
// a sequence of length-prefixed, CRC-guarded frames recording BEGIN_TX/PUT/
// DELETE/COMMIT_TX/ABORT_TX operations, replayed in order to reconstruct
// memtable state after a restart.
package wal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dreamvrutik/vrootkv/pkg/config"
)

// Status values for the atomic status field.
const (
	StatusActive   = 0
	StatusRotating = 1
	StatusClosed   = 2
)

var (
	ErrClosed   = errors.New("wal: log is closed")
	ErrRotating = errors.New("wal: log is rotating")
)

// WAL is a single append-only log file plus the in-memory bookkeeping
// needed to frame new records and fsync them according to the configured
// sync mode.
type WAL struct {
	cfg    *config.Config
	dir    string
	file   *os.File
	writer *bufio.Writer

	nextTxnID     uint64
	bytesWritten  int64
	batchByteSize int64
	lastSync      time.Time
	status        int32

	mu sync.Mutex

	observers   map[string]EntryObserver
	observersMu sync.RWMutex

	metrics Metrics
}

// New creates a fresh WAL segment file in dir, named with a random UUID so
// concurrent segment creation never collides (unlike a wall-clock-timestamp
// name).
func New(cfg *config.Config, dir string) (*WAL, error) {
	if cfg == nil {
		return nil, errors.New("wal: config cannot be nil")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("wal: create directory: %w", err)
	}

	name := fmt.Sprintf("%s.wal", uuid.NewString())
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("wal: create segment: %w", err)
	}

	return &WAL{
		cfg:       cfg,
		dir:       dir,
		file:      file,
		writer:    bufio.NewWriterSize(file, 64*1024),
		nextTxnID: 1,
		lastSync:  time.Now(),
		status:    StatusActive,
		observers: make(map[string]EntryObserver),
		metrics:   NewNoopMetrics(),
	}, nil
}

// SetMetrics installs the telemetry sink used for append/sync instrumentation.
func (w *WAL) SetMetrics(m Metrics) {
	if m == nil {
		m = NewNoopMetrics()
	}
	w.metrics = m
}

// Path returns the filesystem path of the current segment file.
func (w *WAL) Path() string {
	return w.file.Name()
}

// appendRecord frames and writes a single record without taking the lock
// (callers hold w.mu already).
func (w *WAL) appendRecord(rec *Record) error {
	frame := rec.SerializeFrame()
	if _, err := w.writer.Write(frame); err != nil {
		return fmt.Errorf("wal: write frame: %w", err)
	}
	w.bytesWritten += int64(len(frame))
	w.batchByteSize += int64(len(frame))
	return nil
}

func (w *WAL) checkOpen() error {
	switch atomic.LoadInt32(&w.status) {
	case StatusClosed:
		return ErrClosed
	case StatusRotating:
		return ErrRotating
	}
	return nil
}

// Put appends a single-record transaction (BEGIN_TX, PUT, COMMIT_TX) and
// returns the transaction id assigned to it.
func (w *WAL) Put(key, value []byte) (uint64, error) {
	return w.appendSingle(RecordPut, key, value)
}

// Delete appends a single-record transaction (BEGIN_TX, DELETE, COMMIT_TX).
func (w *WAL) Delete(key []byte) (uint64, error) {
	return w.appendSingle(RecordDelete, key, nil)
}

func (w *WAL) appendSingle(typ RecordType, key, value []byte) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen(); err != nil {
		return 0, err
	}

	start := time.Now()
	txnID := w.nextTxnID
	w.nextTxnID++

	for _, rec := range []*Record{
		{TxnID: txnID, Type: RecordBeginTx},
		{TxnID: txnID, Type: typ, Key: key, Value: value},
		{TxnID: txnID, Type: RecordCommit},
	} {
		if err := w.appendRecord(rec); err != nil {
			return 0, err
		}
	}

	w.notifyEntry(&Record{TxnID: txnID, Type: typ, Key: key, Value: value})
	w.metrics.RecordAppend(time.Since(start), int64(len(key)+len(value)), typ.String())

	if err := w.maybeSync(); err != nil {
		return 0, err
	}
	return txnID, nil
}

// Operation is one mutation within a Batch.
type Operation struct {
	Type  RecordType // RecordPut or RecordDelete
	Key   []byte
	Value []byte
}

// AppendBatch frames a single transaction containing BEGIN_TX, one PUT/
// DELETE frame per operation, and COMMIT_TX, so recovery applies the whole
// batch atomically or not at all.
func (w *WAL) AppendBatch(ops []Operation) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen(); err != nil {
		return 0, err
	}
	if len(ops) == 0 {
		return 0, errors.New("wal: empty batch")
	}

	start := time.Now()
	txnID := w.nextTxnID
	w.nextTxnID++

	if err := w.appendRecord(&Record{TxnID: txnID, Type: RecordBeginTx}); err != nil {
		return 0, err
	}

	var totalBytes int64
	for _, op := range ops {
		if op.Type != RecordPut && op.Type != RecordDelete {
			return 0, fmt.Errorf("wal: invalid batch operation type %v", op.Type)
		}
		if err := w.appendRecord(&Record{TxnID: txnID, Type: op.Type, Key: op.Key, Value: op.Value}); err != nil {
			return 0, err
		}
		totalBytes += int64(len(op.Key) + len(op.Value))
	}

	if err := w.appendRecord(&Record{TxnID: txnID, Type: RecordCommit}); err != nil {
		return 0, err
	}

	w.notifyBatch(txnID, ops)
	w.metrics.RecordBatch(time.Since(start), len(ops), totalBytes)

	if err := w.maybeSync(); err != nil {
		return 0, err
	}
	return txnID, nil
}

func (w *WAL) maybeSync() error {
	needSync := false
	switch w.cfg.WALSyncMode {
	case config.SyncImmediate:
		needSync = true
	case config.SyncBatch:
		needSync = w.batchByteSize >= w.cfg.WALSyncBytes
	case config.SyncNone:
	}
	if needSync {
		return w.syncLocked(false)
	}
	return nil
}

func (w *WAL) syncLocked(forced bool) error {
	if err := w.checkOpen(); err != nil {
		return err
	}

	start := time.Now()
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("wal: flush: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("wal: fsync: %w", err)
	}
	w.lastSync = time.Now()
	w.batchByteSize = 0

	w.notifySync(w.nextTxnID - 1)
	w.metrics.RecordSync(time.Since(start), forced)
	return nil
}

// Sync flushes buffered frames and fsyncs the segment file.
func (w *WAL) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncLocked(true)
}

// Close flushes, syncs, and closes the segment file.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if atomic.LoadInt32(&w.status) == StatusClosed {
		return nil
	}

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("wal: flush on close: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("wal: sync on close: %w", err)
	}
	atomic.StoreInt32(&w.status, StatusRotating)

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("wal: close: %w", err)
	}
	atomic.StoreInt32(&w.status, StatusClosed)
	return nil
}

// Size returns the number of bytes written to this segment so far.
func (w *WAL) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytesWritten
}

// MaybeRotate closes the current segment and opens a new one if the
// segment has grown past cfg.WALMaxSize. It returns the (possibly
// unchanged) WAL to use going forward.
func (w *WAL) MaybeRotate() (*WAL, error) {
	w.mu.Lock()
	size := w.bytesWritten
	maxSize := w.cfg.WALMaxSize
	dir := w.dir
	cfg := w.cfg
	w.mu.Unlock()

	if maxSize <= 0 || size < maxSize {
		return w, nil
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	next, err := New(cfg, dir)
	if err != nil {
		return nil, err
	}
	next.mu.Lock()
	next.nextTxnID = w.nextTxnID
	next.mu.Unlock()
	return next, nil
}

// FindSegments returns the WAL segment files in dir.
func FindSegments(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.wal"))
	if err != nil {
		return nil, fmt.Errorf("wal: glob segments: %w", err)
	}
	return matches, nil
}
