package wal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Reader streams frames out of a single WAL segment file.
type Reader struct {
	file *os.File
	buf  []byte // unconsumed bytes read from file but not yet framed
	eof  bool
}

// OpenReader opens path for sequential frame reading.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wal: open segment: %w", err)
	}
	return &Reader{file: f}, nil
}

// fill reads more bytes from the file into the internal buffer.
func (r *Reader) fill() error {
	if r.eof {
		return nil
	}
	chunk := make([]byte, 64*1024)
	n, err := r.file.Read(chunk)
	if n > 0 {
		r.buf = append(r.buf, chunk[:n]...)
	}
	if err != nil {
		if err == io.EOF {
			r.eof = true
			return nil
		}
		return err
	}
	return nil
}

// ReadRecord returns the next record in the segment. It returns io.EOF once
// the file ends cleanly on a frame boundary. A truncated or corrupt trailing
// frame surfaces as ErrTruncatedHeader/ErrTruncatedPayload/ErrCRCMismatch
// etc. so recovery can halt at the last successfully parsed frame.
func (r *Reader) ReadRecord() (*Record, error) {
	for {
		rec, n, err := ParseFrame(r.buf)
		if err == nil {
			r.buf = r.buf[n:]
			return rec, nil
		}

		if !errors.Is(err, ErrTruncatedHeader) && !errors.Is(err, ErrTruncatedPayload) {
			// Structurally or semantically bad frame: not recoverable by
			// reading further bytes.
			return nil, err
		}

		if r.eof {
			if len(r.buf) == 0 {
				return nil, io.EOF
			}
			return nil, err
		}
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// EntryHandler applies a single committed key/value mutation during
// recovery. isDelete is true for DELETE records; value is nil in that case.
type EntryHandler func(key, value []byte, isDelete bool) error

// RecoveryStats summarizes what Recover did.
type RecoveryStats struct {
	TransactionsApplied int
	TransactionsAborted int
	RecordsApplied      int
	HaltedEarly         bool
	LastTxnID           uint64
}

// Recover replays a single WAL segment file, applying each committed
// transaction's PUT/DELETE operations through handler in commit order.
// Operations belonging to a transaction that is never closed by a
// COMMIT_TX/ABORT_TX (because the file ends first, truncated or not) are
// discarded: recovery halts at the last successfully parsed frame and never
// applies a partial transaction.
//
// A truncated trailing frame (the file ends mid-write) halts recovery with
// stats.HaltedEarly set and a nil error. A structurally or semantically bad
// frame (bad CRC, malformed lengths) is a different failure: the log is
// damaged rather than merely cut short, so Recover returns a non-nil error
// instead of silently treating it as a clean truncation.
func Recover(path string, handler EntryHandler) (*RecoveryStats, error) {
	reader, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	stats := &RecoveryStats{}
	pending := make(map[uint64][]*Record)

	for {
		rec, err := reader.ReadRecord()
		if err != nil {
			if err == io.EOF {
				return stats, nil
			}
			if errors.Is(err, ErrTruncatedHeader) || errors.Is(err, ErrTruncatedPayload) {
				// A partial frame at the tail: an interrupted write, not
				// damage. Recovery halts here but is not an error.
				stats.HaltedEarly = true
				return stats, nil
			}
			// A structurally or semantically bad frame: the log is
			// damaged, not merely cut short. It cannot be trusted past
			// this point, so recovery fails rather than truncating
			// silently.
			return stats, fmt.Errorf("wal: recover: %w", err)
		}

		stats.LastTxnID = rec.TxnID

		switch rec.Type {
		case RecordBeginTx:
			pending[rec.TxnID] = pending[rec.TxnID][:0]
		case RecordPut, RecordDelete:
			pending[rec.TxnID] = append(pending[rec.TxnID], rec)
		case RecordCommit:
			for _, op := range pending[rec.TxnID] {
				isDelete := op.Type == RecordDelete
				if err := handler(op.Key, op.Value, isDelete); err != nil {
					return stats, fmt.Errorf("wal: apply txn %d: %w", rec.TxnID, err)
				}
				stats.RecordsApplied++
			}
			delete(pending, rec.TxnID)
			stats.TransactionsApplied++
		case RecordAbort:
			delete(pending, rec.TxnID)
			stats.TransactionsAborted++
		default:
			return stats, fmt.Errorf("wal: unknown record type %d", rec.Type)
		}
	}
}

// FindSegmentsOrdered returns the WAL segment files in dir ordered by
// modification time, oldest first, matching write order across segment
// rotation.
func FindSegmentsOrdered(dir string) ([]string, error) {
	files, err := FindSegments(dir)
	if err != nil {
		return nil, err
	}

	type stamped struct {
		path  string
		mtime int64
	}
	stampedFiles := make([]stamped, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		stampedFiles = append(stampedFiles, stamped{f, info.ModTime().UnixNano()})
	}
	sort.Slice(stampedFiles, func(i, j int) bool { return stampedFiles[i].mtime < stampedFiles[j].mtime })

	ordered := make([]string, len(stampedFiles))
	for i, s := range stampedFiles {
		ordered[i] = s.path
	}
	return ordered, nil
}

// RecoverDir replays every WAL segment in dir, oldest first, applying
// committed transactions in order. It stops scanning a segment once that
// segment halts early, but still moves on to process subsequent segments
// (a rotation boundary, not a corruption signal, separates them).
func RecoverDir(dir string, handler EntryHandler) (*RecoveryStats, error) {
	files, err := FindSegmentsOrdered(dir)
	if err != nil {
		return nil, err
	}

	total := &RecoveryStats{}
	for _, f := range files {
		stats, err := Recover(f, handler)
		if err != nil {
			return total, err
		}
		total.TransactionsApplied += stats.TransactionsApplied
		total.TransactionsAborted += stats.TransactionsAborted
		total.RecordsApplied += stats.RecordsApplied
		total.LastTxnID = stats.LastTxnID
		if stats.HaltedEarly {
			total.HaltedEarly = true
		}
	}
	return total, nil
}
