// Package sstable assembles the data, index, and filter blocks into the
// immutable on-disk table: [data blocks][filter block][index block][footer].
package sstable

import "errors"

const (
	// DefaultBlockSize is the target size, in bytes, of accumulated entries
	// before a data block is flushed.
	DefaultBlockSize = 16 * 1024
	// DefaultRestartInterval is passed through to each data block builder.
	DefaultRestartInterval = 16
	// DefaultIndexKeyInterval is not read by the Writer: it emits one index
	// divider per flushed data block, so the block size sets their spacing.
	DefaultIndexKeyInterval = 64 * 1024
	// FileExtension is the recommended suffix for SSTable files.
	FileExtension = ".sstable"
)

// ErrNotFound indicates a key was not present in the table (definitively,
// or as reported by the filter).
var ErrNotFound = errors.New("sstable: key not found")

// ErrCorrupt indicates a structural integrity violation was detected while
// reading a table; the file must be treated as not openable.
var ErrCorrupt = errors.New("sstable: corrupt")
