// Package block implements the restart-based, prefix-compressed data block
// used as the leaf unit of an SSTable. The divider-keyed index block that
// routes lookups to these blocks lives in package index.
package block

import "errors"

const (
	// DefaultRestartInterval is how many entries separate two restart
	// points; not encoded in the block itself.
	DefaultRestartInterval = 16

	// entryHeaderSize is shared(u32) + non_shared(u32) + value_len(u32).
	entryHeaderSize = 12
)

// ErrNotSorted is returned by Add when keys are not added in strictly
// increasing order.
var ErrNotSorted = errors.New("block: keys must be added in strictly increasing order")

// ErrFinished is returned by Add once Finish has been called.
var ErrFinished = errors.New("block: builder already finished")

// ErrTruncated is returned when a serialized block is shorter than its
// declared trailer requires.
var ErrTruncated = errors.New("block: truncated")

// ErrCorrupt is returned when a block's trailer or entry stream violates
// its structural invariants (non-monotonic restarts, out-of-range offset,
// shared prefix exceeding the previous key).
var ErrCorrupt = errors.New("block: corrupt")

// ErrNotFound is returned by Get when the target key is absent.
var ErrNotFound = errors.New("block: key not found")
