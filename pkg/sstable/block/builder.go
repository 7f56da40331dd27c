package block

import (
	"bytes"

	"github.com/dreamvrutik/vrootkv/pkg/codec"
)

// Builder accumulates sorted key/value pairs into a restart-based,
// prefix-compressed data block. It is mutable until Finish; subsequent Add
// calls after Finish fail.
type Builder struct {
	restartInterval int

	buf      []byte
	restarts []uint32

	lastKey    []byte
	hasLastKey bool
	counter    int
	count      int
	finished   bool
}

// NewBuilder constructs a block builder with the default restart interval.
func NewBuilder() *Builder {
	return NewBuilderWithRestartInterval(DefaultRestartInterval)
}

// NewBuilderWithRestartInterval constructs a block builder with an explicit
// restart interval (entries between full-key restart points).
func NewBuilderWithRestartInterval(restartInterval int) *Builder {
	if restartInterval < 1 {
		restartInterval = 1
	}
	return &Builder{
		restartInterval: restartInterval,
		restarts:        []uint32{0},
	}
}

// Add appends key/value. Keys must be strictly increasing across calls.
func (b *Builder) Add(key, value []byte) error {
	if b.finished {
		return ErrFinished
	}
	if b.hasLastKey && bytes.Compare(b.lastKey, key) >= 0 {
		return ErrNotSorted
	}

	var shared int
	if b.counter == b.restartInterval {
		b.restarts = append(b.restarts, uint32(len(b.buf)))
		b.counter = 0
	} else {
		shared = commonPrefixLen(b.lastKey, key)
	}
	nonShared := len(key) - shared

	b.buf = codec.PutFixed32(b.buf, uint32(shared))
	b.buf = codec.PutFixed32(b.buf, uint32(nonShared))
	b.buf = codec.PutFixed32(b.buf, uint32(len(value)))
	b.buf = append(b.buf, key[shared:]...)
	b.buf = append(b.buf, value...)

	b.lastKey = append(b.lastKey[:0], key...)
	b.hasLastKey = true
	b.counter++
	b.count++
	return nil
}

// Entries returns the number of key/value pairs added so far.
func (b *Builder) Entries() int {
	return b.count
}

// EstimatedSize returns the approximate size of the block if finished now.
func (b *Builder) EstimatedSize() int {
	return len(b.buf) + len(b.restarts)*4 + 4
}

// Finish serializes the trailer (restart offsets + count) and returns the
// complete block bytes. The builder must not be reused after Finish.
func (b *Builder) Finish() []byte {
	if b.finished {
		return b.buf
	}
	for _, r := range b.restarts {
		b.buf = codec.PutFixed32(b.buf, r)
	}
	b.buf = codec.PutFixed32(b.buf, uint32(len(b.restarts)))
	b.finished = true
	return b.buf
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
