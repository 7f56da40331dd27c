// Package footer implements the fixed-size trailer written at the end of
// every SSTable file, and the BlockHandle type used to address the data,
// index, and filter blocks it points into.
package footer

import (
	"errors"

	"github.com/dreamvrutik/vrootkv/pkg/codec"
)

// Magic is the constant that must appear in the final 8 bytes of a
// well-formed SSTable.
const Magic = uint64(0xF00DBAADF00DBAAD)

// Size is the fixed, exact length of an encoded footer.
const Size = 40

// HandleSize is the encoded length of a BlockHandle.
const HandleSize = 16

// ErrTruncated is returned by Decode when fewer than Size bytes are given.
var ErrTruncated = errors.New("footer: truncated")

// ErrBadMagic is returned by Decode when the trailing magic doesn't match.
// The parsed footer is still returned so a caller may inspect it for
// diagnostics; the engine treats this as fatal corruption.
var ErrBadMagic = errors.New("footer: magic mismatch")

// BlockHandle addresses a contiguous byte range within an SSTable file.
type BlockHandle struct {
	Offset uint64
	Size   uint64
}

// Encode serializes a handle as 16 little-endian bytes: offset then size.
func (h BlockHandle) Encode() []byte {
	buf := make([]byte, 0, HandleSize)
	buf = codec.PutFixed64(buf, h.Offset)
	buf = codec.PutFixed64(buf, h.Size)
	return buf
}

// DecodeBlockHandle parses a handle from the first 16 bytes of b.
func DecodeBlockHandle(b []byte) (BlockHandle, error) {
	if len(b) < HandleSize {
		return BlockHandle{}, ErrTruncated
	}
	return BlockHandle{
		Offset: codec.DecodeFixed64(b[0:8]),
		Size:   codec.DecodeFixed64(b[8:16]),
	}, nil
}

// Footer is the fixed 40-byte trailer of an SSTable file:
// filter_handle(16) | index_handle(16) | magic(8).
type Footer struct {
	FilterHandle BlockHandle
	IndexHandle  BlockHandle
}

// Encode serializes the footer to exactly Size bytes.
func (f Footer) Encode() []byte {
	buf := make([]byte, 0, Size)
	buf = append(buf, f.FilterHandle.Encode()...)
	buf = append(buf, f.IndexHandle.Encode()...)
	buf = codec.PutFixed64(buf, Magic)
	return buf
}

// Decode reads exactly Size bytes (no scanning) from the tail of b. When
// the magic doesn't match, the parsed footer is returned alongside
// ErrBadMagic.
func Decode(b []byte) (Footer, error) {
	if len(b) < Size {
		return Footer{}, ErrTruncated
	}
	tail := b[len(b)-Size:]

	filterHandle, _ := DecodeBlockHandle(tail[0:16])
	indexHandle, _ := DecodeBlockHandle(tail[16:32])
	magic := codec.DecodeFixed64(tail[32:40])

	f := Footer{FilterHandle: filterHandle, IndexHandle: indexHandle}
	if magic != Magic {
		return f, ErrBadMagic
	}
	return f, nil
}
