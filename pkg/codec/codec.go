// Package codec holds the little-endian integer and varint32 primitives
// shared by the WAL, Bloom filter, and SSTable block/index/footer formats.
package codec

import "encoding/binary"

// PutFixed32 appends the little-endian encoding of v to dst.
func PutFixed32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// PutFixed64 appends the little-endian encoding of v to dst.
func PutFixed64(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// DecodeFixed32 decodes a little-endian uint32 from the first 4 bytes of b.
func DecodeFixed32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// DecodeFixed64 decodes a little-endian uint64 from the first 8 bytes of b.
func DecodeFixed64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// MaxVarint32Len is the largest number of bytes a varint32 can occupy.
const MaxVarint32Len = 5

// PutVarint32 appends the varint32 encoding of v to dst.
func PutVarint32(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// GetVarint32 decodes a varint32 from the start of b. It returns the decoded
// value, the number of bytes consumed, and whether decoding succeeded. It
// refuses to shift past bit 28, matching the reference decoder's rejection
// of overlong encodings.
func GetVarint32(b []byte) (v uint32, n int, ok bool) {
	var result uint32
	shift := 0
	i := 0
	for i < len(b) && shift <= 28 {
		x := b[i]
		i++
		result |= uint32(x&0x7F) << shift
		if x&0x80 == 0 {
			return result, i, true
		}
		shift += 7
	}
	return 0, 0, false
}
