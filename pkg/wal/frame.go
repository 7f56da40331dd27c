package wal

import (
	"errors"
	"fmt"

	"github.com/dreamvrutik/vrootkv/pkg/codec"
)

// RecordType identifies the kind of operation a WAL record carries.
type RecordType uint8

const (
	RecordBeginTx RecordType = 0
	RecordPut     RecordType = 1
	RecordDelete  RecordType = 2
	RecordCommit  RecordType = 3
	RecordAbort   RecordType = 4
)

func (t RecordType) String() string {
	switch t {
	case RecordBeginTx:
		return "BEGIN_TX"
	case RecordPut:
		return "PUT"
	case RecordDelete:
		return "DELETE"
	case RecordCommit:
		return "COMMIT_TX"
	case RecordAbort:
		return "ABORT_TX"
	default:
		return fmt.Sprintf("RecordType(%d)", uint8(t))
	}
}

// Errors returned while framing or parsing WAL records, named along the
// taxonomy of truncated input, structurally corrupt input, and semantically
// malformed input.
var (
	ErrTruncatedHeader  = errors.New("wal: truncated frame header")
	ErrTruncatedPayload = errors.New("wal: truncated frame payload")
	ErrCRCMismatch      = errors.New("wal: crc mismatch")
	ErrPayloadTooSmall  = errors.New("wal: payload too small")
	ErrMalformedLength  = errors.New("wal: malformed key/value length")
	ErrTruncatedKV      = errors.New("wal: truncated key/value")
)

// frameHeaderSize is the on-disk size of the len+crc frame header.
const frameHeaderSize = 8

// payloadFixedSize is the fixed-width portion of a record payload:
// txn_id(8) + type(1).
const payloadFixedSize = 9

// Record is a single logical WAL entry: a transaction id, a record type,
// and an optional key/value pair. DELETE carries a key and no value; BEGIN/
// COMMIT/ABORT typically carry neither.
type Record struct {
	TxnID uint64
	Type  RecordType
	Key   []byte
	Value []byte
}

// SerializePayload encodes the payload (without the length/crc frame
// header): txn_id(8) | type(1) | varint32(klen) | varint32(vlen) | key | value.
func (r *Record) SerializePayload() []byte {
	out := make([]byte, 0, payloadFixedSize+codec.MaxVarint32Len*2+len(r.Key)+len(r.Value))
	out = codec.PutFixed64(out, r.TxnID)
	out = append(out, byte(r.Type))
	out = codec.PutVarint32(out, uint32(len(r.Key)))
	out = codec.PutVarint32(out, uint32(len(r.Value)))
	out = append(out, r.Key...)
	out = append(out, r.Value...)
	return out
}

// SerializeFrame encodes the full on-disk frame: len(4) | crc(4) | payload.
func (r *Record) SerializeFrame() []byte {
	payload := r.SerializePayload()
	out := make([]byte, 0, frameHeaderSize+len(payload))
	out = codec.PutFixed32(out, uint32(len(payload)))
	out = codec.PutFixed32(out, codec.ChecksumIEEE(payload))
	out = append(out, payload...)
	return out
}

// ParsePayload decodes a Record from a raw payload buffer (the bytes after
// the length/crc header have already been validated).
func ParsePayload(payload []byte) (*Record, error) {
	if len(payload) < payloadFixedSize {
		return nil, ErrPayloadTooSmall
	}

	r := &Record{}
	r.TxnID = codec.DecodeFixed64(payload[0:8])
	r.Type = RecordType(payload[8])
	rest := payload[9:]

	klen, n, ok := codec.GetVarint32(rest)
	if !ok {
		return nil, ErrMalformedLength
	}
	rest = rest[n:]

	vlen, n, ok := codec.GetVarint32(rest)
	if !ok {
		return nil, ErrMalformedLength
	}
	rest = rest[n:]

	total := uint64(klen) + uint64(vlen)
	if uint64(len(rest)) < total {
		return nil, ErrTruncatedKV
	}

	r.Key = append([]byte(nil), rest[:klen]...)
	r.Value = append([]byte(nil), rest[klen:klen+vlen]...)
	return r, nil
}

// ParseFrame decodes one frame from the start of buf and returns the
// decoded record plus the number of bytes the frame occupied, so the
// caller can advance past it. It never reads past len(buf).
func ParseFrame(buf []byte) (*Record, int, error) {
	if len(buf) < frameHeaderSize {
		return nil, 0, ErrTruncatedHeader
	}

	length := codec.DecodeFixed32(buf[0:4])
	crc := codec.DecodeFixed32(buf[4:8])

	if uint64(len(buf)-frameHeaderSize) < uint64(length) {
		return nil, 0, ErrTruncatedPayload
	}

	payload := buf[frameHeaderSize : frameHeaderSize+int(length)]
	if codec.ChecksumIEEE(payload) != crc {
		return nil, 0, ErrCRCMismatch
	}

	rec, err := ParsePayload(payload)
	if err != nil {
		return nil, 0, err
	}

	return rec, frameHeaderSize + int(length), nil
}
