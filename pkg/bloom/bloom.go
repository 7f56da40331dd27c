// Package bloom implements the space-efficient Bloom filter used as the
// SSTable filter block. It never produces a false negative: every key added
// via Add is guaranteed to be reported present by MayContain.
package bloom

import (
	"errors"
	"math"

	"github.com/dreamvrutik/vrootkv/pkg/codec"
)

// ErrTruncated is returned by Decode when the input is shorter than the
// declared header or bit array.
var ErrTruncated = errors.New("bloom: truncated")

// ErrCorrupt is returned by Decode when the header's magic/version is wrong
// or the declared bit count doesn't match the number of bytes supplied.
var ErrCorrupt = errors.New("bloom: corrupt")

const (
	magic      = 0x46424B56 // 'V''K''B''F', little-endian
	version    = 1
	headerSize = 24 // magic(4) + version(4) + numBits(8) + k(4) + pad(4)

	seedH1 = 0x243F6A8885A308D3
	seedH2 = 0x13198A2E03707344

	mix1 = 0x9E3779B97F4A7C15
	mix2 = 0xBF58476D1CE4E5B9
	mix3 = 0x94D049BB133111EB
)

// Filter is a fixed-size Bloom filter over an arbitrary number of inserted
// keys, sized up front for a target false-positive rate.
type Filter struct {
	numBits   uint64
	numHashes uint32
	bits      []byte
}

// New constructs an empty filter sized so that inserting expectedItems keys
// keeps the false positive rate near targetFPR. expectedItems may be zero
// (the filter degenerates to a single bit probed by one hash).
func New(expectedItems int, targetFPR float64) *Filter {
	m := optimalNumBits(expectedItems, targetFPR)
	k := optimalNumHashes(expectedItems, m)
	return &Filter{
		numBits:   m,
		numHashes: k,
		bits:      make([]byte, (m+7)/8),
	}
}

// optimalNumBits computes m = ceil(-n*ln(p) / ln(2)^2), clamped to >= 1.
func optimalNumBits(n int, p float64) uint64 {
	if n == 0 {
		return 1
	}
	if p <= 0.0 {
		p = 1e-9
	}
	if p >= 1.0 {
		p = 0.999999
	}
	m := -float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)
	mm := uint64(math.Ceil(m))
	if mm == 0 {
		mm = 1
	}
	return mm
}

// optimalNumHashes computes k = round((m/n) * ln2), clamped to >= 1.
func optimalNumHashes(n int, m uint64) uint32 {
	if n == 0 || m == 0 {
		return 1
	}
	k := (float64(m) / float64(n)) * math.Ln2
	kk := uint32(math.Round(k))
	if kk == 0 {
		kk = 1
	}
	return kk
}

// hash64 is a SplitMix64-style mixer over arbitrary bytes, seeded
// independently for the two double-hashing inputs h1/h2.
func hash64(key []byte, seed uint64) uint64 {
	x := seed ^ (mix1 + uint64(len(key)))

	i := 0
	for i+8 <= len(key) {
		k := uint64(key[i]) | uint64(key[i+1])<<8 | uint64(key[i+2])<<16 |
			uint64(key[i+3])<<24 | uint64(key[i+4])<<32 | uint64(key[i+5])<<40 |
			uint64(key[i+6])<<48 | uint64(key[i+7])<<56

		x += k + mix1
		x ^= x >> 30
		x *= mix2
		x ^= x >> 27
		x *= mix3
		i += 8
	}

	var tail uint64
	shift := 0
	for ; i < len(key); i++ {
		tail |= uint64(key[i]) << shift
		shift += 8
	}
	x += tail

	x ^= x >> 30
	x *= mix2
	x ^= x >> 27
	x *= mix3
	x ^= x >> 31
	return x
}

// positions computes the k bit indices for key via double hashing:
// x0 = h1 mod m, step = (h2<<1)|1, x(i+1) = (x(i)+step) mod m.
func (f *Filter) positions(key []byte) []uint64 {
	h1 := hash64(key, seedH1)
	h2 := hash64(key, seedH2)
	m := f.numBits

	step := (h2 << 1) | 1
	var x uint64
	if m != 0 {
		x = h1 % m
	}

	out := make([]uint64, f.numHashes)
	for i := range out {
		out[i] = x
		if m != 0 {
			x = (x + step) % m
		}
	}
	return out
}

func (f *Filter) setBit(i uint64) {
	f.bits[i>>3] |= 1 << (i & 7)
}

func (f *Filter) getBit(i uint64) bool {
	return f.bits[i>>3]&(1<<(i&7)) != 0
}

// Add inserts key into the filter.
func (f *Filter) Add(key []byte) {
	if f.numBits == 0 {
		return
	}
	for _, idx := range f.positions(key) {
		f.setBit(idx)
	}
}

// MayContain reports whether key might be present. A false return is a
// definitive proof of absence; a true return may be a false positive.
func (f *Filter) MayContain(key []byte) bool {
	if f.numBits == 0 {
		return false
	}
	for _, idx := range f.positions(key) {
		if !f.getBit(idx) {
			return false
		}
	}
	return true
}

// NumBits returns the size of the underlying bit array.
func (f *Filter) NumBits() uint64 { return f.numBits }

// NumHashes returns the number of hash functions (double-hashing positions)
// used per key.
func (f *Filter) NumHashes() uint32 { return f.numHashes }

// Encode serializes the filter as
// magic(4) | version(4) | numBits(8) | k(4) | pad(4) | bits.
func (f *Filter) Encode() []byte {
	out := make([]byte, 0, headerSize+len(f.bits))
	out = codec.PutFixed32(out, magic)
	out = codec.PutFixed32(out, version)
	out = codec.PutFixed64(out, f.numBits)
	out = codec.PutFixed32(out, f.numHashes)
	out = codec.PutFixed32(out, 0)
	out = append(out, f.bits...)
	return out
}

// Decode parses the output of Encode, validating the header and the exact
// length of the trailing bit array.
func Decode(b []byte) (*Filter, error) {
	if len(b) < headerSize {
		return nil, ErrTruncated
	}

	gotMagic := codec.DecodeFixed32(b[0:4])
	gotVersion := codec.DecodeFixed32(b[4:8])
	numBits := codec.DecodeFixed64(b[8:16])
	numHashes := codec.DecodeFixed32(b[16:20])

	if gotMagic != magic || gotVersion != version {
		return nil, ErrCorrupt
	}
	if numBits == 0 || numHashes == 0 {
		return nil, ErrCorrupt
	}

	needed := (numBits + 7) / 8
	if uint64(len(b)) != headerSize+needed {
		return nil, ErrCorrupt
	}

	bits := make([]byte, needed)
	copy(bits, b[headerSize:])

	return &Filter{numBits: numBits, numHashes: numHashes, bits: bits}, nil
}
