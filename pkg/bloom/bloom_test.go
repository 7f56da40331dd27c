package bloom

import (
	"errors"
	"fmt"
	"testing"
)

func TestNoFalseNegatives(t *testing.T) {
	f := New(1000, 0.01)
	keys := make([][]byte, 1000)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("key-%05d", i))
		f.Add(keys[i])
	}
	for _, k := range keys {
		if !f.MayContain(k) {
			t.Fatalf("false negative for %q", k)
		}
	}
}

// TestFalsePositiveRateIsReasonable exercises the filter at the same scale
// as the concrete FPR bound in the spec's sizing table: 20000 items built
// at p=0.01, probed with 20000 disjoint absent keys, expecting an observed
// rate no worse than 1.8x the target p.
func TestFalsePositiveRateIsReasonable(t *testing.T) {
	const n = 20000
	const p = 0.01
	const probes = 20000
	const maxRate = 0.018

	f := New(n, p)
	for i := 0; i < n; i++ {
		f.Add([]byte(fmt.Sprintf("present-%05d", i)))
	}
	falsePositives := 0
	for i := 0; i < probes; i++ {
		if f.MayContain([]byte(fmt.Sprintf("absent-%05d", i))) {
			falsePositives++
		}
	}
	rate := float64(falsePositives) / float64(probes)
	if rate > maxRate {
		t.Fatalf("false positive rate too high: %f (want <= %f)", rate, maxRate)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := New(500, 0.02)
	for i := 0; i < 500; i++ {
		f.Add([]byte(fmt.Sprintf("k-%d", i)))
	}
	encoded := f.Encode()

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.NumBits() != f.NumBits() || decoded.NumHashes() != f.NumHashes() {
		t.Fatalf("header mismatch: got m=%d k=%d, want m=%d k=%d",
			decoded.NumBits(), decoded.NumHashes(), f.NumBits(), f.NumHashes())
	}
	for i := 0; i < 500; i++ {
		k := []byte(fmt.Sprintf("k-%d", i))
		if !decoded.MayContain(k) {
			t.Fatalf("decoded filter lost key %q", k)
		}
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	f := New(10, 0.01)
	encoded := f.Encode()
	_, err := Decode(encoded[:len(encoded)-1])
	if !errors.Is(err, ErrCorrupt) && !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrCorrupt or ErrTruncated", err)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	f := New(10, 0.01)
	encoded := f.Encode()
	encoded[0] ^= 0xFF
	_, err := Decode(encoded)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestNewWithZeroExpectedItemsDegeneratesSafely(t *testing.T) {
	f := New(0, 0.01)
	if f.NumBits() == 0 {
		t.Fatalf("expected at least 1 bit")
	}
	f.Add([]byte("anything"))
	if !f.MayContain([]byte("anything")) {
		t.Fatalf("even the degenerate filter must not false-negative")
	}
}

func TestOptimalSizingGrowsWithExpectedItems(t *testing.T) {
	small := optimalNumBits(10, 0.01)
	large := optimalNumBits(10000, 0.01)
	if large <= small {
		t.Fatalf("expected bit count to grow with item count: %d vs %d", small, large)
	}
}
