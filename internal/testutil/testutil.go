// Package testutil holds small helpers shared by this module's test files.
package testutil

import (
	"encoding/hex"
	"testing"
)

// MustDecodeHex decodes a hexadecimal string, failing t on malformed input.
func MustDecodeHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("testutil: invalid hex string: %v", err)
	}
	return b
}

// GenerateRepeats returns size bytes of synthetic data that favors
// LZ-style compression: most of the stream is a copy of some earlier span,
// interspersed with short runs of fresh random bytes. seed makes the
// output reproducible across Go versions and platforms, since it is built
// on Rand rather than math/rand.
func GenerateRepeats(seed int, size int) []byte {
	r := NewRand(seed)
	b := make([]byte, 0, size)

	randLen := func() int {
		switch p := r.Intn(100); {
		case p < 15:
			return 4 + r.Intn(4)
		case p < 30:
			return 8 + r.Intn(8)
		case p < 45:
			return 16 + r.Intn(16)
		case p < 60:
			return 32 + r.Intn(32)
		case p < 75:
			return 64 + r.Intn(64)
		case p < 90:
			return 128 + r.Intn(128)
		default:
			return 256 + r.Intn(256)
		}
	}

	randDist := func() int {
		for {
			var d int
			switch p := r.Intn(100); {
			case p < 20:
				d = 1 + r.Intn(4)
			case p < 40:
				d = 4 + r.Intn(16)
			case p < 60:
				d = 16 + r.Intn(64)
			case p < 80:
				d = 64 + r.Intn(256)
			default:
				d = 256 + r.Intn(1024)
			}
			if d > 0 && d <= len(b) {
				return d
			}
		}
	}

	writeCopy := func(d, l int) {
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}

	b = append(b, r.Bytes(randLen())...)
	for len(b) < size {
		if len(b) > 0 && r.Intn(100) < 80 {
			writeCopy(randDist(), randLen())
		} else {
			b = append(b, r.Bytes(randLen())...)
		}
	}
	return b[:size]
}
