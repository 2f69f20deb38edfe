package dual

import (
	"testing"

	"github.com/evilaliv3/lz78/dict"
)

// compressAll drives p over data and returns the resulting code sequence,
// including the final code for whatever match is still pending at the end
// of data, the same way an encoder must flush before announcing EOF.
func compressAll(p *CompressorPair, data []byte) []uint32 {
	var codes []uint32
	for _, b := range data {
		emit, code, _, _ := p.Extend(b)
		if emit {
			codes = append(codes, code)
		}
	}
	if p.Main.Primed() {
		codes = append(codes, p.Main.CurNode())
	}
	return codes
}

func decompressAll(t *testing.T, p *DecompressorPair, codes []uint32) []byte {
	t.Helper()
	var out []byte
	for _, c := range codes {
		data, _, err := p.Emit(c)
		if err != nil {
			t.Fatalf("Emit(%d): %v", c, err)
		}
		out = append(out, data...)
	}
	return out
}

func TestRoundTripNoSwap(t *testing.T) {
	input := []byte("ABABABABAB")
	cp := NewCompressorPair(dict.DictSizeDefault)
	codes := compressAll(cp, input)

	dp := NewDecompressorPair(dict.DictSizeDefault)
	out := decompressAll(t, dp, codes)
	if string(out) != string(input) {
		t.Fatalf("got %q, want %q", out, input)
	}
}

func TestRoundTripEmptyInput(t *testing.T) {
	cp := NewCompressorPair(dict.DictSizeDefault)
	codes := compressAll(cp, nil)
	if len(codes) != 0 {
		t.Fatalf("expected no codes for empty input, got %v", codes)
	}
}

// TestRoundTripForcesSwap uses the smallest legal dictionary size, so that
// d_next (which starts at DictSizeMin) already equals DSize and a swap
// fires on the very first emitted code; a longer, repetitive input
// then exercises several further swaps as the pair keeps rotating.
func TestRoundTripForcesSwap(t *testing.T) {
	input := make([]byte, 0, 3000)
	for i := 0; i < 3000; i++ {
		input = append(input, byte('a'+i%5))
	}

	cp := NewCompressorPair(dict.DictSizeMin)
	codes := compressAll(cp, input)

	sawSwap := false
	cp2 := NewCompressorPair(dict.DictSizeMin)
	for _, b := range input {
		_, _, _, swapped := cp2.Extend(b)
		if swapped {
			sawSwap = true
			break
		}
	}
	if !sawSwap {
		t.Fatalf("expected at least one swap with DSize == DictSizeMin")
	}

	dp := NewDecompressorPair(dict.DictSizeMin)
	out := decompressAll(t, dp, codes)
	if string(out) != string(input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(out), len(input))
	}
}

func TestWidthMatchesCompressorCode(t *testing.T) {
	cp := NewCompressorPair(dict.DictSizeDefault)
	input := []byte("the quick brown fox jumps over the lazy dog the quick brown fox")
	for _, b := range input {
		emit, code, width, _ := cp.Extend(b)
		if !emit {
			continue
		}
		if code >= 1<<uint(width) {
			t.Fatalf("code %d does not fit in reported width %d", code, width)
		}
	}
}
