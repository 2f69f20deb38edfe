package lz78

import "github.com/evilaliv3/lz78/dict"

// Mode selects whether an engine compresses or decompresses.
type Mode int

const (
	ModeCompress Mode = iota
	ModeDecompress
)

// DefaultBufCapacity is the default BitStream buffer size, in bits.
const DefaultBufCapacity = 8 * 1024 * 1024

// Config configures a CompressEngine or DecompressEngine. The zero value
// is valid for everything except Mode, which must be set explicitly.
type Config struct {
	Mode Mode

	// DictSize requests the main dictionary size for compression. Ignored
	// by DecompressEngine, which takes d_size from the stream's own
	// SIZE-announce code instead. Zero selects DictSizeDefault; any value
	// is then clamped to (DictSizeMin, DictSizeMax].
	DictSize int

	// BufCapacity is the BitStream buffer size, in bits. Zero selects
	// DefaultBufCapacity. Must be a multiple of 8.
	BufCapacity int
}

func (c Config) bufCapacity() int {
	if c.BufCapacity <= 0 {
		return DefaultBufCapacity
	}
	return c.BufCapacity
}

// clampDictSize resolves a requested dictionary size to the legal range
// (DictSizeMin, DictSizeMax], treating n <= 0 as "use the default".
func clampDictSize(n int) int {
	if n <= 0 {
		n = dict.DictSizeDefault
	}
	if n <= dict.DictSizeMin {
		n = dict.DictSizeMin + 1
	}
	if n > dict.DictSizeMax {
		n = dict.DictSizeMax
	}
	return n
}
