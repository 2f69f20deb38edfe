// Package dual implements the main/secondary dictionary rotation scheme
// shared by the compress and decompress engines: a threshold past which
// new entries are shadowed into a secondary dictionary, and a swap, once
// the main dictionary fills, that promotes the secondary in its place so
// the new main isn't cold.
package dual

import (
	"github.com/dsnet/golib/errs"

	"github.com/evilaliv3/lz78/codeio"
	"github.com/evilaliv3/lz78/dict"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "dual: " + string(e) }

// threshold returns floor(dSize*8/10), the point past which new insertions
// are mirrored into the secondary dictionary.
func threshold(dSize int) int {
	return dSize * 8 / 10
}

// CompressorPair drives compression through a rotating main/secondary pair
// of open-addressed dictionaries.
type CompressorPair struct {
	DSize     int
	Threshold int
	Main      *dict.Compressor
	Secondary *dict.Compressor
}

// NewCompressorPair allocates a pair of dSize-slot compressor dictionaries.
// dSize must be within [dict.DictSizeMin, dict.DictSizeMax]; this is a
// construction-time misuse guard, not a condition a caller can hit on a
// well-formed stream, so a bad value panics rather than threading an error
// through every call site.
func NewCompressorPair(dSize int) *CompressorPair {
	errs.Assert(dSize >= dict.DictSizeMin && dSize <= dict.DictSizeMax, Error("dictionary size out of range"))
	return &CompressorPair{
		DSize:     dSize,
		Threshold: threshold(dSize),
		Main:      dict.NewCompressor(dSize),
		Secondary: dict.NewCompressor(dSize),
	}
}

// Extend feeds label through the main dictionary, rotates the pair if main
// just filled, and then mirrors label into the (possibly new) secondary
// once main has crossed the threshold. width is only meaningful when emit
// is true: it is the code width computed from main's d_next immediately
// after allocation, as required before any swap changes what "main"
// refers to.
func (p *CompressorPair) Extend(label byte) (emit bool, code uint32, width int, swapped bool) {
	emit, code = p.Main.Extend(label)
	if emit {
		width = codeio.Width(p.Main.DNext() - 1)
	}

	if emit && p.Main.DNext() >= uint32(p.DSize) {
		p.swap(label)
		swapped = true
	}

	if p.Main.DNext() >= uint32(p.Threshold) {
		p.Secondary.Extend(label)
	}
	return emit, code, width, swapped
}

func (p *CompressorPair) swap(curLabel byte) {
	p.Main, p.Secondary = p.Secondary, p.Main
	p.Main.SetCurNode(curLabel)
	p.Secondary.Reset()
}

// DecompressorPair drives decompression through a rotating main
// (parent-pointer tree) / secondary (open-addressed hash table) pair.
type DecompressorPair struct {
	DSize     int
	Threshold int
	Main      *dict.Decompressor
	Secondary *dict.Compressor
}

// NewDecompressorPair allocates a main decompressor dictionary and a
// secondary compressor dictionary, both sized dSize. dSize is subject to
// the same construction-time guard as NewCompressorPair.
func NewDecompressorPair(dSize int) *DecompressorPair {
	errs.Assert(dSize >= dict.DictSizeMin && dSize <= dict.DictSizeMax, Error("dictionary size out of range"))
	return &DecompressorPair{
		DSize:     dSize,
		Threshold: threshold(dSize),
		Main:      dict.NewDecompressor(dSize),
		Secondary: dict.NewCompressor(dSize),
	}
}

// Width reports the bit width the caller must read to decode the next
// code, computed from main's current d_next before that code is read.
func (p *DecompressorPair) Width() int {
	return codeio.Width(p.Main.DNext())
}

// Emit decodes code through the main dictionary. Since the decompressor
// does not insert one byte at a time, the secondary shadow (once past
// threshold) is built by replaying every byte of the just-decoded string
// through the secondary's own sequential Extend state machine, exactly as
// the compressor's Extend would have. The threshold is tested against
// main's d_next before code is decoded, which is the d_next the encoder
// held while absorbing those same bytes. Emit also performs a swap if main
// just filled.
func (p *DecompressorPair) Emit(code uint32) (data []byte, swapped bool, err error) {
	defer errs.Recover(&err)
	shadow := p.Main.DNext() >= uint32(p.Threshold)
	data, err = p.Main.Emit(code)
	errs.Panic(err)

	if shadow {
		for _, b := range data {
			p.Secondary.Extend(b)
		}
	}

	if p.Main.DNext() >= uint32(p.DSize) {
		p.swap()
		swapped = true
	}
	return data, swapped, nil
}

func (p *DecompressorPair) swap() {
	dNext := p.Secondary.DNext()
	p.Main.Reset()
	p.Main.SeedFrom(p.Secondary, dNext)
	p.Secondary = dict.NewCompressor(p.DSize)
}
