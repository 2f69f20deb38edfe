// Package codeio implements the wire-level framing around the LZ78 code
// stream: the reserved sentinel codes, variable code width, and the
// bit-level emit/decode primitives built on package bitio.
package codeio

import (
	"math/bits"

	"github.com/dsnet/golib/errs"

	"github.com/evilaliv3/lz78/bitio"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "codeio: " + string(e) }

// ErrWidth is raised when a CodeWriter or CodeReader is asked to move more
// bits than its 4-byte accumulator can hold.
var ErrWidth error = Error("code width must be between 1 and 32 bits")

// Dictionary size bounds, duplicated from package dict to keep codeio free
// of a dependency on the dictionary implementation; only the numeric
// relationship to code width matters here.
const (
	DictSizeMin     = 260
	DictSizeDefault = 4096
	DictSizeMax     = 1 << 20
)

// Reserved codes. Values 0..255 are literal bytes; everything at or above
// DictSizeMin is a dictionary reference. The four sentinels below sit in
// the gap between the two ranges.
const (
	CodeEOF          uint32 = 256
	CodeSizeAnnounce uint32 = 257
	CodeStart        uint32 = 258
	CodeStop         uint32 = 259
)

// StartWidth is the code width used for the fixed-width preamble, wide
// enough to carry any of the four sentinel codes: ceilLog2(DictSizeMin+1).
var StartWidth = ceilLog2(DictSizeMin + 1)

// SizeWidth is the code width used for the dictionary-size announcement
// that follows CodeStart: ceilLog2(DictSizeMax+1), wide enough to carry
// any legal dictionary size.
var SizeWidth = ceilLog2(DictSizeMax + 1)

// ceilLog2 returns ceil(log2(d)), the number of bits needed to represent
// values in [0, d-1]. For d <= 1 it returns 1.
func ceilLog2(d int) int {
	if d <= 1 {
		return 1
	}
	return bits.Len32(uint32(d - 1))
}

// Width returns the bit width needed to encode any code strictly less than
// dNext, which is how both the encoder (called with its post-allocation
// d_next) and the decoder (called with its pre-read d_next) arrive at
// identical widths for the same code in lockstep.
func Width(dNext uint32) int {
	if dNext <= 1 {
		return 1
	}
	return bits.Len32(dNext - 1)
}

// CodeWriter emits variable-width codes onto a bitio.Stream, resuming a
// partially written code across calls whose underlying Write came back
// short (would-block or a full buffer) instead of requiring the caller to
// track bit offsets itself.
type CodeWriter struct {
	bs      *bitio.Stream
	pending uint32
	width   int
	written int
	active  bool
}

// NewCodeWriter returns a CodeWriter that emits onto bs.
func NewCodeWriter(bs *bitio.Stream) *CodeWriter { return &CodeWriter{bs: bs} }

// Emit writes code using width bits. It returns true once the whole code
// has been flushed to bs. A (false, nil) result means the underlying write
// was short; the caller must call Emit again with the same code and width
// until it returns true or an error.
func (w *CodeWriter) Emit(code uint32, width int) (done bool, err error) {
	defer errs.Recover(&err)
	if !w.active {
		errs.Assert(width >= 1 && width <= 32, ErrWidth)
		w.pending, w.width, w.written, w.active = code, width, 0, true
	}

	remaining := w.pending >> uint(w.written)
	var buf [4]byte
	buf[0] = byte(remaining)
	buf[1] = byte(remaining >> 8)
	buf[2] = byte(remaining >> 16)
	buf[3] = byte(remaining >> 24)

	n, err := w.bs.Write(buf[:], w.width-w.written, 0)
	if err != nil {
		return false, err
	}
	w.written += n
	if w.written >= w.width {
		w.active = false
		return true, nil
	}
	return false, nil
}

// CodeReader decodes variable-width codes from a bitio.Stream, resuming a
// partially read code across calls whose underlying Read came back short.
type CodeReader struct {
	bs      *bitio.Stream
	pending uint32
	width   int
	read    int
	active  bool
}

// NewCodeReader returns a CodeReader that decodes from bs.
func NewCodeReader(bs *bitio.Stream) *CodeReader { return &CodeReader{bs: bs} }

// Decode reads width bits and returns the decoded code once complete. A
// (0, false, nil) result means the underlying read was short; the caller
// must call Decode again with the same width until it returns done or an
// error.
func (r *CodeReader) Decode(width int) (code uint32, done bool, err error) {
	defer errs.Recover(&err)
	if !r.active {
		errs.Assert(width >= 1 && width <= 32, ErrWidth)
		r.pending, r.width, r.read, r.active = 0, width, 0, true
	}

	var buf [4]byte
	n, err := r.bs.Read(buf[:], r.width-r.read, 0)
	if err != nil {
		return 0, false, err
	}
	got := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	r.pending |= got << uint(r.read)
	r.read += n

	if r.read >= r.width {
		r.active = false
		return r.pending, true, nil
	}
	return 0, false, nil
}
