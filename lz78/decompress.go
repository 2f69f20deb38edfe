package lz78

import (
	"errors"
	"fmt"
	"io"

	"github.com/evilaliv3/lz78/bitio"
	"github.com/evilaliv3/lz78/codeio"
	"github.com/evilaliv3/lz78/dual"
)

type decompressStage int

const (
	dstageStart decompressStage = iota
	dstageSize
	dstageData
	dstageDone
)

// DecompressEngine drives code-in, byte-out decompression one resumable
// step at a time, mirroring CompressEngine. The main dictionary does not
// exist until the SIZE-announce code carries the negotiated dictionary
// size from the stream.
type DecompressEngine struct {
	br   *bitio.Stream
	cr   *codeio.CodeReader
	sink io.Writer
	pair *dual.DecompressorPair

	dSize  int
	outBuf []byte
	outPos int
	stage  decompressStage

	stats   Stats
	lastErr error
}

// NewDecompressEngine allocates a decompressor reading the bit-packed code
// stream from src and writing decoded bytes to sink. cfg.Mode must be
// ModeDecompress. cfg.DictSize is ignored; the dictionary size comes from
// the stream itself.
func NewDecompressEngine(cfg Config, src bitio.Device, sink io.Writer) (*DecompressEngine, error) {
	if cfg.Mode != ModeDecompress {
		return nil, ErrMode
	}
	br, err := bitio.Open(src, bitio.DirRead, cfg.bufCapacity())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	return &DecompressEngine{
		br:    br,
		cr:    codeio.NewCodeReader(br),
		sink:  sink,
		stage: dstageStart,
	}, nil
}

// Decompress advances decompression as far as it can in one call,
// returning nil once the EOF sentinel has been consumed and every decoded
// byte has been flushed to the sink.
func (e *DecompressEngine) Decompress() error {
	if e.lastErr != nil {
		return e.lastErr
	}

	for {
		switch e.stage {
		case dstageDone:
			return nil

		case dstageStart:
			code, done, err := e.cr.Decode(codeio.StartWidth)
			if err != nil {
				return e.handle(wrapRead(err))
			}
			if !done {
				return ErrAgain
			}
			if code != codeio.CodeStart {
				return e.handle(ErrDecompress)
			}
			e.stage = dstageSize

		case dstageSize:
			code, done, err := e.cr.Decode(codeio.SizeWidth)
			if err != nil {
				return e.handle(wrapRead(err))
			}
			if !done {
				return ErrAgain
			}
			if code <= codeio.DictSizeMin || code > codeio.DictSizeMax {
				return e.handle(ErrDecompress)
			}
			e.dSize = int(code)
			e.pair = dual.NewDecompressorPair(e.dSize)
			e.stage = dstageData

		case dstageData:
			if err := e.flushOut(); err != nil {
				return e.handle(err)
			}

			width := e.pair.Width()
			code, done, err := e.cr.Decode(width)
			if err != nil {
				return e.handle(wrapRead(err))
			}
			if !done {
				return ErrAgain
			}
			e.stats.CodesIn++

			if code == codeio.CodeEOF {
				e.stage = dstageDone
				return nil
			}

			data, swapped, err := e.pair.Emit(code)
			if err != nil {
				return e.handle(fmt.Errorf("%w: %v", ErrDecompress, err))
			}
			if swapped {
				e.stats.Swaps++
			}
			e.outBuf = append(e.outBuf[:0], data...)
			e.outPos = 0
		}
	}
}

// flushOut writes every remaining byte of the current decoded chunk to the
// sink, stopping only once it is drained or the sink can't make progress
// right now.
func (e *DecompressEngine) flushOut() error {
	for e.outPos < len(e.outBuf) {
		n, err := e.sink.Write(e.outBuf[e.outPos:])
		e.outPos += n
		e.stats.BytesOut += int64(n)
		if err != nil {
			if errors.Is(err, bitio.ErrAgain) {
				return ErrAgain
			}
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	return nil
}

func wrapRead(err error) error {
	if errors.Is(err, bitio.ErrAgain) {
		return ErrAgain
	}
	return fmt.Errorf("%w: %v", ErrRead, err)
}

func (e *DecompressEngine) handle(err error) error {
	if errors.Is(err, ErrAgain) {
		return ErrAgain
	}
	e.lastErr = err
	e.stage = dstageDone
	return err
}

// Close releases the engine's BitStream.
func (e *DecompressEngine) Close() error {
	return e.br.Close()
}

// Stats reports a snapshot of the engine's throughput counters.
func (e *DecompressEngine) Stats() Stats { return e.stats }

// LastError reports the terminal error that ended this engine, if any.
func (e *DecompressEngine) LastError() error { return e.lastErr }
