package lz78

import (
	"errors"
	"fmt"
	"io"

	"github.com/evilaliv3/lz78/bitio"
	"github.com/evilaliv3/lz78/codeio"
	"github.com/evilaliv3/lz78/dual"
)

type compressStage int

const (
	stagePreamble compressStage = iota
	stageData
	stageEOF
	stageFlush
	stageDone
)

type codeWidth struct {
	code  uint32
	width int
}

// CompressEngine drives byte-in, code-out compression one resumable step
// at a time. Every call to Compress may return ErrAgain, in which case all
// engine state -- the dual dictionary, any code still being flushed to the
// bit stream -- is preserved, and the caller simply invokes Compress again
// once the source or sink is ready.
type CompressEngine struct {
	src   io.Reader
	bw    *bitio.Stream
	cw    *codeio.CodeWriter
	pair  *dual.CompressorPair
	dSize int

	queue []codeWidth
	stage compressStage

	stats   Stats
	lastErr error
}

// NewCompressEngine allocates a compressor reading raw input bytes from
// src and writing the bit-packed code stream to sink. cfg.Mode must be
// ModeCompress.
func NewCompressEngine(cfg Config, src io.Reader, sink bitio.Device) (*CompressEngine, error) {
	if cfg.Mode != ModeCompress {
		return nil, ErrMode
	}
	bw, err := bitio.Open(sink, bitio.DirWrite, cfg.bufCapacity())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}
	dSize := clampDictSize(cfg.DictSize)
	return &CompressEngine{
		src:   src,
		bw:    bw,
		cw:    codeio.NewCodeWriter(bw),
		pair:  dual.NewCompressorPair(dSize),
		dSize: dSize,
		stage: stagePreamble,
	}, nil
}

// Compress advances compression as far as it can in one call, returning
// nil once the STOP sentinel and trailing padding have been flushed.
func (e *CompressEngine) Compress() error {
	if e.lastErr != nil {
		return e.lastErr
	}

	for {
		switch e.stage {
		case stageDone:
			return nil

		case stagePreamble:
			if err := e.drain(); err != nil {
				return e.handle(err)
			}
			e.queue = append(e.queue,
				codeWidth{codeio.CodeStart, codeio.StartWidth},
				codeWidth{uint32(e.dSize), codeio.SizeWidth},
			)
			e.stage = stageData

		case stageData:
			if err := e.drain(); err != nil {
				return e.handle(err)
			}

			var b [1]byte
			n, err := e.src.Read(b[:])
			if n == 0 {
				switch {
				case errors.Is(err, io.EOF):
					e.stage = stageEOF
					continue
				case errors.Is(err, bitio.ErrAgain):
					return ErrAgain
				case err != nil:
					return e.handle(fmt.Errorf("%w: %v", ErrRead, err))
				default:
					return ErrAgain
				}
			}

			e.stats.BytesIn++
			emit, code, width, swapped := e.pair.Extend(b[0])
			if swapped {
				e.stats.Swaps++
			}
			if emit {
				e.queue = append(e.queue, codeWidth{code, width})
			}

		case stageEOF:
			if err := e.drain(); err != nil {
				return e.handle(err)
			}
			w := e.currentWidth()
			if e.pair.Main.Primed() {
				// The EOF marker behaves like a label extend can never
				// match, so it always breaks the in-progress entry and
				// forces one more allocation -- emit the match that was
				// still open, then widen for the sentinels exactly as
				// that phantom allocation would have.
				e.queue = append(e.queue, codeWidth{e.pair.Main.CurNode(), w})
				w = codeio.Width(e.pair.Main.DNext() + 1)
			}
			e.queue = append(e.queue,
				codeWidth{codeio.CodeEOF, w},
				codeWidth{codeio.CodeStop, w},
			)
			e.stage = stageFlush

		case stageFlush:
			if err := e.drain(); err != nil {
				return e.handle(err)
			}
			if err := e.bw.Close(); err != nil {
				if errors.Is(err, bitio.ErrAgain) {
					return ErrAgain
				}
				return e.handle(fmt.Errorf("%w: %v", ErrWrite, err))
			}
			e.stage = stageDone
			return nil
		}
	}
}

// currentWidth is the width that applies to a code emitted right now,
// without any further dictionary allocation -- used for the EOF and STOP
// sentinels, which never insert an entry.
func (e *CompressEngine) currentWidth() int {
	return codeio.Width(e.pair.Main.DNext())
}

// drain flushes every code queued ahead of the current stage to the bit
// stream, stopping only once the queue is empty or the stream can't make
// progress right now.
func (e *CompressEngine) drain() error {
	for len(e.queue) > 0 {
		done, err := e.cw.Emit(e.queue[0].code, e.queue[0].width)
		if err != nil {
			if errors.Is(err, bitio.ErrAgain) {
				return ErrAgain
			}
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		if !done {
			continue
		}
		e.stats.CodesOut++
		e.queue = e.queue[1:]
	}
	return nil
}

func (e *CompressEngine) handle(err error) error {
	if errors.Is(err, ErrAgain) {
		return ErrAgain
	}
	e.lastErr = err
	e.stage = stageDone
	return err
}

// Close releases the engine's BitStream, flushing any remaining buffered
// bytes. It is safe to call after Compress has already completed.
func (e *CompressEngine) Close() error {
	return e.bw.Close()
}

// Stats reports a snapshot of the engine's throughput counters.
func (e *CompressEngine) Stats() Stats { return e.stats }

// LastError reports the terminal error that ended this engine, if any.
func (e *CompressEngine) LastError() error { return e.lastErr }
