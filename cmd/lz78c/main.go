// Command lz78c compresses or decompresses a file using the lz78 package.
// Argument parsing, file opening, and the would-block retry loop are
// explicitly outside the lz78 package itself; this command is just one
// possible caller.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/evilaliv3/lz78/lz78"
)

func main() {
	decompress := flag.Bool("d", false, "decompress instead of compress")
	dictSize := flag.String("size", "", "main dictionary size, e.g. 4096 or 1M (compress only)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: lz78c [-d] [-size N] <input> <output>\n")
		os.Exit(2)
	}
	in, out := flag.Arg(0), flag.Arg(1)

	src, err := os.Open(in)
	if err != nil {
		log.Fatalf("lz78c: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		log.Fatalf("lz78c: %v", err)
	}
	defer dst.Close()

	if *decompress {
		if err := runDecompress(src, dst); err != nil {
			log.Fatalf("lz78c: %v", err)
		}
		return
	}
	if err := runCompress(src, dst, lz78.ParseSize(*dictSize)); err != nil {
		log.Fatalf("lz78c: %v", err)
	}
}

func runCompress(src *os.File, dst *os.File, dictSize int) error {
	cfg := lz78.Config{Mode: lz78.ModeCompress, DictSize: dictSize}
	ce, err := lz78.NewCompressEngine(cfg, src, dst)
	if err != nil {
		return err
	}
	return retry(ce.Compress)
}

func runDecompress(src *os.File, dst *os.File) error {
	cfg := lz78.Config{Mode: lz78.ModeDecompress}
	de, err := lz78.NewDecompressEngine(cfg, src, dst)
	if err != nil {
		return err
	}
	return retry(de.Decompress)
}

// retry re-invokes step until it reports completion or a terminal error,
// backing off briefly whenever the engine reports ErrAgain. A real caller
// driven by a poller (epoll, kqueue) would instead re-invoke step once its
// readiness notification fires; this is simply the simplest retry policy
// that respects the engine's cooperative suspension contract.
func retry(step func() error) error {
	for {
		err := step()
		if err == nil {
			return nil
		}
		if errors.Is(err, lz78.ErrAgain) {
			time.Sleep(time.Millisecond)
			continue
		}
		return err
	}
}
