// Command lz78bench compares the lz78 codec's compression ratio and
// throughput against a couple of well-known general-purpose codecs on
// synthetic data, in the spirit of dsnet/compress's own codec-comparison
// benchmark tool.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dsnet/golib/strconv"
	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz"

	"github.com/evilaliv3/lz78/internal/testutil"
	"github.com/evilaliv3/lz78/lz78"
)

type codec struct {
	name   string
	encode func(dst io.Writer, src []byte) error
	decode func(dst io.Writer, src []byte) error
}

func lz78Encode(dst io.Writer, src []byte) error {
	ce, err := lz78.NewCompressEngine(lz78.Config{Mode: lz78.ModeCompress}, bytes.NewReader(src), writeOnlyDevice{dst})
	if err != nil {
		return err
	}
	return retry(ce.Compress)
}

func lz78Decode(dst io.Writer, src []byte) error {
	de, err := lz78.NewDecompressEngine(lz78.Config{Mode: lz78.ModeDecompress}, readOnlyDevice{bytes.NewReader(src)}, dst)
	if err != nil {
		return err
	}
	return retry(de.Decompress)
}

// writeOnlyDevice and readOnlyDevice adapt a one-directional byte stream
// to the Read-and-Write bitio.Device shape the engines expect, mirroring
// how a real file descriptor always exposes both syscalls regardless of
// the mode it was opened in. The unused half is never actually called by
// a Stream opened in the matching direction.
type writeOnlyDevice struct{ io.Writer }

func (writeOnlyDevice) Read(p []byte) (int, error) { return 0, io.EOF }

type readOnlyDevice struct{ io.Reader }

func (readOnlyDevice) Write(p []byte) (int, error) { return len(p), nil }

func retry(step func() error) error {
	for {
		err := step()
		if err == nil {
			return nil
		}
		if errors.Is(err, lz78.ErrAgain) {
			continue
		}
		return err
	}
}

func flateEncode(dst io.Writer, src []byte) error {
	w, err := flate.NewWriter(dst, flate.DefaultCompression)
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		return err
	}
	return w.Close()
}

func flateDecode(dst io.Writer, src []byte) error {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	_, err := io.Copy(dst, r)
	return err
}

func xzEncode(dst io.Writer, src []byte) error {
	w, err := xz.NewWriter(dst)
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		return err
	}
	return w.Close()
}

func xzDecode(dst io.Writer, src []byte) error {
	r, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, r)
	return err
}

var codecs = []codec{
	{"lz78", lz78Encode, lz78Decode},
	{"flate", flateEncode, flateDecode},
	{"xz", xzEncode, xzDecode},
}

func main() {
	size := flag.Int("size", 1<<20, "synthetic input size in bytes")
	flag.Parse()

	input := testutil.GenerateRepeats(0, *size)
	fmt.Printf("input: %s\n\n", strconv.FormatPrefix(float64(len(input)), strconv.Base1024, 2))

	for _, c := range codecs {
		var compressed bytes.Buffer
		start := time.Now()
		if err := c.encode(&compressed, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s: encode: %v\n", c.name, err)
			continue
		}
		encDur := time.Since(start)

		var decompressed bytes.Buffer
		start = time.Now()
		if err := c.decode(&decompressed, compressed.Bytes()); err != nil {
			fmt.Fprintf(os.Stderr, "%s: decode: %v\n", c.name, err)
			continue
		}
		decDur := time.Since(start)

		ok := bytes.Equal(decompressed.Bytes(), input)
		encRate := float64(len(input)) / encDur.Seconds()
		decRate := float64(len(input)) / decDur.Seconds()
		fmt.Printf("%-6s ratio=%.3f enc=%s/s dec=%s/s roundtrip-ok=%v\n",
			c.name,
			float64(compressed.Len())/float64(len(input)),
			strconv.FormatPrefix(encRate, strconv.Base1024, 2),
			strconv.FormatPrefix(decRate, strconv.Base1024, 2),
			ok,
		)
	}
}
