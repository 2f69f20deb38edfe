package codeio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/evilaliv3/lz78/bitio"
)

type flakyDevice struct {
	buf     *bytes.Buffer
	reads   int
	writes  int
	blockOn map[int]bool
}

func (d *flakyDevice) Read(p []byte) (int, error) {
	d.reads++
	if d.blockOn[d.reads] {
		return 0, bitio.ErrAgain
	}
	return d.buf.Read(p)
}

func (d *flakyDevice) Write(p []byte) (int, error) {
	d.writes++
	if d.blockOn[d.writes] {
		return 0, bitio.ErrAgain
	}
	return d.buf.Write(p)
}

func TestWidthMatchesSpecBoundaries(t *testing.T) {
	if StartWidth != 9 {
		t.Fatalf("StartWidth = %d, want 9", StartWidth)
	}
	if SizeWidth != 21 {
		t.Fatalf("SizeWidth = %d, want 21", SizeWidth)
	}
}

func TestWidthGrowsAtPowersOfTwo(t *testing.T) {
	cases := []struct {
		dNext uint32
		want  int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{256, 8},
		{257, 9},
		{512, 9},
		{513, 10},
	}
	for _, c := range cases {
		if got := Width(c.dNext); got != c.want {
			t.Errorf("Width(%d) = %d, want %d", c.dNext, got, c.want)
		}
	}
}

func TestCodeWriterReaderRoundTrip(t *testing.T) {
	dev := &flakyDevice{buf: new(bytes.Buffer)}
	bs, err := bitio.Open(dev, bitio.DirWrite, 64)
	if err != nil {
		t.Fatalf("Open write: %v", err)
	}
	w := NewCodeWriter(bs)

	codes := []struct {
		code  uint32
		width int
	}{
		{CodeStart, StartWidth},
		{DictSizeDefault, SizeWidth},
		{'A', 9},
		{300, 9},
		{CodeEOF, 9},
	}
	for _, c := range codes {
		for {
			done, err := w.Emit(c.code, c.width)
			if err != nil {
				t.Fatalf("Emit(%d, %d): %v", c.code, c.width, err)
			}
			if done {
				break
			}
		}
	}
	if err := bs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rdev := &flakyDevice{buf: bytes.NewBuffer(dev.buf.Bytes())}
	rbs, err := bitio.Open(rdev, bitio.DirRead, 64)
	if err != nil {
		t.Fatalf("Open read: %v", err)
	}
	r := NewCodeReader(rbs)

	for _, c := range codes {
		var got uint32
		for {
			code, done, err := r.Decode(c.width)
			if err != nil {
				t.Fatalf("Decode(%d): %v", c.width, err)
			}
			if done {
				got = code
				break
			}
		}
		if got != c.code {
			t.Fatalf("Decode = %d, want %d", got, c.code)
		}
	}
}

func TestCodeWriterResumesAcrossWouldBlock(t *testing.T) {
	// Call 1 is bitio.Open's zero-length probe; call 2 is the first flush.
	dev := &flakyDevice{buf: new(bytes.Buffer), blockOn: map[int]bool{2: true}}
	bs, err := bitio.Open(dev, bitio.DirWrite, 8) // one-byte buffer to force multiple Write calls
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w := NewCodeWriter(bs)

	tries := 0
	for {
		tries++
		done, err := w.Emit(0x1a5, 12)
		if err != nil && !errors.Is(err, bitio.ErrAgain) {
			t.Fatalf("Emit: %v", err)
		}
		if done {
			break
		}
		if tries > 100 {
			t.Fatalf("Emit never completed")
		}
	}
}
