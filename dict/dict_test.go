package dict

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompressorAbsorbAndEmit(t *testing.T) {
	c := NewCompressor(300)

	emit, _ := c.Extend('A')
	if emit {
		t.Fatalf("first byte should absorb, not emit")
	}

	emit, code := c.Extend('B')
	if !emit || code != uint32('A') {
		t.Fatalf("expected emit('A'), got emit=%v code=%d", emit, code)
	}
	if c.DNext() != DictSizeMin+1 {
		t.Fatalf("DNext = %d, want %d", c.DNext(), DictSizeMin+1)
	}

	// Re-absorb the same pair: should hit the entry just inserted.
	c2 := NewCompressor(300)
	c2.Extend('A')
	c2.Extend('B') // emits 'A', inserts (parent='A', label='B', child=260)
	c2.Extend('A')
	emit, code = c2.Extend('B') // cur_node='A' then label='B' should hit slot 260
	if emit {
		t.Fatalf("AB should have been absorbed via the existing entry")
	}
	if code != 0 {
		t.Fatalf("absorbed Extend should report code 0, got %d", code)
	}
}

func TestCompressorNoHashCollisionAliasing(t *testing.T) {
	c := NewCompressor(DictSizeMin + 10)
	// Insert several distinct (parent, label) pairs and verify DNext tracks
	// exactly one increment per inserted entry.
	c.Extend(0)
	want := DictSizeMin
	for _, b := range []byte{1, 2, 3, 0, 1, 2} {
		emit, _ := c.Extend(b)
		if emit {
			want++
		}
	}
	if int(c.DNext()) != want {
		t.Fatalf("DNext = %d, want %d", c.DNext(), want)
	}
}

func TestDecompressorLiteralBytes(t *testing.T) {
	d := NewDecompressor(1000)
	for i := 0; i < 256; i++ {
		data, err := roundtripEmit(d, uint32(i))
		if err != nil {
			t.Fatalf("Emit(%d): %v", i, err)
		}
		if len(data) != 1 || data[0] != byte(i) {
			t.Fatalf("Emit(%d) = %v, want [%d]", i, data, i)
		}
	}
}

// roundtripEmit copies out Emit's result since it aliases internal scratch.
func roundtripEmit(d *Decompressor, code uint32) ([]byte, error) {
	data, err := d.Emit(code)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func TestCompressorUsedEntriesMatchInsertionOrder(t *testing.T) {
	c := NewCompressor(DictSizeMin + 10)
	c.Extend('A')
	c.Extend('B') // inserts (parent='A', label='B', child=DictSizeMin)
	c.Extend('C') // inserts (parent='B', label='C', child=DictSizeMin+1)

	want := []Entry{
		{Parent: 'A', Label: 'B', Child: DictSizeMin},
		{Parent: 'B', Label: 'C', Child: DictSizeMin + 1},
	}
	got := c.UsedEntries()
	if diff := cmp.Diff(want, got, cmpEntriesSortedByChild); diff != "" {
		t.Fatalf("UsedEntries() mismatch (-want +got):\n%s", diff)
	}
}

// cmpEntriesSortedByChild orders by Child before comparing, since
// UsedEntries walks the hash table in slot order rather than insertion
// order.
var cmpEntriesSortedByChild = cmp.Transformer("sortByChild", func(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Child > out[j].Child; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
})

func TestDecompressorKwKCompletion(t *testing.T) {
	d := NewDecompressor(1000)
	// Decoding code 65 ('A') seeds entry DictSizeMin with parent=65 and no
	// label yet, so DNext-1 == DictSizeMin. Decoding DictSizeMin right
	// after that is the classic KwK case: its string is "A" followed by
	// its own first byte.
	if _, err := roundtripEmit(d, 'A'); err != nil {
		t.Fatal(err)
	}
	data, err := roundtripEmit(d, DictSizeMin)
	if err != nil {
		t.Fatalf("Emit(DictSizeMin): %v", err)
	}
	if len(data) != 2 || data[0] != 'A' || data[1] != 'A' {
		t.Fatalf("KwK completion = %q, want \"AA\"", data)
	}
}
