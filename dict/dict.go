// Package dict implements the two LZ78 dictionary shapes: an
// open-addressed hash table used while compressing, and a parent-pointer
// tree used while decompressing.
package dict

import "github.com/dsnet/golib/errs"

// Dictionary size bounds shared with package codeio. Duplicated here (rather
// than imported) to keep dict free of any dependency on the wire format.
const (
	DictSizeMin     = 260
	DictSizeDefault = 4096
	DictSizeMax     = 1 << 20
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "dict: " + string(e) }

// ErrBadCode is returned by Decompressor.Emit when the code exceeds every
// code ever assigned, i.e. the stream is corrupt.
var ErrBadCode error = Error("code exceeds assigned dictionary range")

// Entry is a single dictionary node: the one-byte edge from parent to
// child. CompressorDict and DecompressorDict each interpret it from an
// opposite direction (hash-probed by (parent, label) vs. indexed by
// child), but the shape is the same, which is what lets DualDictManager
// copy secondary entries directly into a fresh decompressor root table on
// swap.
type Entry struct {
	Parent uint32
	Label  byte
	Child  uint32
}

type compSlot struct {
	used   bool
	parent uint32
	label  byte
	child  uint32
}

// Compressor is the open-addressed hash table mapping (parent, label) to
// child code, used to drive compression. It also doubles as the
// secondary dictionary on the decompression side (see package dual),
// since shadowing there replays the decoded byte stream through the same
// sequential state machine as compression does.
type Compressor struct {
	size    int
	table   []compSlot
	dNext   uint32
	curNode uint32
	primed  bool // cur_node holds a real match, as opposed to the sentinel state
}

// NewCompressor allocates a Compressor with size root-table slots.
func NewCompressor(size int) *Compressor {
	c := &Compressor{size: size, table: make([]compSlot, size)}
	c.Reset()
	return c
}

// Reset clears every entry and returns the dictionary to its newly
// allocated state.
func (c *Compressor) Reset() {
	for i := range c.table {
		c.table[i] = compSlot{}
	}
	c.dNext = DictSizeMin
	c.primed = false
}

// DNext reports the code that will be assigned to the next inserted entry.
func (c *Compressor) DNext() uint32 { return c.dNext }

// CurNode reports the code of the match currently being absorbed. Once
// Primed reports true this is always a previously assigned code (either a
// literal byte value or a child from an earlier Extend), which is exactly
// what must be emitted as the final code when the input ends mid-match.
func (c *Compressor) CurNode() uint32 { return c.curNode }

// Primed reports whether any byte has been absorbed since construction or
// the last Reset, i.e. whether CurNode holds a real match.
func (c *Compressor) Primed() bool { return c.primed }

// SetCurNode forces the current match to label, as happens to the new main
// dictionary immediately after a dual-dictionary swap: the byte currently
// being absorbed becomes the start of a fresh match against the promoted
// secondary.
func (c *Compressor) SetCurNode(label byte) {
	c.curNode = uint32(label)
	c.primed = true
}

// UsedEntries returns every occupied slot, for seeding a fresh
// DecompressorDict root table after a swap.
func (c *Compressor) UsedEntries() []Entry {
	var out []Entry
	for _, s := range c.table {
		if s.used {
			out = append(out, Entry{Parent: s.parent, Label: s.label, Child: s.child})
		}
	}
	return out
}

// Extend absorbs label into the dictionary's current match. If the match
// extends an existing entry, it reports absorbed (emit == false) and the
// caller emits nothing. Otherwise it allocates a new entry for the
// now-broken match, reports the code of the prefix that was just matched,
// and starts a fresh match at label.
func (c *Compressor) Extend(label byte) (emit bool, code uint32) {
	if !c.primed {
		c.curNode = uint32(label)
		c.primed = true
		return false, 0
	}

	idx := c.probe(c.curNode, label)
	if c.table[idx].used {
		c.curNode = c.table[idx].child
		return false, 0
	}

	prev := c.curNode
	c.table[idx] = compSlot{used: true, parent: c.curNode, label: label, child: c.dNext}
	c.dNext++
	c.curNode = uint32(label)
	return true, prev
}

// probe locates the slot for (parent, label): either the existing entry,
// or the first empty slot on the linear probe chain starting from the
// Bernstein-style hash of the pair.
func (c *Compressor) probe(parent uint32, label byte) int {
	idx := int(bernstein(parent, label, c.size) % uint64(c.size))
	for {
		s := &c.table[idx]
		if !s.used || (s.parent == parent && s.label == label) {
			return idx
		}
		idx++
		if idx == c.size {
			idx = 0
		}
	}
}

// bernstein computes the probe hash over (label, parent): label is shifted
// left by the bit length of size and added to parent. The hash only decides
// slot layout; code numbers follow insertion order, which is all that
// encoder and decoder have to agree on.
func bernstein(parent uint32, label byte, size int) uint64 {
	shift := bitLen(size)
	return uint64(label)<<uint(shift) + uint64(parent)
}

func bitLen(n int) int {
	w := 0
	for n > 0 {
		w++
		n >>= 1
	}
	return w
}

type node struct {
	parent uint32
	label  byte
}

// Decompressor is the parent-pointer tree mapping code to (parent, label),
// used to reconstruct byte strings while decompressing.
type Decompressor struct {
	size    int
	root    []node
	dNext   uint32
	dMin    uint32
	scratch []byte
}

// NewDecompressor allocates a Decompressor with size root-table slots and a
// size-byte output scratch buffer. Codes 0..255 are pre-seeded as single-byte
// leaves.
func NewDecompressor(size int) *Decompressor {
	d := &Decompressor{size: size, root: make([]node, size), scratch: make([]byte, size)}
	for i := 0; i < 256; i++ {
		d.root[i] = node{parent: 0, label: byte(i)}
	}
	d.dNext = DictSizeMin
	d.dMin = DictSizeMin
	return d
}

// DNext reports the code that will be assigned to the next seeded entry.
func (d *Decompressor) DNext() uint32 { return d.dNext }

// Reset wipes every entry at or above DictSizeMin and returns d_next to
// DictSizeMin, without touching the pre-seeded single-byte leaves.
func (d *Decompressor) Reset() {
	for i := DictSizeMin; i < d.size; i++ {
		d.root[i] = node{}
	}
	d.dNext = DictSizeMin
	d.dMin = DictSizeMin
}

// SeedFrom copies every used entry of a promoted secondary Compressor
// directly into this dictionary's root table at the same child index, and
// adopts dNext as both d_min and d_next. This is the decompressor half of
// a dual-dictionary swap: it must be called on a freshly Reset dictionary.
func (d *Decompressor) SeedFrom(secondary *Compressor, dNext uint32) {
	d.dMin = dNext
	d.dNext = dNext
	for _, e := range secondary.UsedEntries() {
		d.root[e.Child] = node{parent: e.Parent, label: e.Label}
	}
}

// Emit decodes code into the byte string it represents. The returned slice
// aliases the dictionary's internal scratch buffer and is only valid until
// the next call to Emit or Reset.
//
// Labels are written from the high end of the scratch buffer toward the
// low end while walking the parent chain from code down to its literal
// leaf, which produces the string in the correct left-to-right order without an
// explicit reverse pass: scratch[offset:] is exactly that string once the
// walk completes.
func (d *Decompressor) Emit(code uint32) (data []byte, err error) {
	defer errs.Recover(&err)
	errs.Assert(code < d.dNext, ErrBadCode)

	// The KwK corner case: code names the entry seeded by the previous
	// call, whose label has not been back-patched yet. Its string is
	// exactly the string of its parent followed by that string's own
	// first byte, so walk the parent's chain and append that first byte
	// once the walk has produced it, rather than prepending it.
	kwk := code == d.dNext-1 && d.dNext > d.dMin
	walk := code
	if kwk {
		walk = d.root[code].parent
	}

	end := d.size
	if kwk {
		end--
	}

	offset := end
	c := walk
	for c >= 256 {
		n := d.root[c]
		offset--
		d.scratch[offset] = n.label
		c = n.parent
	}
	offset--
	leaf := byte(c)
	d.scratch[offset] = leaf

	if kwk {
		d.scratch[end] = leaf
	}
	data = d.scratch[offset:d.size]

	if d.dNext > d.dMin {
		d.root[d.dNext-1].label = data[0]
	}
	if int(d.dNext) < d.size {
		d.root[d.dNext] = node{parent: code, label: 0}
	}
	d.dNext++

	return data, nil
}
