package preprocess

import (
	"maps"
	"slices"

	"github.com/rubiojr/rgsl/scanner"
)

// Buffer is the working text of one preprocessing pass. It owns its bytes
// and tracks the current line as byte offsets, so a reallocation on growth
// never invalidates the cursor.
//
// A shorter replacement is padded with spaces to keep every later offset
// stable. Padding is always a suffix of a physical line; the buffer records
// it per line end so Line can hide it from the scanner and Text can drop it
// from the final output.
type Buffer struct {
	data      []byte
	cursor    int
	lineStart int
	lineEnd   int
	filler    map[int]int // line end offset -> padding bytes right before it
}

// NewBuffer copies src into a fresh buffer positioned at the first line.
func NewBuffer(src string) *Buffer {
	return &Buffer{
		data:   []byte(src),
		filler: make(map[int]int),
	}
}

// AtEOF reports whether the cursor has reached the end of the text.
func (b *Buffer) AtEOF() bool { return b.cursor >= len(b.data) }

// NextLine selects the physical line starting at the cursor.
func (b *Buffer) NextLine() {
	b.lineStart = b.cursor
	b.lineEnd = scanner.LineEnd(b.data, b.cursor)
}

// Line returns the current line without its terminator and without any
// padding left by an earlier splice.
func (b *Buffer) Line() []byte {
	end := b.lineEnd - b.filler[b.lineEnd]
	if end < b.lineStart {
		end = b.lineStart
	}
	return b.data[b.lineStart:end]
}

// LineStart is the offset of the current line.
func (b *Buffer) LineStart() int { return b.lineStart }

// LineEnd is the offset of the current line's terminator, or len when the
// line is the last one. After a splice it sits one byte before LineStart.
func (b *Buffer) LineEnd() int { return b.lineEnd }

// Advance moves the cursor past the current line.
func (b *Buffer) Advance() {
	if b.lineEnd >= len(b.data) {
		b.cursor = len(b.data)
		return
	}
	b.cursor = b.lineEnd + 1
}

// Splice replaces the current line's byte range [LineStart, LineEnd) with
// fragment. The terminator and everything after it are preserved. A shorter
// fragment is padded with spaces in place; a longer one grows the buffer and
// shifts the tail forward by the difference.
//
// Afterwards LineEnd is rewound to LineStart-1, so the next Advance lands on
// the first byte of fragment and the replacement is scanned again.
func (b *Buffer) Splice(fragment []byte) {
	start, end := b.lineStart, b.lineEnd
	orig := end - start
	repl := len(fragment)

	delete(b.filler, end)
	if repl <= orig {
		copy(b.data[start:], fragment)
		for i := start + repl; i < end; i++ {
			b.data[i] = ' '
		}
		if orig > repl {
			b.filler[end] = orig - repl
		}
	} else {
		delta := repl - orig
		tail := len(b.data) - end
		b.data = slices.Grow(b.data, delta)[:len(b.data)+delta]
		copy(b.data[end+delta:], b.data[end:end+tail])
		copy(b.data[start:], fragment)
		b.shiftFiller(end, delta)
	}
	b.lineEnd = start - 1
}

// shiftFiller moves padding records past from by delta bytes.
func (b *Buffer) shiftFiller(from, delta int) {
	if len(b.filler) == 0 {
		return
	}
	shifted := make(map[int]int, len(b.filler))
	for at, n := range b.filler {
		if at > from {
			at += delta
		}
		shifted[at] = n
	}
	b.filler = shifted
}

// Bytes returns the raw buffer, padding included. Offsets in it match the
// offsets the pass worked with.
func (b *Buffer) Bytes() []byte { return b.data }

// Text returns the buffer with splice padding removed.
func (b *Buffer) Text() string {
	if len(b.filler) == 0 {
		return string(b.data)
	}
	out := make([]byte, 0, len(b.data))
	prev := 0
	for _, at := range slices.Sorted(maps.Keys(b.filler)) {
		from := at - b.filler[at]
		if from < prev {
			from = prev
		}
		out = append(out, b.data[prev:from]...)
		prev = at
	}
	out = append(out, b.data[prev:]...)
	return string(out)
}
