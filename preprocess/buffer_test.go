package preprocess

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferWalksLines(t *testing.T) {
	b := NewBuffer("one\ntwo\nthree")
	var lines []string
	for !b.AtEOF() {
		b.NextLine()
		lines = append(lines, string(b.Line()))
		b.Advance()
	}
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestSpliceShorterKeepsOffsets(t *testing.T) {
	src := "#include <long.h>\nline2\nline3\n"
	b := NewBuffer(src)
	b.NextLine()
	before := strings.Index(src, "line2")

	b.Splice([]byte("ab"))

	raw := b.Bytes()
	assert.Len(t, raw, len(src))
	assert.Equal(t, before, bytes.Index(raw, []byte("line2")))
	assert.Equal(t, bytes.Count([]byte(src), []byte("\n")), bytes.Count(raw, []byte("\n")))
	assert.Equal(t, "ab"+strings.Repeat(" ", 15)+"\nline2\nline3\n", string(raw))
	assert.Equal(t, "ab\nline2\nline3\n", b.Text())
}

func TestSpliceLongerShiftsTail(t *testing.T) {
	src := "#x\nline2\nline3"
	b := NewBuffer(src)
	b.NextLine()
	before := strings.Index(src, "line2")

	frag := "aaaa\nbbbb"
	b.Splice([]byte(frag))

	raw := b.Bytes()
	delta := len(frag) - len("#x")
	assert.Len(t, raw, len(src)+delta)
	assert.Equal(t, before+delta, bytes.Index(raw, []byte("line2")))
	assert.Equal(t, "aaaa\nbbbb\nline2\nline3", string(raw))
}

func TestSpliceRewindsCursor(t *testing.T) {
	b := NewBuffer("keep\n#x\nrest\n")
	b.NextLine()
	b.Advance()
	b.NextLine()
	require.Equal(t, "#x", string(b.Line()))
	start := b.LineStart()

	b.Splice([]byte("new1\nnew2"))
	assert.Equal(t, start-1, b.LineEnd())

	b.Advance()
	b.NextLine()
	assert.Equal(t, start, b.LineStart())
	assert.Equal(t, "new1", string(b.Line()))
}

func TestSpliceNeverTouchesPrecedingText(t *testing.T) {
	b := NewBuffer("#version 450\n#x\n")
	b.NextLine()
	b.Advance()
	b.NextLine()
	b.Splice([]byte(strings.Repeat("y", 64)))
	assert.True(t, bytes.HasPrefix(b.Bytes(), []byte("#version 450\n")))
}

func TestSpliceToEmptyLeavesNewline(t *testing.T) {
	b := NewBuffer("a\n#version 460\nb\n")
	b.NextLine()
	b.Advance()
	b.NextLine()
	b.Splice(nil)
	assert.Equal(t, "a\n"+strings.Repeat(" ", len("#version 460"))+"\nb\n", string(b.Bytes()))
	assert.Equal(t, "a\n\nb\n", b.Text())

	b.Advance()
	b.NextLine()
	assert.Empty(t, b.Line())
}

func TestSpliceLastLineWithoutNewline(t *testing.T) {
	b := NewBuffer("#include <x.h>")
	b.NextLine()
	b.Splice([]byte("a\nb"))
	assert.Equal(t, "a\nb", b.Text())
	assert.Len(t, b.Bytes(), len("#include <x.h>"))
}

func TestSpliceGrowShiftsPadding(t *testing.T) {
	b := NewBuffer("#include <long-name.h>\ntail\n")
	b.NextLine()
	b.Splice([]byte("#i\nX\n"))

	b.Advance()
	b.NextLine()
	require.Equal(t, "#i", string(b.Line()))
	b.Splice([]byte("1234567"))

	assert.Equal(t, "1234567\nX\n\ntail\n", b.Text())

	var lines []string
	b.Advance()
	for !b.AtEOF() {
		b.NextLine()
		lines = append(lines, string(b.Line()))
		b.Advance()
	}
	assert.Equal(t, []string{"1234567", "X", "", "tail"}, lines)
}

func TestSpliceOverPaddedLine(t *testing.T) {
	b := NewBuffer("#include <abcdef.h>\n")
	b.NextLine()
	b.Splice([]byte("#v"))

	b.Advance()
	b.NextLine()
	require.Equal(t, "#v", string(b.Line()))
	b.Splice([]byte("0123456789012345678901"))

	assert.Equal(t, "0123456789012345678901\n", b.Text())
	assert.Equal(t, b.Text(), string(b.Bytes()))
}
