package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		ok    bool
		dname string
		value string
	}{
		{"version", "#version 450 core\n", true, "version", "450 core"},
		{"include angle", "#include <common.glsl>", true, "include", "<common.glsl>"},
		{"extra spaces", "#define    FOO 1\n", true, "define", "FOO 1"},
		{"no value", "#endif\n", true, "endif", ""},
		{"bare hash", "#\n", true, "", ""},
		{"carriage return kept", "#version 330\r\n", true, "version", "330\r"},
		{"tab is part of name", "#pragma\tonce", true, "pragma\tonce", ""},
		{"indented", "  #version 450\n", false, "", ""},
		{"plain code", "void main() {}\n", false, "", ""},
		{"empty", "", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Scan([]byte(tt.line))
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.dname, d.Name)
			assert.Equal(t, tt.value, d.Value)
		})
	}
}

func TestScanStopsAtNewline(t *testing.T) {
	d, ok := Scan([]byte("#version 450\nvoid main() {}\n"))
	require.True(t, ok)
	assert.Equal(t, "450", d.Value)
}

func TestScanDoesNotTruncate(t *testing.T) {
	name := strings.Repeat("n", 200)
	value := "<" + strings.Repeat("dir/", 300) + "x.h>"
	d, ok := Scan([]byte("#" + name + " " + value + "\n"))
	require.True(t, ok)
	assert.Equal(t, name, d.Name)
	assert.Equal(t, value, d.Value)
}

func TestLineEnd(t *testing.T) {
	buf := []byte("ab\ncd")
	assert.Equal(t, 2, LineEnd(buf, 0))
	assert.Equal(t, 2, LineEnd(buf, 2))
	assert.Equal(t, 5, LineEnd(buf, 3))
	assert.Equal(t, 5, LineEnd(buf, 5))
	assert.Equal(t, 5, LineEnd(buf, 9))
}

func TestLineAt(t *testing.T) {
	buf := []byte("a\nb\nc")
	assert.Equal(t, 1, LineAt(buf, 0))
	assert.Equal(t, 2, LineAt(buf, 2))
	assert.Equal(t, 3, LineAt(buf, 4))
	assert.Equal(t, 3, LineAt(buf, 99))
}
