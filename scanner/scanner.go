// Package scanner recognizes preprocessor directive lines in shader source.
// It only looks at '#'-prefixed lines and splits them into a name and a
// value; it knows nothing about shader syntax.
package scanner

import "bytes"

// Directive is a (name, value) pair extracted from one source line.
type Directive struct {
	Name  string
	Value string
}

// Scan reports whether line is a directive and, if so, splits it.
//
// The name is the run of bytes after '#' up to the first space or line
// terminator. Spaces after the name are skipped and the value is the rest
// of the line, excluding '\n'. Carriage returns are left in place. Names
// and values have no length limit.
func Scan(line []byte) (Directive, bool) {
	if len(line) == 0 || line[0] != '#' {
		return Directive{}, false
	}
	if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	i := 1
	for i < len(line) && line[i] != ' ' {
		i++
	}
	name := string(line[1:i])
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return Directive{Name: name, Value: string(line[i:])}, true
}

// LineEnd returns the offset of the first '\n' at or after from, or
// len(buf) when the line runs to the end of the buffer.
func LineEnd(buf []byte, from int) int {
	if from >= len(buf) {
		return len(buf)
	}
	if i := bytes.IndexByte(buf[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(buf)
}

// LineAt returns the 1-based line number of byte offset pos.
func LineAt(buf []byte, pos int) int {
	if pos > len(buf) {
		pos = len(buf)
	}
	return bytes.Count(buf[:pos], []byte{'\n'}) + 1
}
