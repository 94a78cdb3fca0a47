package packager

import (
	"fmt"
	"strings"
)

// srcWriter manages indented source output for the generators.
type srcWriter struct {
	sb     strings.Builder
	indent int
}

// Linef writes an indented, formatted line with a trailing newline.
func (w *srcWriter) Linef(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line != "" {
		w.sb.WriteString(strings.Repeat("\t", w.indent))
	}
	w.sb.WriteString(line)
	w.sb.WriteByte('\n')
}

// Blank writes an empty line.
func (w *srcWriter) Blank() { w.sb.WriteByte('\n') }

// Indent increases the indentation level.
func (w *srcWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *srcWriter) Dedent() { w.indent-- }

// Bytes writes data as rows of comma-separated hex literals.
func (w *srcWriter) Bytes(data []byte, perRow int) {
	for i := 0; i < len(data); i += perRow {
		end := min(i+perRow, len(data))
		parts := make([]string, 0, end-i)
		for _, b := range data[i:end] {
			parts = append(parts, fmt.Sprintf("0x%02x", b))
		}
		w.Linef("%s,", strings.Join(parts, ", "))
	}
}

// String returns the accumulated output.
func (w *srcWriter) String() string { return w.sb.String() }
