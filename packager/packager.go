// Package packager serializes a batch of compiled shaders into a source
// file that can be linked into a program: a C translation unit or a Go
// file.
package packager

import (
	"fmt"
	"go/format"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

// Format selects the generated language.
type Format int

const (
	FormatC Format = iota
	FormatGo
)

// FormatFor picks the format from an output filename: ".go" gives Go,
// anything else C.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".go") {
		return FormatGo
	}
	return FormatC
}

// Entry is one shader payload. WordCount is zero for text payloads.
type Entry struct {
	Name      string
	Stage     string
	Payload   []byte
	WordCount int
}

// Options tunes the generated file.
type Options struct {
	Format Format
	// Package is the Go package name, "shaders" when empty.
	Package string
	// Symbol prefixes C identifiers, "rgsl" when empty.
	Symbol string
}

const bytesPerRow = 12

// Write renders entries to w.
func Write(w io.Writer, entries []Entry, opts Options) error {
	var src string
	switch opts.Format {
	case FormatGo:
		out, err := goSource(entries, opts)
		if err != nil {
			return err
		}
		src = out
	default:
		src = cSource(entries, opts)
	}
	_, err := io.WriteString(w, src)
	return err
}

func cSource(entries []Entry, opts Options) string {
	prefix := opts.Symbol
	if prefix == "" {
		prefix = "rgsl"
	}
	var w srcWriter
	w.Linef("/* Code generated by rgsl. DO NOT EDIT. */")
	w.Blank()
	w.Linef("#include <stddef.h>")
	w.Blank()

	symbols := cSymbols(entries, prefix)
	for i, e := range entries {
		w.Linef("static const unsigned char %s[] = {", symbols[i])
		w.Indent()
		w.Bytes(e.Payload, bytesPerRow)
		w.Dedent()
		w.Linef("};")
		w.Blank()
	}

	w.Linef("struct %s_shader_blob {", prefix)
	w.Indent()
	w.Linef("const char *name;")
	w.Linef("const char *stage;")
	w.Linef("const unsigned char *data;")
	w.Linef("size_t size;")
	w.Linef("size_t word_count;")
	w.Dedent()
	w.Linef("};")
	w.Blank()
	w.Linef("const struct %s_shader_blob %s_shaders[] = {", prefix, prefix)
	w.Indent()
	for i, e := range entries {
		w.Linef("{%q, %q, %s, sizeof(%s), %d},", e.Name, e.Stage, symbols[i], symbols[i], e.WordCount)
	}
	w.Linef("{NULL, NULL, NULL, 0, 0}")
	w.Dedent()
	w.Linef("};")
	return w.String()
}

// cSymbols names each entry's array. Inputs from different directories or
// extensions can share a name and stage, so a repeated symbol gets the
// first free "_<n>" suffix.
func cSymbols(entries []Entry, prefix string) []string {
	taken := make(map[string]bool, len(entries))
	symbols := make([]string, len(entries))
	for i, e := range entries {
		base := Identifier(fmt.Sprintf("%s_shader_%s_%s", prefix, e.Name, e.Stage))
		sym := base
		for n := 1; taken[sym]; n++ {
			sym = fmt.Sprintf("%s_%d", base, n)
		}
		taken[sym] = true
		symbols[i] = sym
	}
	return symbols
}

func goSource(entries []Entry, opts Options) (string, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "shaders"
	}
	var w srcWriter
	w.Linef("// Code generated by rgsl. DO NOT EDIT.")
	w.Blank()
	w.Linef("package %s", pkg)
	w.Blank()
	w.Linef("// Shader is one embedded shader payload.")
	w.Linef("type Shader struct {")
	w.Linef("Name string")
	w.Linef("Stage string")
	w.Linef("WordCount int")
	w.Linef("Data []byte")
	w.Linef("}")
	w.Blank()
	w.Linef("// Shaders lists the embedded shaders in input order.")
	w.Linef("var Shaders = []Shader{")
	for _, e := range entries {
		w.Linef("{")
		w.Linef("Name: %q,", e.Name)
		w.Linef("Stage: %q,", e.Stage)
		w.Linef("WordCount: %d,", e.WordCount)
		w.Linef("Data: []byte{")
		w.Bytes(e.Payload, bytesPerRow)
		w.Linef("},")
		w.Linef("},")
	}
	w.Linef("}")

	formatted, err := format.Source([]byte(w.String()))
	if err != nil {
		return "", fmt.Errorf("formatting generated Go: %w", err)
	}
	return string(formatted), nil
}

// Identifier turns s into a valid C or Go identifier.
func Identifier(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r) && r < unicode.MaxASCII:
			sb.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
