package shader

import (
	"fmt"
	"os"
	"strings"
)

// Load reads a shader file, normalizes CRLF line endings and routes it.
// Undetermined language or stage is returned as an error wrapping
// ErrUndeterminedLanguage or ErrUndeterminedStage.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src := NewSource(path, NormalizeNewlines(string(data)))
	if src.Language == Undetermined {
		return nil, fmt.Errorf("%s: %w", path, ErrUndeterminedLanguage)
	}
	if src.Stage == Undetermined {
		return nil, fmt.Errorf("%s: %w", path, ErrUndeterminedStage)
	}
	return src, nil
}

// NormalizeNewlines rewrites every "\r\n" pair to "\n". Lone carriage
// returns are kept.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r\n") {
		return s
	}
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
