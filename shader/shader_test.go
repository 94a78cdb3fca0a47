package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineLanguage(t *testing.T) {
	tests := []struct {
		filename string
		want     Language
	}{
		{"shaders/lit.frag", LanguageGLSL},
		{"common.glsl", LanguageGLSL},
		{"a.vs", LanguageGLSL},
		{"a.te", LanguageGLSL},
		{"post.rfrag", LanguageRGSL},
		{"lib.rgsl", LanguageRGSL},
		{"a.rte", LanguageRGSL},
		{"a.txt", Undetermined},
		{"Makefile", Undetermined},
		{"a.FRAG", Undetermined},
		{"a.frag.bak", Undetermined},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineLanguage(tt.filename))
		})
	}
}

func TestDetermineStage(t *testing.T) {
	tests := []struct {
		filename string
		want     Stage
	}{
		{"a.vert", StageVertex},
		{"a.vs", StageVertex},
		{"a.frag", StageFragment},
		{"a.fs", StageFragment},
		{"a.geom", StageGeometry},
		{"a.gs", StageGeometry},
		{"a.comp", StageCompute},
		{"a.cs", StageCompute},
		{"a.tesc", StageTessControl},
		{"a.tc", StageTessControl},
		{"a.tese", StageTessEvaluation},
		{"a.te", StageTessEvaluation},
		{"a.rvert", StageVertex},
		{"a.rcomp", StageCompute},
		{"a.rte", StageTessEvaluation},
		{"a.glsl", Undetermined},
		{"a.rgsl", Undetermined},
		{"noext", Undetermined},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStage(tt.filename))
		})
	}
}

func TestDetermineName(t *testing.T) {
	assert.Equal(t, "lit", DetermineName("shaders/lit.frag"))
	assert.Equal(t, "lit", DetermineName(`C:\shaders\lit.frag`))
	assert.Equal(t, "post.blur", DetermineName("post.blur.frag"))
	assert.Equal(t, "noext", DetermineName("dir/noext"))
	assert.Equal(t, "", DetermineName("dir/.frag"))
}

func TestNewSource(t *testing.T) {
	s := NewSource("shaders/sky.rvert", "void main() {}\n")
	assert.Equal(t, "sky", s.Name)
	assert.Equal(t, LanguageRGSL, s.Language)
	assert.Equal(t, StageVertex, s.Stage)
	assert.Zero(t, s.Profile)
	assert.NoError(t, s.CheckNonEmpty())

	assert.ErrorIs(t, NewSource("a.frag", "").CheckNonEmpty(), ErrEmptySource)
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\n", NormalizeNewlines("a\r\nb\r\n"))
	assert.Equal(t, "a\rb\n", NormalizeNewlines("a\rb\n"))
	assert.Equal(t, "plain", NormalizeNewlines("plain"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lit.frag")
	require.NoError(t, os.WriteFile(path, []byte("#version 450\r\nvoid main() {}\r\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#version 450\nvoid main() {}\n", s.Code)
	assert.Equal(t, StageFragment, s.Stage)
	assert.Equal(t, path, s.Path)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.frag"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	_, err = Load(txt)
	assert.ErrorIs(t, err, ErrUndeterminedLanguage)

	lib := filepath.Join(dir, "lib.glsl")
	require.NoError(t, os.WriteFile(lib, []byte("x"), 0644))
	_, err = Load(lib)
	assert.ErrorIs(t, err, ErrUndeterminedStage)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "b.frag")))
}
