// Package shader holds the shader source model shared by the preprocessor,
// the orchestrator and the backends, plus the extension tables that route a
// file to its language and pipeline stage.
package shader

import "errors"

// Language tags a shader source family. The zero value is Undetermined.
type Language string

const (
	// LanguageGLSL is plain GLSL.
	LanguageGLSL Language = "glsl"
	// LanguageRGSL shares the GLSL grammar today and is kept separate so
	// its directive set can diverge.
	LanguageRGSL Language = "rgsl"
)

// Stage tags the pipeline role of a shader. The zero value is Undetermined.
type Stage string

const (
	StageVertex         Stage = "vert"
	StageFragment       Stage = "frag"
	StageGeometry       Stage = "geom"
	StageCompute        Stage = "comp"
	StageTessControl    Stage = "tesc"
	StageTessEvaluation Stage = "tese"
)

// Undetermined is returned by the router when no table entry matches.
const Undetermined = ""

var (
	ErrUndeterminedLanguage = errors.New("could not determine shader language from file extension")
	ErrUndeterminedStage    = errors.New("could not determine shader stage from file extension")
	ErrEmptySource          = errors.New("shader code is empty")
)

// DefaultProfileName is used when a #version directive names no profile.
const DefaultProfileName = "core"

// Profile is the version/profile pair declared by the first #version
// directive of a shader.
type Profile struct {
	Version int
	Name    string
}

// Source is one shader as it moves through the pipeline. Code is replaced
// wholesale after preprocessing; the previous string is never mutated.
type Source struct {
	Path     string
	Name     string
	Code     string
	Language Language
	Stage    Stage
	Profile  Profile

	// Binary and WordCount are set once the shader is compiled to SPIR-V.
	Binary    []uint32
	WordCount int
}

// NewSource builds a Source for in-memory code, routing filename through
// the extension tables. Routing failures leave the tags Undetermined.
func NewSource(filename, code string) *Source {
	return &Source{
		Path:     filename,
		Name:     DetermineName(filename),
		Code:     code,
		Language: DetermineLanguage(filename),
		Stage:    DetermineStage(filename),
	}
}

// CheckNonEmpty returns ErrEmptySource for a shader with no code.
func (s *Source) CheckNonEmpty() error {
	if s.Code == "" {
		return ErrEmptySource
	}
	return nil
}
