// Package compiler drives shaders through preprocessing and the backend:
// validate, compile to text or SPIR-V, and embed batches into a source
// file.
package compiler

import (
	"fmt"

	"github.com/rubiojr/rgsl/preprocess"
	"github.com/rubiojr/rgsl/shader"
)

// Language is the handler set for one shader language family.
type Language interface {
	Name() shader.Language
	Directives() preprocess.Table
}

type glslLanguage struct{}

func (glslLanguage) Name() shader.Language        { return shader.LanguageGLSL }
func (glslLanguage) Directives() preprocess.Table { return preprocess.GLSLDirectives() }

// rgslLanguage shares the GLSL directive grammar for now.
type rgslLanguage struct{}

func (rgslLanguage) Name() shader.Language        { return shader.LanguageRGSL }
func (rgslLanguage) Directives() preprocess.Table { return preprocess.GLSLDirectives() }

var languages = []Language{
	glslLanguage{},
	rgslLanguage{},
}

// SelectLanguage returns the handler set for lang.
func SelectLanguage(lang shader.Language) (Language, error) {
	for _, l := range languages {
		if l.Name() == lang {
			return l, nil
		}
	}
	if lang == shader.Undetermined {
		return nil, fmt.Errorf("%w: language undetermined", ErrNoHandler)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoHandler, lang)
}
