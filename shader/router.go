package shader

import "strings"

type languageMapping struct {
	extension string
	language  Language
}

type stageMapping struct {
	extension string
	stage     Stage
}

var languageMappings = []languageMapping{
	{".glsl", LanguageGLSL},
	{".vert", LanguageGLSL},
	{".vs", LanguageGLSL},
	{".frag", LanguageGLSL},
	{".fs", LanguageGLSL},
	{".geom", LanguageGLSL},
	{".gs", LanguageGLSL},
	{".comp", LanguageGLSL},
	{".cs", LanguageGLSL},
	{".tesc", LanguageGLSL},
	{".tc", LanguageGLSL},
	{".tese", LanguageGLSL},
	{".te", LanguageGLSL},

	{".rgsl", LanguageRGSL},
	{".rvert", LanguageRGSL},
	{".rvs", LanguageRGSL},
	{".rfrag", LanguageRGSL},
	{".rfs", LanguageRGSL},
	{".rgeom", LanguageRGSL},
	{".rgs", LanguageRGSL},
	{".rcomp", LanguageRGSL},
	{".rcs", LanguageRGSL},
	{".rtesc", LanguageRGSL},
	{".rtc", LanguageRGSL},
	{".rtese", LanguageRGSL},
	{".rte", LanguageRGSL},
}

var stageMappings = []stageMapping{
	{".vert", StageVertex},
	{".vs", StageVertex},
	{".frag", StageFragment},
	{".fs", StageFragment},
	{".geom", StageGeometry},
	{".gs", StageGeometry},
	{".comp", StageCompute},
	{".cs", StageCompute},
	{".tesc", StageTessControl},
	{".tc", StageTessControl},
	{".tese", StageTessEvaluation},
	{".te", StageTessEvaluation},

	// r-prefixed twins
	{".rvert", StageVertex},
	{".rvs", StageVertex},
	{".rfrag", StageFragment},
	{".rfs", StageFragment},
	{".rgeom", StageGeometry},
	{".rgs", StageGeometry},
	{".rcomp", StageCompute},
	{".rcs", StageCompute},
	{".rtesc", StageTessControl},
	{".rtc", StageTessControl},
	{".rtese", StageTessEvaluation},
	{".rte", StageTessEvaluation},
}

// extension returns the filename suffix starting at the last dot, or "".
func extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return filename[i:]
}

// DetermineLanguage maps a filename extension to its language family.
// It returns Undetermined when nothing matches; callers must treat that as
// a fatal input error.
func DetermineLanguage(filename string) Language {
	ext := extension(filename)
	if ext == "" {
		return Undetermined
	}
	for _, m := range languageMappings {
		if m.extension == ext {
			return m.language
		}
	}
	return Undetermined
}

// DetermineStage maps a filename extension to a pipeline stage, or
// Undetermined.
func DetermineStage(filename string) Stage {
	ext := extension(filename)
	if ext == "" {
		return Undetermined
	}
	for _, m := range stageMappings {
		if m.extension == ext {
			return m.stage
		}
	}
	return Undetermined
}

// DetermineName returns the base name of filename without its extension.
// Both '/' and '\' are accepted as separators.
func DetermineName(filename string) string {
	base := filename
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		base = filename[i+1:]
	}
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		return base[:dot]
	}
	return base
}
