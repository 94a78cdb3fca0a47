package preprocess

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rubiojr/rgsl/logging"
	"github.com/rubiojr/rgsl/shader"
)

// GLSLDirectives is the directive table for the GLSL dialect.
func GLSLDirectives() Table {
	return Table{
		{Name: "include", Handler: IncludeHandler{}},
		{Name: "version", Handler: VersionHandler{}},
	}
}

// IncludeHandler expands #include <path> against the configured search
// paths. The quoted local form is not supported yet.
type IncludeHandler struct{}

func (IncludeHandler) Handle(st *State, value string) (Result, error) {
	st.log.Debug("handling #include directive", "value", value)
	switch {
	case strings.HasPrefix(value, "<"):
		end := strings.IndexByte(value, '>')
		if end < 0 {
			return Result{}, fmt.Errorf("%w: missing '>' in include %s", ErrMalformedDirective, value)
		}
		rel := value[1:end]
		if rel == "" {
			return Result{}, fmt.Errorf("%w: empty include path", ErrMalformedDirective)
		}
		return includeSystem(st, rel)
	case strings.HasPrefix(value, `"`):
		return Result{}, fmt.Errorf("%w: %s", ErrLocalInclude, value)
	default:
		return Result{}, fmt.Errorf("%w: include expects <path> or \"path\", got %q", ErrMalformedDirective, value)
	}
}

// includeSystem returns the contents of the first search path entry that
// holds rel.
func includeSystem(st *State, rel string) (Result, error) {
	for _, dir := range st.opts.IncludePaths {
		candidate := filepath.Join(dir, rel)
		if !shader.FileExists(candidate) {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = candidate
		}
		if st.opts.DetectIncludeCycles && st.Including(abs) {
			return Result{}, fmt.Errorf("%w: <%s> is already being expanded", ErrIncludeCycle, rel)
		}
		if limit := st.opts.MaxIncludeDepth; limit > 0 && st.IncludeDepth() >= limit {
			return Result{}, fmt.Errorf("%w: <%s> exceeds depth %d", ErrIncludeDepth, rel, limit)
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return Result{}, fmt.Errorf("reading include %s: %w", candidate, err)
		}
		st.log.Log(context.Background(), logging.LevelTrace, "include resolved", "include", rel, "path", candidate, "bytes", len(data))
		return Result{
			Replace: true,
			Text:    shader.NormalizeNewlines(string(data)),
			Source:  abs,
		}, nil
	}
	return Result{}, fmt.Errorf("%w: <%s>", ErrIncludeNotFound, rel)
}

// VersionHandler records the first #version of a shader and deletes every
// later one, so headers that declare their own version can be included
// freely.
type VersionHandler struct{}

func (VersionHandler) Handle(st *State, value string) (Result, error) {
	st.log.Debug("handling #version directive", "value", value)
	if st.VersionSeen() {
		return Replace(""), nil
	}
	st.SetProfile(ParseProfile(value))
	return NoChange(), nil
}

// ParseProfile reads "<number>[ <profile>]". The number is taken from the
// leading digits the way atoi does (0 when there are none); the profile is
// everything after the first space, "core" when absent.
func ParseProfile(value string) shader.Profile {
	p := shader.Profile{Version: leadingInt(value), Name: shader.DefaultProfileName}
	if i := strings.IndexByte(value, ' '); i >= 0 {
		name := value[i+1:]
		if nl := strings.IndexByte(name, '\n'); nl >= 0 {
			name = name[:nl]
		}
		p.Name = name
	}
	return p
}

func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\v\f\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0
	}
	return n
}
