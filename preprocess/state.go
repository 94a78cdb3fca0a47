package preprocess

import (
	"log/slog"
	"path/filepath"

	"github.com/rubiojr/rgsl/shader"
)

// Options configures one preprocessing pass. IncludePaths is read, never
// modified.
type Options struct {
	IncludePaths []string
	// MaxIncludeDepth caps include nesting. Zero means unlimited.
	MaxIncludeDepth int
	// DetectIncludeCycles rejects a file that is already being expanded.
	DetectIncludeCycles bool
	Logger              *slog.Logger
}

// includeFrame covers the bytes an #include expanded to. end moves when a
// nested splice grows the buffer.
type includeFrame struct {
	path string
	end  int
}

// State is the scan cursor of one pass plus everything handlers may read or
// record: the owning shader, the version flag and the active includes.
type State struct {
	Shader *shader.Source

	buf         *Buffer
	opts        Options
	log         *slog.Logger
	versionSeen bool
	includes    []includeFrame
	rootPath    string
}

func newState(src *shader.Source, opts Options) *State {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	st := &State{
		Shader: src,
		buf:    NewBuffer(src.Code),
		opts:   opts,
		log:    log,
	}
	if src.Path != "" {
		if abs, err := filepath.Abs(src.Path); err == nil {
			st.rootPath = abs
		}
	}
	return st
}

// VersionSeen reports whether a #version directive was already recorded.
func (st *State) VersionSeen() bool { return st.versionSeen }

// SetProfile records the shader profile and marks #version as seen.
func (st *State) SetProfile(p shader.Profile) {
	st.Shader.Profile = p
	st.versionSeen = true
}

// IncludeDepth is the number of includes currently being expanded around
// the cursor.
func (st *State) IncludeDepth() int { return len(st.includes) }

// Including reports whether path is the shader itself or a file whose
// expansion encloses the cursor.
func (st *State) Including(path string) bool {
	if path == st.rootPath && path != "" {
		return true
	}
	for _, f := range st.includes {
		if f.path == path {
			return true
		}
	}
	return false
}

// popIncludes drops frames the cursor has left.
func (st *State) popIncludes() {
	for n := len(st.includes); n > 0 && st.includes[n-1].end <= st.buf.LineStart(); n = len(st.includes) {
		st.includes = st.includes[:n-1]
	}
}

// splice applies res to the current line and keeps the include frames in
// step with the new layout.
func (st *State) splice(res Result) {
	start, end := st.buf.LineStart(), st.buf.LineEnd()
	n := len(res.Text)
	newEnd := start + max(n, end-start)
	for i := range st.includes {
		f := &st.includes[i]
		if f.end < end {
			f.end = start + n
		} else {
			f.end += newEnd - end
		}
	}
	st.buf.Splice([]byte(res.Text))
	if res.Source != "" {
		st.includes = append(st.includes, includeFrame{path: res.Source, end: start + n})
	}
}
