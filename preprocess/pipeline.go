// Package preprocess expands the #include and #version directives of a
// shader in place. One pass walks the text line by line; a directive whose
// handler returns a replacement is spliced into the buffer and the cursor is
// rewound so the replacement is scanned again, which is how included files
// get their own directives processed.
package preprocess

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/rubiojr/rgsl/scanner"
	"github.com/rubiojr/rgsl/shader"
	mscanner "modernc.org/scanner"
)

var (
	ErrIncludeNotFound    = errors.New("include not found in search paths")
	ErrLocalInclude       = errors.New("local includes not implemented")
	ErrMalformedDirective = errors.New("malformed directive")
	ErrIncludeCycle       = errors.New("include cycle")
	ErrIncludeDepth       = errors.New("include depth exceeded")
)

// Run preprocesses src.Code with table and returns the expanded text.
// src.Code itself is not modified; src.Profile is set by #version.
//
// A failing directive does not stop the pass: the line is left as it was,
// scanning goes on and every failure is returned at the end as a
// modernc.org/scanner.ErrList positioned on the expanded text.
func Run(table Table, src *shader.Source, opts Options) (string, error) {
	st := newState(src, opts)
	var errs mscanner.ErrList
	for !st.buf.AtEOF() {
		st.buf.NextLine()
		st.popIncludes()
		d, ok := scanner.Scan(st.buf.Line())
		if ok {
			if err := st.process(table, d); err != nil {
				st.log.Error("error processing directive", "directive", d.Name, "value", d.Value, "err", err)
				errs = append(errs, mscanner.ErrWithPosition{
					Pos: st.position(),
					Err: fmt.Errorf("processing directive %s with value %s: %w", d.Name, d.Value, err),
				})
			}
		}
		st.buf.Advance()
	}
	if len(errs) > 0 {
		return st.buf.Text(), errs
	}
	return st.buf.Text(), nil
}

// process dispatches d and applies the handler's replacement, if any.
func (st *State) process(table Table, d scanner.Directive) error {
	h, ok := table.Lookup(d.Name)
	if !ok {
		return nil
	}
	res, err := h.Handle(st, d.Value)
	if err != nil {
		return err
	}
	if res.Replace {
		st.splice(res)
	}
	return nil
}

// position locates the current line in the expanded text.
func (st *State) position() token.Position {
	return token.Position{
		Filename: st.Shader.Path,
		Offset:   st.buf.LineStart(),
		Line:     scanner.LineAt(st.buf.Bytes(), st.buf.LineStart()),
		Column:   1,
	}
}

// DirectiveErrors flattens the error list returned by Run. Each error is
// prefixed with its position and still matches the sentinels above.
func DirectiveErrors(err error) []error {
	var el mscanner.ErrList
	if !errors.As(err, &el) {
		if err == nil {
			return nil
		}
		return []error{err}
	}
	out := make([]error, 0, len(el))
	for _, e := range el {
		out = append(out, fmt.Errorf("%s: %w", e.Pos, e.Err))
	}
	return out
}
