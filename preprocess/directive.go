package preprocess

// Result is what a directive handler asks the pass to do with the line it
// was invoked for.
type Result struct {
	// Replace is false for "leave the line as is".
	Replace bool
	// Text replaces the line's content. Its terminator is kept.
	Text string
	// Source names the file Text was read from. The pass uses it to track
	// nested includes.
	Source string
}

// NoChange leaves the directive line untouched.
func NoChange() Result { return Result{} }

// Replace swaps the directive line for text.
func Replace(text string) Result { return Result{Replace: true, Text: text} }

// Handler processes one directive kind.
type Handler interface {
	Handle(st *State, value string) (Result, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(st *State, value string) (Result, error)

func (f HandlerFunc) Handle(st *State, value string) (Result, error) { return f(st, value) }

// Mapping binds a directive name to its handler.
type Mapping struct {
	Name    string
	Handler Handler
}

// Table is consulted in declaration order. Directives with no entry are
// left in the output unmodified.
type Table []Mapping

// Lookup returns the first handler registered for name.
func (t Table) Lookup(name string) (Handler, bool) {
	for _, m := range t {
		if m.Name == name {
			return m.Handler, true
		}
	}
	return nil, false
}

// With returns a copy of t with m appended. Entries already in t keep
// precedence.
func (t Table) With(m ...Mapping) Table {
	out := make(Table, 0, len(t)+len(m))
	out = append(out, t...)
	return append(out, m...)
}
