// Package logging provides the slog handler used by the rgsl command:
// one line per record, prefixed "[RGSL <Level>]", with verbosity levels
// 0 to 3 mapped onto slog levels.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// LevelTrace sits below Debug and is enabled by --verbose 3.
const LevelTrace = slog.LevelDebug - 4

// LevelFor maps a --verbose value to the lowest level that gets printed.
func LevelFor(verbose int) slog.Level {
	switch {
	case verbose <= 0:
		return slog.LevelWarn
	case verbose == 1:
		return slog.LevelInfo
	case verbose == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// Options configures a Handler.
type Options struct {
	Verbose int
	// Color enables ANSI colour on the level prefix.
	Color bool
}

// Handler writes records as "[RGSL Info] message key=value ...".
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	color  bool
	attrs  []slog.Attr
	prefix string // group prefix for attribute keys
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, opts Options) *Handler {
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		level: LevelFor(opts.Verbose),
		color: opts.Color,
	}
}

// New returns a logger for w at the given verbosity. Colour is used when w
// is a terminal and NO_COLOR is unset.
func New(w io.Writer, verbose int) *slog.Logger {
	return slog.New(NewHandler(w, Options{Verbose: verbose, Color: ColorEnabled(w)}))
}

// ColorEnabled reports whether w is a terminal that should get colour.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.levelPrefix(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return &c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func (h *Handler) levelPrefix(level slog.Level) string {
	var name, color string
	switch {
	case level >= slog.LevelError:
		name, color = "Error", "\033[31m"
	case level >= slog.LevelWarn:
		name, color = "Warning", "\033[33m"
	case level >= slog.LevelInfo:
		name, color = "Info", "\033[32m"
	case level >= slog.LevelDebug:
		name, color = "Debug", "\033[36m"
	default:
		name, color = "Trace", "\033[2m"
	}
	if !h.color {
		return "[RGSL " + name + "]"
	}
	return color + "[RGSL " + name + "]\033[0m"
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			writeAttr(sb, prefix+a.Key+".", g)
		}
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") || val == "" {
		val = fmt.Sprintf("%q", val)
	}
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(val)
}
