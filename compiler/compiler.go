package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rubiojr/rgsl/backend"
	"github.com/rubiojr/rgsl/config"
	"github.com/rubiojr/rgsl/packager"
	"github.com/rubiojr/rgsl/preprocess"
	"github.com/rubiojr/rgsl/shader"
	"golang.org/x/sync/errgroup"
)

var ErrNoHandler = errors.New("no handler for language")

// BackendError is a shader the backend rejected. Log is the backend's
// diagnostic output, unmodified.
type BackendError struct {
	Op     string
	Shader string
	Log    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s failed for %s:\n%s", e.Op, e.Shader, e.Log)
}

// Compiler orchestrates preprocessing, validation, compilation and
// embedding for a set of shader files.
type Compiler struct {
	Config  *config.Config
	Backend backend.Backend
	Log     *slog.Logger
	// Stdout receives text output when no output file is configured.
	Stdout io.Writer
}

// New returns a Compiler. A nil logger discards output.
func New(cfg *config.Config, be backend.Backend, log *slog.Logger) *Compiler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Compiler{Config: cfg, Backend: be, Log: log, Stdout: os.Stdout}
}

func (c *Compiler) preprocessOptions() preprocess.Options {
	return preprocess.Options{
		IncludePaths:        c.Config.IncludePaths,
		MaxIncludeDepth:     c.Config.MaxIncludeDepth,
		DetectIncludeCycles: c.Config.DetectIncludeCycles,
		Logger:              c.Log,
	}
}

// Preprocess expands src's directives with its language's table and
// installs the result as src.Code.
func (c *Compiler) Preprocess(src *shader.Source) error {
	lang, err := SelectLanguage(src.Language)
	if err != nil {
		return fmt.Errorf("%s: %w", src.Path, err)
	}
	c.Log.Info("preprocessing shader", "shader", src.Name, "language", lang.Name())
	out, err := preprocess.Run(lang.Directives(), src, c.preprocessOptions())
	if err != nil {
		return fmt.Errorf("failed to preprocess %s:\n%w", src.Path, errors.Join(preprocess.DirectiveErrors(err)...))
	}
	src.Code = out
	return nil
}

// Validate preprocesses src and asks the backend to validate it.
func (c *Compiler) Validate(ctx context.Context, src *shader.Source) error {
	if err := c.prepare(src); err != nil {
		return err
	}
	return c.validate(ctx, src)
}

// Compile preprocesses src and returns its payload: SPIR-V bytes when the
// spirv action is set, the preprocessed text otherwise.
func (c *Compiler) Compile(ctx context.Context, src *shader.Source) ([]byte, error) {
	if err := c.prepare(src); err != nil {
		return nil, err
	}
	return c.compile(ctx, src)
}

func (c *Compiler) prepare(src *shader.Source) error {
	if err := src.CheckNonEmpty(); err != nil {
		return fmt.Errorf("%s: %w", src.Path, err)
	}
	return c.Preprocess(src)
}

func (c *Compiler) validate(ctx context.Context, src *shader.Source) error {
	c.Log.Info("validating shader", "shader", src.Name, "stage", src.Stage, "backend", c.Backend.Name())
	res, err := c.Backend.Validate(ctx, src.Code, src.Stage)
	if err != nil {
		return fmt.Errorf("validating %s: %w", src.Path, err)
	}
	if !res.Success {
		return &BackendError{Op: "validation", Shader: src.Path, Log: res.Log}
	}
	c.Log.Info("shader is valid", "shader", src.Name)
	return nil
}

func (c *Compiler) compile(ctx context.Context, src *shader.Source) ([]byte, error) {
	if !c.Config.Action.Has(config.ActionSPIRV) {
		return []byte(src.Code), nil
	}

	cache := newSPVCache(c.Config.CacheDir)
	key := spvCacheKey(c.Backend.Name(), src.Stage, src.Code)
	words, ok := cache.lookup(key)
	if ok {
		c.Log.Debug("spir-v cache hit", "shader", src.Name, "key", key)
	} else {
		res, err := c.Backend.Compile(ctx, src.Code, src.Stage)
		if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", src.Path, err)
		}
		if !res.Success {
			return nil, &BackendError{Op: "GLSL to SPIR-V compilation", Shader: src.Path, Log: res.Log}
		}
		words = res.Words
		cache.store(key, words)
	}
	src.Binary = words
	src.WordCount = len(words)
	return backend.EncodeWords(words), nil
}

// process applies the configured actions to one loaded shader.
func (c *Compiler) process(ctx context.Context, src *shader.Source) ([]byte, error) {
	if err := c.prepare(src); err != nil {
		return nil, err
	}
	if c.Config.Action.Has(config.ActionValidate) {
		if err := c.validate(ctx, src); err != nil {
			return nil, err
		}
	}
	if !c.compiling() {
		return nil, nil
	}
	return c.compile(ctx, src)
}

func (c *Compiler) compiling() bool {
	a := c.Config.Action
	return a.Has(config.ActionCompile) || a.Has(config.ActionSPIRV) || a.Has(config.ActionEmbed)
}

// Run loads paths and applies the configured actions. Without the embed
// action exactly one path is accepted.
func (c *Compiler) Run(ctx context.Context, paths []string) error {
	if err := c.Config.CheckActions(len(paths)); err != nil {
		return err
	}
	if c.Config.Action.Has(config.ActionEmbed) {
		return c.runEmbed(ctx, paths)
	}

	src, err := shader.Load(paths[0])
	if err != nil {
		return err
	}
	payload, err := c.process(ctx, src)
	if err != nil {
		return err
	}
	if !c.compiling() {
		return nil
	}
	return c.writeOutput(src, payload)
}

// OutputPath is where a single compiled shader goes: the configured output,
// "<input>.spv" for SPIR-V, or "" (stdout) for preprocessed text.
func (c *Compiler) OutputPath(src *shader.Source) string {
	if c.Config.Output != "" {
		return c.Config.Output
	}
	if c.Config.Action.Has(config.ActionSPIRV) {
		return src.Path + ".spv"
	}
	return ""
}

func (c *Compiler) writeOutput(src *shader.Source, payload []byte) error {
	out := c.OutputPath(src)
	if out == "" {
		_, err := c.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(out, payload, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}
	c.Log.Info("compiled shader written", "output", out, "bytes", len(payload), "words", src.WordCount)
	return nil
}

type embedResult struct {
	src     *shader.Source
	payload []byte
	err     error
}

// runEmbed processes every input as one batch and packages the payloads.
// Shaders are independent: one failing does not stop the others, but
// nothing is written unless all succeed.
func (c *Compiler) runEmbed(ctx context.Context, paths []string) error {
	results := make([]embedResult, len(paths))
	var g errgroup.Group
	g.SetLimit(max(c.Config.Jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			src, err := shader.Load(path)
			if err != nil {
				results[i].err = err
				return nil
			}
			payload, err := c.process(ctx, src)
			results[i] = embedResult{src: src, payload: payload, err: err}
			return nil
		})
	}
	// Workers record failures in results and always return nil.
	_ = g.Wait()

	var errs []error
	entries := make([]packager.Entry, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			c.Log.Error("shader failed", "err", r.err)
			errs = append(errs, r.err)
			continue
		}
		entries = append(entries, packager.Entry{
			Name:      r.src.Name,
			Stage:     string(r.src.Stage),
			Payload:   r.payload,
			WordCount: r.src.WordCount,
		})
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d shaders failed: %w", len(errs), len(paths), errors.Join(errs...))
	}
	return c.writePackage(entries)
}

func (c *Compiler) writePackage(entries []packager.Entry) error {
	out := c.Config.Output
	opts := packager.Options{Format: packager.FormatFor(out)}
	if out == "" {
		return packager.Write(c.Stdout, entries, opts)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to open output file %s: %w", out, err)
	}
	if err := packager.Write(f, entries, opts); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.Log.Info("embedded shaders written", "output", out, "shaders", len(entries))
	return nil
}
