package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rubiojr/rgsl/shader"
)

const (
	DefaultGlslangBin = "glslangValidator"
	DefaultTargetEnv  = "vulkan1.0"
)

// Glslang runs the Khronos reference compiler. The source is fed on stdin,
// so nothing but the SPIR-V output touches the disk.
type Glslang struct {
	Bin       string
	TargetEnv string
}

// NewGlslang returns a Glslang backend, filling in defaults for empty
// arguments.
func NewGlslang(bin, targetEnv string) *Glslang {
	if bin == "" {
		bin = DefaultGlslangBin
	}
	if targetEnv == "" {
		targetEnv = DefaultTargetEnv
	}
	return &Glslang{Bin: bin, TargetEnv: targetEnv}
}

func (g *Glslang) Name() string { return "glslang/" + g.TargetEnv }

// Validate compiles the shader and discards the binary.
func (g *Glslang) Validate(ctx context.Context, source string, stage shader.Stage) (Result, error) {
	res, err := g.run(ctx, source, stage)
	res.Words = nil
	return res, err
}

// Compile compiles the shader to SPIR-V words.
func (g *Glslang) Compile(ctx context.Context, source string, stage shader.Stage) (Result, error) {
	return g.run(ctx, source, stage)
}

func (g *Glslang) run(ctx context.Context, source string, stage shader.Stage) (Result, error) {
	if stage == shader.Undetermined {
		return Result{}, shader.ErrUndeterminedStage
	}
	tmpDir, err := os.MkdirTemp("", "rgsl-*")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	pathout := filepath.Join(tmpDir, "out.spv")

	cmd := exec.CommandContext(ctx, g.Bin,
		"--stdin",
		"-S", string(stage),
		"-V",
		"--target-env", g.TargetEnv,
		"-o", pathout,
	)
	cmd.Stdin = strings.NewReader(source)
	var log bytes.Buffer
	cmd.Stdout = &log
	cmd.Stderr = &log

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Success: false, Log: log.String()}, nil
		}
		return Result{}, fmt.Errorf("failed to run %v: %w", cmd.Args, err)
	}

	compiled, err := os.ReadFile(pathout)
	if err != nil {
		return Result{}, fmt.Errorf("unable to read output %q: %w", pathout, err)
	}
	words, err := DecodeWords(compiled)
	if err != nil {
		return Result{}, fmt.Errorf("%s output: %w", g.Bin, err)
	}
	return Result{Success: true, Words: words, Log: log.String()}, nil
}
