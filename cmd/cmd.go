// Package cmd is the rgsl command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/rgsl/backend"
	"github.com/rubiojr/rgsl/compiler"
	"github.com/rubiojr/rgsl/config"
	"github.com/rubiojr/rgsl/logging"
	"github.com/urfave/cli/v3"
)

// runFunc performs a run once the configuration is built.
type runFunc func(ctx context.Context, cfg *config.Config, paths []string) error

// Execute runs the rgsl CLI with the given version string.
func Execute(version string) {
	cmd := newCommand(version, runCompiler)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(version string, run runFunc) *cli.Command {
	return &cli.Command{
		Name:                   "rgsl",
		Usage:                  "Preprocess, validate and compile GLSL and RGSL shaders",
		Version:                version,
		ArgsUsage:              "<shader> [shader...]",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (stdout for text when empty, <input>.spv for SPIR-V)",
			},
			&cli.StringSliceFlag{
				Name:    "include",
				Aliases: []string{"I"},
				Usage:   "Add a directory to the #include <...> search path",
			},
			&cli.BoolFlag{
				Name:    "validate",
				Aliases: []string{"V"},
				Usage:   "Validate the preprocessed shader with the backend",
			},
			&cli.BoolFlag{
				Name:    "compile",
				Aliases: []string{"C"},
				Usage:   "Write the preprocessed shader",
			},
			&cli.BoolFlag{
				Name:    "spirv",
				Aliases: []string{"S"},
				Usage:   "Compile to SPIR-V (implies --compile)",
			},
			&cli.BoolFlag{
				Name:  "embed",
				Usage: "Package every input into one C or Go source file (implies --compile)",
			},
			&cli.IntFlag{
				Name:  "verbose",
				Usage: "Log verbosity: 0 warnings, 1 info, 2 debug, 3 trace",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file (default: ./rgsl.yaml when present)",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Shaders processed in parallel with --embed",
				Value:   1,
			},
			&cli.IntFlag{
				Name:  "max-include-depth",
				Usage: "Maximum #include nesting, 0 for unlimited",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Action == config.ActionNone && cmd.NArg() == 0 {
				return cli.DefaultShowRootCommandHelp(cmd)
			}
			return run(ctx, cfg, cmd.Args().Slice())
		},
	}
}

// buildConfig layers the command-line flags over the file and environment
// configuration. Flags only override values they were explicitly given for.
func buildConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithIncludePaths(cmd.StringSlice("include")...)
	if cmd.IsSet("verbose") {
		cfg.Verbose = cmd.Int("verbose")
	}
	if cmd.IsSet("jobs") {
		cfg.Jobs = cmd.Int("jobs")
	}
	if cmd.IsSet("max-include-depth") {
		cfg.MaxIncludeDepth = cmd.Int("max-include-depth")
	}
	cfg.Output = cmd.String("output")
	cfg.Action = actionFor(cmd.Bool("validate"), cmd.Bool("compile"), cmd.Bool("spirv"), cmd.Bool("embed"))
	return cfg, nil
}

// actionFor combines the action flags. SPIR-V and embedding both produce a
// payload, so they imply compile.
func actionFor(validate, compile, spirv, embed bool) config.Action {
	var a config.Action
	if validate {
		a |= config.ActionValidate
	}
	if compile {
		a |= config.ActionCompile
	}
	if spirv {
		a |= config.ActionSPIRV | config.ActionCompile
	}
	if embed {
		a |= config.ActionEmbed | config.ActionCompile
	}
	return a
}

func runCompiler(ctx context.Context, cfg *config.Config, paths []string) error {
	warnings := cfg.Validate()
	log := logging.New(os.Stderr, cfg.Verbose)
	for _, w := range warnings {
		log.Warn(w)
	}
	be := backend.NewGlslang(cfg.Backend.Glslang, cfg.Backend.TargetEnv)
	log.Debug("configuration",
		"action", cfg.Action.String(),
		"include_paths", cfg.IncludePaths,
		"backend", be.Name(),
		"jobs", cfg.Jobs)
	return compiler.New(cfg, be, log).Run(ctx, paths)
}
