// Package config builds the configuration value for one rgsl run from an
// optional rgsl.yaml, RGSL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Action selects what the orchestrator does with each shader. Actions are
// flags and may be combined.
type Action uint

const (
	ActionValidate Action = 1 << iota
	ActionCompile
	ActionEmbed
	ActionSPIRV

	ActionNone Action = 0
)

// Has reports whether every flag in f is set.
func (a Action) Has(f Action) bool { return a&f == f }

func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		f    Action
		name string
	}{{ActionValidate, "validate"}, {ActionCompile, "compile"}, {ActionEmbed, "embed"}, {ActionSPIRV, "spirv"}} {
		if a.Has(n.f) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Config holds everything a run needs. Build it once and treat it as
// read-only afterwards; IncludePaths in particular is a snapshot.
type Config struct {
	IncludePaths        []string      `mapstructure:"include_paths"`
	Verbose             int           `mapstructure:"verbose"`
	MaxIncludeDepth     int           `mapstructure:"max_include_depth"`
	DetectIncludeCycles bool          `mapstructure:"detect_include_cycles"`
	Jobs                int           `mapstructure:"jobs"`
	CacheDir            string        `mapstructure:"cache_dir"`
	Backend             BackendConfig `mapstructure:"backend"`

	// Set from the command line only.
	Output string `mapstructure:"-"`
	Action Action `mapstructure:"-"`
}

type BackendConfig struct {
	Glslang   string `mapstructure:"glslang"`
	TargetEnv string `mapstructure:"target_env"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IncludePaths:        []string{"."},
		Verbose:             1,
		MaxIncludeDepth:     32,
		DetectIncludeCycles: true,
		Jobs:                1,
		Backend: BackendConfig{
			Glslang:   "glslangValidator",
			TargetEnv: "vulkan1.0",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("include_paths", d.IncludePaths)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("max_include_depth", d.MaxIncludeDepth)
	v.SetDefault("detect_include_cycles", d.DetectIncludeCycles)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("backend.glslang", d.Backend.Glslang)
	v.SetDefault("backend.target_env", d.Backend.TargetEnv)
}

// Load reads configuration from path and the environment. With an empty
// path an rgsl.yaml in the working directory is used when present; its
// absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RGSL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName("rgsl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// WithIncludePaths returns a copy of c whose search list is the configured
// paths followed by extra, in order.
func (c *Config) WithIncludePaths(extra ...string) *Config {
	out := *c
	out.IncludePaths = slices.Concat(c.IncludePaths, extra)
	return &out
}

// Validate checks the configuration and returns warnings for values that
// were clamped or look suspicious.
func (c *Config) Validate() []string {
	var warnings []string
	if v := min(max(c.Verbose, 0), 3); v != c.Verbose {
		warnings = append(warnings, fmt.Sprintf("verbose level %d is outside 0..3, using %d", c.Verbose, v))
		c.Verbose = v
	}
	if c.Jobs < 1 {
		warnings = append(warnings, fmt.Sprintf("jobs %d is below 1, using 1", c.Jobs))
		c.Jobs = 1
	}
	if c.MaxIncludeDepth < 0 {
		warnings = append(warnings, fmt.Sprintf("max_include_depth %d is negative, using 0 (unlimited)", c.MaxIncludeDepth))
		c.MaxIncludeDepth = 0
	}
	if c.MaxIncludeDepth == 0 && !c.DetectIncludeCycles {
		warnings = append(warnings, "include depth is unlimited and cycle detection is off: an include cycle will expand until memory runs out")
	}
	if len(c.IncludePaths) == 0 {
		warnings = append(warnings, "no include paths configured, #include <...> will always fail")
	}
	return warnings
}

// CheckActions rejects action/input combinations the orchestrator cannot
// serve.
func (c *Config) CheckActions(inputs int) error {
	if c.Action == ActionNone {
		return errors.New("no action specified (use --validate, --compile, --spirv or --embed)")
	}
	if inputs == 0 {
		return errors.New("no input files")
	}
	if inputs > 1 && !c.Action.Has(ActionEmbed) {
		return errors.New("multiple input files are only allowed with --embed")
	}
	return nil
}
