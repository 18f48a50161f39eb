// Package config provides configuration loading and discovery for flint.
//
// Configuration is loaded from multiple sources with the following
// priority (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FLINT_* prefix)
//  3. Config file (closest .flint.toml or flint.toml)
//  4. Built-in defaults
//
// Config file discovery walks up from the target file's directory until
// a config file is found; the closest config wins (no merging).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/flintlab/flint/internal/cppcheck"
	"github.com/flintlab/flint/internal/findings"
)

// ConfigFileNames defines the config file names to search for, in
// priority order.
var ConfigFileNames = []string{".flint.toml", "flint.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "FLINT_"

// Config represents the complete flint configuration.
type Config struct {
	// Enabled toggles analysis. When false the LSP server clears
	// diagnostics and schedules no runs.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Tool configures the cppcheck invocation.
	Tool ToolConfig `json:"tool" koanf:"tool"`

	// Mode selects the invocation strategy: auto, xml, text.
	Mode string `json:"mode,omitempty" koanf:"mode"`

	// MinSeverity is the diagnostic threshold: info, warning, error.
	MinSeverity string `json:"min-severity,omitempty" koanf:"min-severity"`

	// Standard is the language standard identifier, or "<none>".
	Standard string `json:"standard,omitempty" koanf:"standard"`

	// Debounce is the delay before an editor-triggered run starts
	// (duration string, e.g. "500ms"). Retriggering within the delay
	// replaces the pending run.
	Debounce string `json:"debounce,omitempty" koanf:"debounce"`

	// Output configures CLI output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// ConfigFile is the path of the loaded config file (if any).
	// Metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// ToolConfig configures the external cppcheck binary.
type ToolConfig struct {
	// Path is the executable path, or a bare command name resolved via
	// the system search path.
	Path string `json:"path,omitempty" koanf:"path"`

	// Args is a space-separated extra argument string. A
	// --project=<path> argument has its path resolved against the
	// workspace root / home directory.
	Args string `json:"args,omitempty" koanf:"args"`

	// Project is a cppcheck project file (compile_commands.json or
	// .cppcheck), passed as --project=. Resolved like a --project=
	// argument inside Args.
	Project string `json:"project,omitempty" koanf:"project"`
}

// OutputConfig configures CLI output.
type OutputConfig struct {
	// Format specifies the output format (text, json, sarif,
	// github-actions).
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output: stdout, stderr, or a file.
	Path string `json:"path,omitempty" koanf:"path"`

	// FailLevel sets the minimum severity that causes a non-zero exit
	// code: error, warning, info, none.
	FailLevel string `json:"fail-level,omitempty" koanf:"fail-level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Enabled: true,
		Tool: ToolConfig{
			Path: cppcheck.DefaultExecutable,
		},
		Mode:        string(cppcheck.ModeAuto),
		MinSeverity: "info",
		Standard:    cppcheck.NoStandard,
		Debounce:    "500ms",
		Output: OutputConfig{
			Format:    "text",
			Path:      "stdout",
			FailLevel: "info",
		},
	}
}

// Load loads configuration for a target file path. It discovers the
// closest config file, loads it, and applies environment overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path,
// without discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// FLINT_MIN_SEVERITY -> min-severity, FLINT_TOOL_PATH -> tool.path
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return &cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns back to their
// hyphenated config keys. Extend when adding hyphenated keys.
var knownHyphenatedKeys = map[string]string{
	"min.severity": "min-severity",
	"fail.level":   "fail-level",
}

// envKeyTransform converts environment variable names to config keys.
// FLINT_STANDARD -> standard, FLINT_OUTPUT_FAIL_LEVEL -> output.fail-level
func envKeyTransform(k, v string) (string, any) {
	s := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}
	return s, v
}

// Validate checks enumerated fields early so a bad config fails the run
// instead of being silently coerced.
func (c *Config) Validate() error {
	if _, err := cppcheck.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := findings.ParseSeverity(c.MinSeverity); err != nil {
		return fmt.Errorf("config: min-severity: %w", err)
	}
	if c.Debounce != "" {
		if _, err := time.ParseDuration(c.Debounce); err != nil {
			return fmt.Errorf("config: debounce: %w", err)
		}
	}
	return nil
}

// MinSeverityLevel returns the parsed minimum severity threshold.
func (c *Config) MinSeverityLevel() findings.Severity {
	sev, err := findings.ParseSeverity(c.MinSeverity)
	if err != nil {
		return findings.SeverityInfo
	}
	return sev
}

// ModeValue returns the parsed invocation mode.
func (c *Config) ModeValue() cppcheck.Mode {
	mode, err := cppcheck.ParseMode(c.Mode)
	if err != nil {
		return cppcheck.ModeAuto
	}
	return mode
}

// DebounceDelay returns the parsed debounce duration.
func (c *Config) DebounceDelay() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// StandardOrEmpty returns the configured standard, with "<none>"
// normalized to "".
func (c *Config) StandardOrEmpty() string {
	if c.Standard == cppcheck.NoStandard {
		return ""
	}
	return c.Standard
}

// Invocation builds the cppcheck invocation inputs for a workspace.
// A configured project file joins the extra arguments as --project=,
// sharing their path resolution.
func (c *Config) Invocation(workspaceRoot string) cppcheck.Invocation {
	args := c.Tool.Args
	if c.Tool.Project != "" {
		if args != "" {
			args += " "
		}
		args += "--project=" + c.Tool.Project
	}
	return cppcheck.Invocation{
		ExtraArgs:     args,
		Standard:      c.Standard,
		WorkspaceRoot: workspaceRoot,
	}
}
