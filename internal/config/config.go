// Package config loads the tool configuration, merging an optional
// overrider.yaml over built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/darwinia-network/runtime-overrider/internal/chain"
)

// DefaultPath is the config file picked up from the working directory when
// no --config flag is given.
const DefaultPath = "overrider.yaml"

// Config holds the tool's settings.
type Config struct {
	// BuildDir is where variant repositories are cloned and reused.
	BuildDir string `yaml:"build_dir"`
	// OutputDir is the root of the generated artifact tree.
	OutputDir string `yaml:"output_dir"`
	// GitBase is the base URL variant repositories are cloned from.
	GitBase string `yaml:"git_base"`

	GitBin     string `yaml:"git_bin"`
	CargoBin   string `yaml:"cargo_bin"`
	SubwasmBin string `yaml:"subwasm_bin"`

	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		BuildDir:   "build",
		OutputDir:  "overridden-runtimes",
		GitBase:    chain.DefaultGitBase,
		GitBin:     "git",
		CargoBin:   "cargo",
		SubwasmBin: "subwasm",
		LogLevel:   "info",
	}
}

// Load parses the config file at path over the defaults. Unknown keys are
// rejected; an empty file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	fields := map[string]string{
		"build_dir":   c.BuildDir,
		"output_dir":  c.OutputDir,
		"git_base":    c.GitBase,
		"git_bin":     c.GitBin,
		"cargo_bin":   c.CargoBin,
		"subwasm_bin": c.SubwasmBin,
	}
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a config log level string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", s)
	}
}
