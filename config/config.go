// Package config loads able.toml, the settings shared by the able
// commands and the language server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is looked up in the working directory and its parents.
	FileName = "able.toml"
	// EnvVar names a config file explicitly.
	EnvVar = "ABLE_CONFIG"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
	Check  CheckConfig  `toml:"check"`
}

type LogConfig struct {
	// Verbosity is passed to commonlog: 0 logs errors only, higher values
	// add warnings, notices, info and debug output.
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type OutputConfig struct {
	Format    string `toml:"format"`
	Color     string `toml:"color"`
	Positions bool   `toml:"positions"`
}

type CheckConfig struct {
	// MaxDiagnostics limits the diagnostics printed per file; 0 prints all.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

var (
	formats = []string{"json", "sexp", "tree"}
	colors  = []string{"always", "auto", "never"}
)

func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "sexp",
			Color:  "auto",
		},
	}
}

// Load reads path over the defaults. Keys the config does not know are
// an error so that typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys %s: %w", path, strings.Join(keys, ", "), ErrInvalid)
	}
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the config file to use: the one named by ABLE_CONFIG, or
// the nearest able.toml in dir or one of its parents.
func Find(dir string) (string, bool) {
	if path := os.Getenv(EnvVar); path != "" {
		return path, true
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Resolve loads the explicit path if given, else the file Find locates,
// else the defaults.
func Resolve(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path, ok := Find(dir); ok {
		return Load(path)
	}
	return Default(), nil
}

func (c *Config) Validate() error {
	if !oneOf(c.Output.Format, formats) {
		return fmt.Errorf("output.format %q is not one of %s: %w", c.Output.Format, strings.Join(formats, ", "), ErrInvalid)
	}
	if !oneOf(c.Output.Color, colors) {
		return fmt.Errorf("output.color %q is not one of %s: %w", c.Output.Color, strings.Join(colors, ", "), ErrInvalid)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity %d is negative: %w", c.Log.Verbosity, ErrInvalid)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("check.max_diagnostics %d is negative: %w", c.Check.MaxDiagnostics, ErrInvalid)
	}
	return nil
}

// UseColor decides output.color for a stream that is or is not a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Output.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return terminal
}

// LogPath is the log file for commonlog, or nil for stderr.
func (c *Config) LogPath() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	return &path
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
