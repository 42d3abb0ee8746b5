// Package config loads and saves the optional pathmate YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idelchi/pathmate/internal/checksum"
)

// Outputs lists the accepted output formats.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"table", "json"}

// Backup holds the default ignore rules of the backup command.
type Backup struct {
	Dir           string   `yaml:"dir"`
	Ignore        []string `yaml:"ignore"`
	IgnoreExt     []string `yaml:"ignore_ext"`
	IgnorePattern []string `yaml:"ignore_pattern"`
}

// Config holds defaults that flags override.
type Config struct {
	// Excludes are regex patterns the top command skips.
	Excludes []string `yaml:"excludes"`
	// TopN is the number of entries the top command reports.
	TopN int `yaml:"top"`
	// Output is the default output format.
	Output string `yaml:"output"`
	// Algorithm is the default checksum algorithm.
	Algorithm string `yaml:"algorithm"`
	// CaseSensitive makes name and path patterns match case.
	CaseSensitive bool `yaml:"case_sensitive"`
	// Gitignore honours a .gitignore file at the root of a selection.
	Gitignore bool   `yaml:"gitignore"`
	Backup    Backup `yaml:"backup"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Excludes:  []string{`.*\.git/.*`, `.*node_modules/.*`},
		TopN:      10,
		Output:    "table",
		Algorithm: string(checksum.MD5),
		Gitignore: true,
		Backup: Backup{
			Ignore: []string{
				".git",
				"node_modules",
				".venv",
				"__pycache__",
			},
			IgnoreExt: []string{".pyc", ".log"},
		},
	}
}

// DefaultPath returns ~/.pathmate/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".pathmate", "config.yaml")
}

// Load reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %q: %w", path, err)
	}

	cfg.Backup.Dir = ExpandPath(cfg.Backup.Dir)

	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	path = ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec // Config is not secret
}

// Validate checks values that flags would otherwise reject.
func (c *Config) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top must be positive, got %d", c.TopN)
	}

	if !slices.Contains(Outputs, strings.ToLower(c.Output)) {
		return fmt.Errorf("invalid output format %q: must be one of %v", c.Output, Outputs)
	}

	if _, err := checksum.Parse(c.Algorithm); err != nil {
		return err
	}

	return nil
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}

		return filepath.Join(home, path[1:])
	}

	return path
}
