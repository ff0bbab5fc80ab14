package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds settings that can come from a config file. Command-line flags
// override them.
type Config struct {
	// Mode is what the root command does with each expression: eval, rpn,
	// tokens, or tree.
	Mode string `toml:"mode" yaml:"mode"`
	// Prec is the precision of evaluation in bits. Zero means float64.
	Prec uint `toml:"prec" yaml:"prec"`
	// Format is the fmt verb used to print results.
	Format string `toml:"format" yaml:"format"`
	// Verbose enables debug logging, including parser traces.
	Verbose bool `toml:"verbose" yaml:"verbose"`
	// History is the file in which the REPL keeps its line history. Empty
	// disables persistent history.
	History string `toml:"history" yaml:"history"`
}

var modes = []string{"eval", "rpn", "tokens", "tree"}

// DefaultConfig returns the settings used when there is no config file.
func DefaultConfig() Config {
	return Config{
		Mode:   "eval",
		Format: "%g",
	}
}

// LoadConfig reads a TOML or YAML config file, chosen by extension. Keys
// missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(b)).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config file %s: unknown format %q (want .toml, .yaml, or .yml)", path, ext)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if !validMode(c.Mode) {
		return fmt.Errorf("unknown mode %q (want one of %s)", c.Mode, strings.Join(modes, ", "))
	}
	if c.Format == "" {
		return fmt.Errorf("empty result format")
	}
	return nil
}

func validMode(m string) bool {
	for _, v := range modes {
		if m == v {
			return true
		}
	}
	return false
}
