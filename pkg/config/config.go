package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is the config file read from the working directory when present
const DefaultFile = "glytrait.toml"

const envPrefix = "GLYTRAIT_"

// Config holds all configuration for the application
type Config struct {
	Input         string  `koanf:"input"`
	Output        string  `koanf:"output"`
	Mode          string  `koanf:"mode"`
	FilterRatio   float64 `koanf:"filter-ratio"`
	ImputeMethod  string  `koanf:"impute-method"`
	SiaLinkage    bool    `koanf:"sia-linkage"`
	FormulaFile   string  `koanf:"formula-file"`
	StructureFile string  `koanf:"structure-file"`
	PostFilter    bool    `koanf:"filter"`
	CorrThreshold float64 `koanf:"corr-threshold"`
	CorrMethod    string  `koanf:"corr-method"`
	Port          int     `koanf:"port"`
	Verbosity     string  `koanf:"verbosity"`
	VerboseCnt    int     `koanf:"verbose"`
}

// Defaults returns the built-in configuration values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"input":          "",
		"output":         "",
		"mode":           "structure",
		"filter-ratio":   0.5,
		"impute-method":  "min",
		"sia-linkage":    false,
		"formula-file":   "",
		"structure-file": "",
		"filter":         true,
		"corr-threshold": 1.0,
		"corr-method":    "pearson",
		"port":           8080,
		"verbosity":      "",
		"verbose":        0,
	}
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
//
// path names the config file. When empty, DefaultFile is read if it exists.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file. The default file is optional, an explicit one is not.
	load := true
	if path == "" {
		path = DefaultFile
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			load = false
		}
	}
	if load {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, &ConfigError{Key: "config", Msg: err.Error()}
		}
	}

	// 3. Environment Variables
	// Prefix: GLYTRAIT_ (e.g., GLYTRAIT_IMPUTE_METHOD=mean)
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &ConfigError{Msg: err.Error()}
	}
	cfg.complete()
	return &cfg, nil
}

// complete fills values derived from other settings
func (c *Config) complete() {
	switch strings.ToLower(c.Mode) {
	case "s", "structure":
		c.Mode = "structure"
	case "c", "composition":
		c.Mode = "composition"
	}
	if c.Output == "" && c.Input != "" {
		ext := filepath.Ext(c.Input)
		c.Output = strings.TrimSuffix(c.Input, ext) + "_glytrait.xlsx"
	}
}

// OutputDir creates the directory of the output file
func (c *Config) OutputDir() error {
	dir := filepath.Dir(c.Output)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
