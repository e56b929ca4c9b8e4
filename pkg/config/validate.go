package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ritzau/glytrait/pkg/meta"
	"github.com/ritzau/glytrait/pkg/postfilter"
	"github.com/ritzau/glytrait/pkg/preprocess"
)

// ConfigError is returned for an invalid configuration value
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "invalid config: " + e.Msg
	}
	return fmt.Sprintf("invalid config %s: %s", e.Key, e.Msg)
}

// Validator checks one aspect of a configuration
type Validator func(*Config) error

// RunValidators are applied before a workflow run, in order
var RunValidators = []Validator{
	ValidInput,
	ValidOutput,
	ValidMode,
	ValidFilterRatio,
	ValidImputeMethod,
	ValidCorrThreshold,
	ValidCorrMethod,
	ValidFormulaFile,
	ValidStructureFile,
	ValidCompositionMode,
}

// ServeValidators are applied before starting the API server, whose trait
// requests use the preprocessing and post-filtering settings
var ServeValidators = []Validator{
	ValidPort,
	ValidMode,
	ValidFilterRatio,
	ValidImputeMethod,
	ValidCorrThreshold,
	ValidCorrMethod,
}

// Validate runs validators in order and returns the first failure
func Validate(c *Config, validators []Validator) error {
	for _, v := range validators {
		if err := v(c); err != nil {
			return err
		}
	}
	return nil
}

func validFile(path, key, suffix string, mustExist bool) error {
	if mustExist {
		info, err := os.Stat(path)
		if err != nil {
			return &ConfigError{Key: key, Msg: fmt.Sprintf("%s does not exist", path)}
		}
		if info.IsDir() {
			return &ConfigError{Key: key, Msg: fmt.Sprintf("%s must be a file, not a directory", path)}
		}
	}
	if !strings.EqualFold(filepath.Ext(path), suffix) {
		return &ConfigError{Key: key, Msg: fmt.Sprintf("%s must be a %s file", path, strings.ToUpper(suffix[1:]))}
	}
	return nil
}

// ValidInput requires an existing CSV input file
func ValidInput(c *Config) error {
	if c.Input == "" {
		return &ConfigError{Key: "input", Msg: "no input file"}
	}
	return validFile(c.Input, "input", ".csv", true)
}

// ValidOutput requires an XLSX output path
func ValidOutput(c *Config) error {
	if c.Output == "" {
		return &ConfigError{Key: "output", Msg: "no output file"}
	}
	return validFile(c.Output, "output", ".xlsx", false)
}

func ValidMode(c *Config) error {
	if _, err := meta.ParseMode(c.Mode); err != nil {
		return &ConfigError{Key: "mode", Msg: err.Error()}
	}
	return nil
}

func ValidFilterRatio(c *Config) error {
	if c.FilterRatio < 0 || c.FilterRatio > 1 {
		return &ConfigError{Key: "filter-ratio", Msg: fmt.Sprintf("%v is not between 0 and 1", c.FilterRatio)}
	}
	return nil
}

func ValidImputeMethod(c *Config) error {
	if _, err := preprocess.ParseImputeMethod(c.ImputeMethod); err != nil {
		return &ConfigError{Key: "impute-method", Msg: err.Error()}
	}
	return nil
}

func ValidCorrThreshold(c *Config) error {
	if c.CorrThreshold < 0 || c.CorrThreshold > 1 {
		return &ConfigError{Key: "corr-threshold", Msg: fmt.Sprintf("%v is not between 0 and 1", c.CorrThreshold)}
	}
	return nil
}

func ValidCorrMethod(c *Config) error {
	if _, err := postfilter.ParseMethod(c.CorrMethod); err != nil {
		return &ConfigError{Key: "corr-method", Msg: err.Error()}
	}
	return nil
}

// ValidFormulaFile accepts no formula file or an existing TXT file
func ValidFormulaFile(c *Config) error {
	if c.FormulaFile == "" {
		return nil
	}
	return validFile(c.FormulaFile, "formula-file", ".txt", true)
}

// ValidStructureFile accepts no structure file or an existing CSV file
func ValidStructureFile(c *Config) error {
	if c.StructureFile == "" {
		return nil
	}
	return validFile(c.StructureFile, "structure-file", ".csv", true)
}

// ValidCompositionMode rejects a structure file in composition mode
func ValidCompositionMode(c *Config) error {
	if c.Mode == string(meta.CompositionMode) && c.StructureFile != "" {
		return &ConfigError{Key: "structure-file", Msg: "a structure file cannot be used in composition mode"}
	}
	return nil
}

func ValidPort(c *Config) error {
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigError{Key: "port", Msg: fmt.Sprintf("%d is not a valid port", c.Port)}
	}
	return nil
}
