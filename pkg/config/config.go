// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/videostab/pkg/orchestrator"
)

// Strategy names accepted in configuration files and on the command line.
const (
	StrategyCorrelation = "correlation"
	StrategyFeature     = "feature"
)

// Config represents the full configuration for videostab.
type Config struct {
	// Input/Output
	InputPath string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`

	// Frame cache
	CacheRoot string `yaml:"cache_root"`

	// Stabilization
	ReferenceIndex int    `yaml:"reference_index"`
	Strategy       string `yaml:"strategy"`
	MaxShift       int    `yaml:"max_shift"`
	Workers        int    `yaml:"workers"`

	// Encoding
	FPS       float64 `yaml:"fps"`
	CRF       int     `yaml:"crf"`
	Bitrate   int     `yaml:"bitrate"`
	Container string  `yaml:"container"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		CacheRoot: "Extracted_Frames",

		ReferenceIndex: 1,
		Strategy:       StrategyCorrelation,

		CRF:       23,
		Container: "mp4",

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the fields that only make sense for a subset of values.
func (c Config) Validate() error {
	if c.Strategy != StrategyCorrelation && c.Strategy != StrategyFeature {
		return fmt.Errorf("unknown strategy %q (expected %q or %q)", c.Strategy, StrategyCorrelation, StrategyFeature)
	}
	if c.Container != "mp4" && c.Container != "avi" {
		return fmt.Errorf("unknown container %q (expected \"mp4\" or \"avi\")", c.Container)
	}
	if c.ReferenceIndex < 1 {
		return fmt.Errorf("reference index must be 1 or greater, got %d", c.ReferenceIndex)
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %v", c.FPS)
	}
	return nil
}

// StrategyTag returns the short strategy tag stamped into output file names.
func (c Config) StrategyTag() string {
	if c.Strategy == StrategyFeature {
		return "FEAT"
	}
	return "CORR"
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		SourcePath: c.InputPath,
		OutputDir:  c.OutputDir,
		CacheRoot:  c.CacheRoot,

		ReferenceIndex: c.ReferenceIndex,
		Strategy:       c.StrategyTag(),

		FrameRate: c.FPS,
		CRF:       c.CRF,
		Bitrate:   c.Bitrate,
		Container: c.Container,
	}
}
