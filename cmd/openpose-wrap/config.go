package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/theimaginaryfoundation/pose-wrapper/posewrap"
)

type Config struct {
	Inputs     []string
	OutputDir  string
	Preset     string
	Regex      string
	ConfigPath string

	Verbose     bool
	Verify      bool
	PrintSchema bool

	// Presets holds extra named patterns from the config file.
	Presets map[string]string
}

// fileConfig is the TOML config file layout. Pointer fields distinguish "unset" from false.
type fileConfig struct {
	Preset    string            `toml:"preset"`
	Regex     string            `toml:"regex"`
	OutputDir string            `toml:"output_dir"`
	Verbose   *bool             `toml:"verbose"`
	Verify    *bool             `toml:"verify"`
	Presets   map[string]string `toml:"presets"`
}

func (c Config) Validate() error {
	if c.PrintSchema {
		return nil
	}
	if len(c.Inputs) == 0 {
		return errors.New("missing INPUT_FILE arguments")
	}
	if c.Regex == "" {
		if _, ok := c.Presets[c.Preset]; !ok {
			if _, ok := posewrap.Presets[c.Preset]; !ok {
				return fmt.Errorf("unknown -preset %q", c.Preset)
			}
		}
	}
	return nil
}

// Pattern compiles the custom regex if given, else the selected preset. Config file presets
// shadow built-in ones of the same name.
func (c Config) Pattern() (*posewrap.Pattern, error) {
	if c.Regex != "" {
		return posewrap.CompilePattern(c.Regex)
	}
	if expr, ok := c.Presets[c.Preset]; ok {
		return posewrap.CompilePattern(expr)
	}
	return posewrap.PresetPattern(c.Preset)
}

func defaultConfig() Config {
	return Config{
		Preset: posewrap.DefaultPreset,
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// applyFileConfig fills every setting the command line left unset from the config file.
func applyFileConfig(cfg *Config, fc fileConfig, setOnCLI func(names ...string) bool) {
	if fc.Preset != "" && !setOnCLI("p", "preset") {
		cfg.Preset = fc.Preset
	}
	// A file regex would shadow any preset, including one chosen on the command line.
	if fc.Regex != "" && !setOnCLI("p", "preset", "r", "regex", "regexp") {
		cfg.Regex = fc.Regex
	}
	if fc.OutputDir != "" && !setOnCLI("o", "out", "output", "outputdir") {
		cfg.OutputDir = filepath.Clean(fc.OutputDir)
	}
	if fc.Verbose != nil && !setOnCLI("v", "verbose") {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Verify != nil && !setOnCLI("verify") {
		cfg.Verify = *fc.Verify
	}
	if len(fc.Presets) > 0 {
		cfg.Presets = fc.Presets
	}
}
