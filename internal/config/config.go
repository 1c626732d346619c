// Package config loads mmd2svg settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mmd2svg/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096 // Filesystem paths
	MaxURLLength        = 2048 // Browser limit
	MaxBackgroundLength = 50   // "transparent", "#ffffff", "white"
	MaxThemeLength      = 50   // "default", "forest", "dark", "neutral"
)

// Engine names accepted in renderer.engine.
const (
	EngineAuto    = "auto"
	EngineCLI     = "cli"
	EngineHTML    = "html"
	EngineBrowser = "browser"
)

// ValidEngines lists the accepted renderer.engine values.
var ValidEngines = []string{EngineAuto, EngineCLI, EngineHTML, EngineBrowser}

// configDirName is the directory under os.UserConfigDir() searched for configs.
const configDirName = "go-mmd2svg"

// Config holds all configuration for diagram conversion.
type Config struct {
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
	Fallback FallbackConfig `yaml:"fallback" toml:"fallback"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
}

// RendererConfig selects and tunes the conversion engine.
type RendererConfig struct {
	Engine          string `yaml:"engine" toml:"engine"`                   // auto, cli, html, browser (default: auto)
	Binary          string `yaml:"binary" toml:"binary"`                   // mermaid CLI executable (default: mmdc)
	Background      string `yaml:"background" toml:"background"`           // -b value (default: transparent)
	Theme           string `yaml:"theme" toml:"theme"`                     // -t value, empty = mmdc default
	ConfigFile      string `yaml:"configFile" toml:"configFile"`           // -c mermaid config JSON
	PuppeteerConfig string `yaml:"puppeteerConfig" toml:"puppeteerConfig"` // -p Puppeteer config JSON
	Timeout         string `yaml:"timeout" toml:"timeout"`                 // Go duration, empty = no timeout
}

// FallbackConfig tunes the HTML document written when mmdc is unavailable.
type FallbackConfig struct {
	ScriptURL  string `yaml:"scriptURL" toml:"scriptURL"`   // mermaid.js location
	Theme      string `yaml:"theme" toml:"theme"`           // mermaid.initialize theme (default: default)
	Template   string `yaml:"template" toml:"template"`     // custom html/template file
	HideSource bool   `yaml:"hideSource" toml:"hideSource"` // omit the highlighted source listing
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // empty = next to the input
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Renderer.Engine != "" && !isValidEngine(c.Renderer.Engine) {
		return fmt.Errorf("%w: renderer.engine %q (must be one of %s)",
			ErrInvalidField, c.Renderer.Engine, strings.Join(ValidEngines, ", "))
	}
	if c.Renderer.Timeout != "" {
		d, err := time.ParseDuration(c.Renderer.Timeout)
		if err != nil {
			return fmt.Errorf("%w: renderer.timeout %q: %v", ErrInvalidField, c.Renderer.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: renderer.timeout must not be negative, got %s", ErrInvalidField, d)
		}
	}

	if c.Fallback.ScriptURL != "" && !fileutil.IsURL(c.Fallback.ScriptURL) {
		return fmt.Errorf("%w: fallback.scriptURL %q must be an http or https URL",
			ErrInvalidField, c.Fallback.ScriptURL)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"renderer.binary", c.Renderer.Binary, MaxPathLength},
		{"renderer.background", c.Renderer.Background, MaxBackgroundLength},
		{"renderer.theme", c.Renderer.Theme, MaxThemeLength},
		{"renderer.configFile", c.Renderer.ConfigFile, MaxPathLength},
		{"renderer.puppeteerConfig", c.Renderer.PuppeteerConfig, MaxPathLength},
		{"fallback.scriptURL", c.Fallback.ScriptURL, MaxURLLength},
		{"fallback.theme", c.Fallback.Theme, MaxThemeLength},
		{"fallback.template", c.Fallback.Template, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	return nil
}

// TimeoutDuration returns the parsed renderer timeout, zero when unset.
// Call Validate first; an unparsable value yields zero.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Renderer.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Renderer.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// isValidEngine checks engine names case-insensitively.
func isValidEngine(engine string) bool {
	for _, e := range ValidEngines {
		if strings.EqualFold(engine, e) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: every field empty, so the
// library defaults (auto engine, mmdc, transparent background) apply.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or ends in .yaml, .yml or .toml,
// it's treated as a file path. Otherwise, it's treated as a config name and searched in standard locations.
// The format follows the extension: .toml is TOML, anything else is YAML.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) || hasConfigExtension(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		err = decodeTOML(data, &cfg)
	} else {
		err = decodeYAML(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// hasConfigExtension reports whether name already carries a config extension.
func hasConfigExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// SearchPaths lists, in lookup order, the files tried for a config name:
// the current directory first, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml", ".toml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
