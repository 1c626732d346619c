package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alnah/go-mmd2svg/internal/config"
)

// envPrefix starts every environment variable read by mmd2svg.
const envPrefix = "MMD2SVG_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath string // MMD2SVG_CONFIG: config file name or path
	Engine     string // MMD2SVG_ENGINE: auto, cli, html, browser
	Binary     string // MMD2SVG_BIN: mermaid CLI executable
	Timeout    string // MMD2SVG_TIMEOUT: render timeout (Go duration)
	OutputDir  string // MMD2SVG_OUTPUT_DIR: default output directory
	Theme      string // MMD2SVG_THEME: mermaid theme
}

// knownEnvVars lists valid MMD2SVG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MMD2SVG_CONFIG":     true,
	"MMD2SVG_ENGINE":     true,
	"MMD2SVG_BIN":        true,
	"MMD2SVG_TIMEOUT":    true,
	"MMD2SVG_OUTPUT_DIR": true,
	"MMD2SVG_THEME":      true,
	"MMD2SVG_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("MMD2SVG_CONFIG"),
		Engine:     os.Getenv("MMD2SVG_ENGINE"),
		Binary:     os.Getenv("MMD2SVG_BIN"),
		Timeout:    os.Getenv("MMD2SVG_TIMEOUT"),
		OutputDir:  os.Getenv("MMD2SVG_OUTPUT_DIR"),
		Theme:      os.Getenv("MMD2SVG_THEME"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized MMD2SVG_* variables,
// in name order.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				unknown = append(unknown, name)
			}
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// Env values override the config file; CLI flags are applied later by
// mergeFlags, which gives: CLI flags > env vars > config file > defaults.
// Values are validated afterwards by config.Validate.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" {
		cfg.Renderer.Engine = env.Engine
	}
	if env.Binary != "" {
		cfg.Renderer.Binary = env.Binary
	}
	if env.Timeout != "" {
		cfg.Renderer.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Theme != "" {
		cfg.Renderer.Theme = env.Theme
	}
}
