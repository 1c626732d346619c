package main

// Notes:
// - These tests use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	mmd2svg "github.com/alnah/go-mmd2svg"
	"github.com/alnah/go-mmd2svg/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable reading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MMD2SVG_CONFIG", "work")
	t.Setenv("MMD2SVG_ENGINE", "html")
	t.Setenv("MMD2SVG_BIN", "/opt/mmdc")
	t.Setenv("MMD2SVG_TIMEOUT", "1m")
	t.Setenv("MMD2SVG_OUTPUT_DIR", "diagrams")
	t.Setenv("MMD2SVG_THEME", "neutral")

	want := &envConfig{
		ConfigPath: "work",
		Engine:     "html",
		Binary:     "/opt/mmdc",
		Timeout:    "1m",
		OutputDir:  "diagrams",
		Theme:      "neutral",
	}
	if diff := cmp.Diff(want, loadEnvConfig()); diff != "" {
		t.Errorf("env config mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides config file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	cfg := &config.Config{
		Renderer: config.RendererConfig{Engine: "cli", Binary: "mmdc", Theme: "forest"},
		Output:   config.OutputConfig{DefaultDir: "from-file"},
	}
	env := &envConfig{Engine: "html", OutputDir: "from-env"}

	applyEnvConfig(env, cfg)

	want := &config.Config{
		Renderer: config.RendererConfig{Engine: "html", Binary: "mmdc", Theme: "forest"},
		Output:   config.OutputConfig{DefaultDir: "from-env"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestPrecedence_FlagsOverEnvOverFile(t *testing.T) {
	cfg := &config.Config{Renderer: config.RendererConfig{Theme: "forest", Timeout: "5s", Engine: "cli"}}

	applyEnvConfig(&envConfig{Theme: "dark", Timeout: "10s"}, cfg)
	mergeFlags(&convertFlags{renderer: rendererFlags{theme: "neutral"}}, cfg)

	want := config.RendererConfig{Theme: "neutral", Timeout: "10s", Engine: "cli"}
	if diff := cmp.Diff(want, cfg.Renderer); diff != "" {
		t.Errorf("renderer config mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MMD2SVG_THEME", "dark")
	t.Setenv("MMD2SVG_TIMOUT", "30s")
	t.Setenv("MMD2SVG_ENGIN", "cli")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	want := "warning: unknown environment variable MMD2SVG_ENGIN (typo?)\n" +
		"warning: unknown environment variable MMD2SVG_TIMOUT (typo?)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMain_EnvEngine(t *testing.T) {
	t.Setenv("MMD2SVG_ENGINE", "html")

	dir := t.TempDir()
	input := writeInput(t, dir, "d.md", "graph TD\nA-->B")
	runner := &fakeRunner{}
	env := newTestEnv(mmd2svg.Capability{Available: true}, runner)

	if code := runMain(t.Context(), []string{"mmd2svg", input}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, env.stderr.String())
	}
	if !exists(filepath.Join(dir, "d.html")) {
		t.Error("MMD2SVG_ENGINE=html should force the HTML document")
	}
	if runner.count() != 0 {
		t.Error("mmdc should not run with the html engine")
	}
}
