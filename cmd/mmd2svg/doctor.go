package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	mmd2svg "github.com/alnah/go-mmd2svg"
	"github.com/alnah/go-mmd2svg/internal/hints"
)

// doctorProbeTimeout bounds each external version check.
const doctorProbeTimeout = 20 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Converter converterInfo `json:"converter"`
	Chrome    chromeInfo    `json:"chrome"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// converterInfo holds mermaid CLI detection results.
type converterInfo struct {
	Binary  string `json:"binary"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results (browser engine).
type chromeInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	PuppeteerPath string `json:"puppeteer_executable_path,omitempty"`
	BrowserBin    string `json:"rod_browser_bin,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorChecks holds the external lookups, injectable for tests.
type doctorChecks struct {
	runner     mmd2svg.CommandRunner
	lookPath   func(string) (string, error)
	findChrome func() (string, bool)
	tempDir    func() string
}

func defaultDoctorChecks() doctorChecks {
	return doctorChecks{
		runner:     &mmd2svg.ExecRunner{},
		lookPath:   exec.LookPath,
		findChrome: launcher.LookPath,
		tempDir:    os.TempDir,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	return runDoctorWith(args, env, defaultDoctorChecks())
}

func runDoctorWith(args []string, env *Environment, checks doctorChecks) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	bin := os.Getenv("MMD2SVG_BIN")
	if bin == "" {
		bin = mmd2svg.DefaultBinary
	}

	result := runDoctor(bin, checks)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(bin string, checks doctorChecks) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:            runtime.GOOS,
			Arch:          runtime.GOARCH,
			PuppeteerPath: os.Getenv("PUPPETEER_EXECUTABLE_PATH"),
			BrowserBin:    os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkConverter(result, bin, checks)
	checkChrome(result, checks)
	checkEnvironment(result)
	checkSystem(result, checks)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConverter locates mmdc and asks for its version. A missing converter
// is a warning: conversions still produce the HTML fallback.
func checkConverter(result *doctorResult, bin string, checks doctorChecks) {
	result.Converter.Binary = bin

	path, err := checks.lookPath(bin)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not found; diagrams will be written as HTML. Install: %s", bin, hints.InstallCommand))
		return
	}
	result.Converter.Path = path

	ctx, cancel := context.WithTimeout(context.Background(), doctorProbeTimeout)
	defer cancel()

	capability := mmd2svg.Probe(ctx, checks.runner, path)
	if !capability.Available {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s found at %s but '%s --version' failed", bin, path, bin))
		return
	}
	result.Converter.Found = true
	result.Converter.Version = capability.Version
}

// checkChrome detects Chrome/Chromium for the browser engine.
func checkChrome(result *doctorResult, checks doctorChecks) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = checks.findChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; the browser engine will download one on first use, or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
}

// checkEnvironment detects container and CI environments, where mmdc's
// Chromium usually cannot use its sandbox.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Converter.Found && result.Env.PuppeteerPath == "" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected: pass a Puppeteer config with \"args\": [\"--no-sandbox\"] via --puppeteer-config")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MMD2SVG_CONTAINER") == "1" {
		return true, "MMD2SVG_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory accepts the diagram source file.
func checkSystem(result *doctorResult, checks doctorChecks) {
	tmpDir := checks.tempDir()
	testFile := filepath.Join(tmpDir, "mmd2svg-doctor-test")
	if err := os.WriteFile(testFile, []byte("graph TD"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mmd2svg doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Mermaid CLI")
	if r.Converter.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Converter.Path)
		if r.Converter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Converter.Version)
		}
	} else {
		fmt.Fprintf(w, "  [WARN] %s unavailable, HTML fallback in use\n", r.Converter.Binary)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (browser engine)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] OS: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [INFO] Container: yes (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [INFO] CI: yes")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory not writable")
	}

	if len(r.Warnings) > 0 || len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Status: %s\n", strings.ToUpper(r.Status))
}
