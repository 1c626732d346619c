// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mmd2svg/internal/fileutil"
)

// InstallCommand is the npm command that installs the mermaid CLI (mmdc).
const InstallCommand = "npm install -g @mermaid-js/mermaid-cli"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a well-known CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForConverterMissing returns the hint shown when mmdc could not be found.
func ForConverterMissing() string {
	return format("for SVG output, install: " + InstallCommand)
}

// ForConverterFailure returns hints for mmdc runs that exited non-zero.
// mmdc drives a headless Chromium through Puppeteer, which needs its sandbox
// disabled inside most containers.
func ForConverterFailure() string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("PUPPETEER_EXECUTABLE_PATH") == "" {
		hints = append(hints, "set PUPPETEER_EXECUTABLE_PATH or pass a Puppeteer config with --no-sandbox via --puppeteer-config")
	}
	hints = append(hints, "run 'mmd2svg doctor' to check the converter")

	return formatHints(hints)
}

// ForBrowserConnect returns hints for browser connection errors (browser engine).
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "true" {
		hints = append(hints, "set ROD_NO_SANDBOX=true for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow conversions.
func ForTimeout() string {
	return format("for large diagrams, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mmd2svg/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mmd2svg") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForValidation returns a hint for diagrams rejected before rendering.
func ForValidation() string {
	return format("the diagram must be a Mermaid flowchart, e.g. \"graph TD\" followed by edges like \"A-->B\"")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
