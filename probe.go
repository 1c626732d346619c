package mmd2svg

import (
	"context"
	"strings"
)

// DefaultBinary is the mermaid CLI executable looked up on PATH.
const DefaultBinary = "mmdc"

// Probe reports whether bin can be launched by running "bin --version".
// Any launch error or non-zero exit means unavailable. Probe never fails:
// the answer is data the caller hands to NewConverter via WithCapability.
// A nil runner uses ExecRunner; an empty bin uses DefaultBinary.
func Probe(ctx context.Context, runner CommandRunner, bin string) Capability {
	if runner == nil {
		runner = &ExecRunner{}
	}
	if bin == "" {
		bin = DefaultBinary
	}

	stdout, _, err := runner.Run(ctx, bin, "--version")
	if err != nil {
		return Capability{}
	}
	return Capability{Available: true, Version: firstLine(stdout)}
}

// firstLine returns the first non-empty trimmed line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
