package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	mmd2svg "github.com/alnah/go-mmd2svg"
)

// Status marks. color.NoColor (set from NO_COLOR, a non-terminal stdout,
// or --no-color) reduces them to plain text.
var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.FgCyan)
)

func okMark() string   { return okColor.Sprint("✓") }
func failMark() string { return failColor.Sprint("✗") }

// sourceRule frames the echoed diagram source.
var sourceRule = strings.Repeat("=", 50)

// printer narrates conversions. Progress goes to stdout, failures to stderr.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	quiet   bool
	verbose bool
}

func newPrinter(env *Environment, quiet, verbose bool) *printer {
	return &printer{out: env.Stdout, errOut: env.Stderr, quiet: quiet, verbose: verbose}
}

// engine reports the resolved strategy in verbose mode.
func (p *printer) engine(engine mmd2svg.Engine, capability mmd2svg.Capability) {
	if !p.verbose {
		return
	}
	line := "engine: " + string(engine)
	if capability.Available && capability.Version != "" {
		line += " (mmdc " + capability.Version + ")"
	}
	fmt.Fprintln(p.out, infoColor.Sprint(line))
}

// result prints one diagnostic per stage. On failure the last diagnostic
// is the failing stage and goes to stderr.
func (p *printer) result(input string, res *mmd2svg.Result, err error, took time.Duration) {
	if !p.quiet {
		fmt.Fprintf(p.out, "==> %s\n", displayName(input))
	}
	if res == nil {
		return
	}

	for i, diag := range res.Diagnostics {
		failedStage := err != nil && i == len(res.Diagnostics)-1
		switch {
		case failedStage:
			if p.quiet {
				fmt.Fprintf(p.errOut, "%s: ", displayName(input))
			}
			fmt.Fprintln(p.errOut, indentContinuation(failMark()+" "+diag))
		case !p.quiet:
			fmt.Fprintln(p.out, indentContinuation(okMark()+" "+diag))
		}
	}

	if p.verbose {
		fmt.Fprintln(p.out, infoColor.Sprintf("   %s in %s", res.State, elapsed(took)))
	}
}

// failure reports an input that never reached the converter.
func (p *printer) failure(input string, err error) {
	fmt.Fprintf(p.errOut, "%s %s: %v\n", failMark(), displayName(input), err)
}

// source echoes the extracted diagram source between rules.
func (p *printer) source(src string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, "=== Processed Mermaid code ===")
	fmt.Fprintln(p.out, src)
	fmt.Fprintln(p.out, sourceRule)
}

// indentContinuation aligns the lines of a multi-line diagnostic under its first line.
func indentContinuation(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}

// elapsed formats a duration for verbose output.
func elapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
