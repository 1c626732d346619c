package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	noColor bool
}

// rendererFlags holds conversion engine flags.
type rendererFlags struct {
	engine          string
	binary          string
	background      string
	theme           string
	mermaidConfig   string
	puppeteerConfig string
	timeout         string
}

// fallbackFlags holds HTML document flags.
type fallbackFlags struct {
	scriptURL string
	template  string
	noSource  bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common      commonFlags
	output      string
	printSource bool
	renderer    rendererFlags
	fallback    fallbackFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show engine and timing")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// addRendererFlags adds engine flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "auto, cli, html or browser")
	fs.StringVar(&f.binary, "bin", "", "mermaid CLI executable")
	fs.StringVarP(&f.background, "background", "b", "", "SVG background color")
	fs.StringVarP(&f.theme, "theme", "t", "", "mermaid theme")
	fs.StringVar(&f.mermaidConfig, "mermaid-config", "", "mermaid JSON config file")
	fs.StringVar(&f.puppeteerConfig, "puppeteer-config", "", "Puppeteer JSON config file")
	fs.StringVar(&f.timeout, "timeout", "", "render timeout (e.g. 30s, 2m)")
}

// addFallbackFlags adds HTML document flags to a FlagSet.
func addFallbackFlags(fs *flag.FlagSet, f *fallbackFlags) {
	fs.StringVar(&f.scriptURL, "script-url", "", "mermaid.js URL for the HTML document")
	fs.StringVar(&f.template, "template", "", "custom HTML document template")
	fs.BoolVar(&f.noSource, "no-source", false, "omit the source listing from the HTML document")
}

// parseConvertFlags parses convert arguments and returns the flags and
// positional inputs. A lone "-" stays positional and means stdin.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}

	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)
	addFallbackFlags(fs, &f.fallback)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.printSource, "print-source", false, "print the extracted diagram source")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	return f, fs.Args(), nil
}
