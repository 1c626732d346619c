package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	mmd2svg "github.com/alnah/go-mmd2svg"
	"github.com/alnah/go-mmd2svg/internal/config"
	"github.com/alnah/go-mmd2svg/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read input")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// stdinArg names standard input on the command line.
const stdinArg = "-"

// stdinBase names the output of a diagram read from stdin.
const stdinBase = "diagram"

// dirPermissions is used for output directories: rwxr-x---.
const dirPermissions = 0o750

// maxInputSize caps how much text is read per input (10MB).
const maxInputSize = 10 << 20

// runConvertCmd parses flags, converts every input, and maps the outcome to
// an exit code. Errors are printed with an actionable hint when one applies.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, inputs, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	if flags.common.noColor {
		color.NoColor = true
	}

	if err := runConvert(ctx, inputs, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "%s %v%s\n", failMark(), err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert resolves configuration and converts inputs one after another.
// With several inputs, every input is attempted; the returned error wraps
// the last failure.
func runConvert(ctx context.Context, inputs []string, flags *convertFlags, env *Environment) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: pass a file, or - for stdin", ErrNoInput)
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	conv, err := env.NewConverter(buildOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("creating converter: %w", err)
	}
	defer conv.Close()

	p := newPrinter(env, flags.common.quiet, flags.common.verbose)
	p.engine(conv.Engine(), conv.Capability())

	plan := planOutput(flags.output, cfg, len(inputs))

	var failed int
	var lastErr error
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := convertOne(ctx, conv, input, plan, flags.printSource, p, env)
		if err != nil {
			failed++
			lastErr = err
		}
	}

	switch {
	case failed == 0:
		return nil
	case len(inputs) == 1:
		return lastErr
	default:
		return fmt.Errorf("%d of %d conversion(s) failed, last: %w", failed, len(inputs), lastErr)
	}
}

// convertOne reads one input, runs the converter, and prints its diagnostics.
func convertOne(ctx context.Context, conv diagramConverter, input string, plan outputPlan, printSource bool, p *printer, env *Environment) error {
	text, err := readInput(input, env.Stdin)
	if err != nil {
		p.failure(input, err)
		return err
	}

	out := plan.pathFor(input)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			err = fmt.Errorf("%w: %v%s", ErrCreateOutputDir, err, hints.ForOutputDirectory())
			p.failure(input, err)
			return err
		}
	}

	start := env.Now()
	res, err := conv.Run(ctx, text, out)
	p.result(input, res, err, env.Now().Sub(start))

	if printSource && res != nil && res.Source != "" {
		p.source(res.Source)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", displayName(input), err)
	}
	return nil
}

// loadConfig loads the config named by the flag, else by MMD2SVG_CONFIG,
// else returns defaults.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags overrides config values with explicitly provided CLI flags.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	r := flags.renderer
	if r.engine != "" {
		cfg.Renderer.Engine = r.engine
	}
	if r.binary != "" {
		cfg.Renderer.Binary = r.binary
	}
	if r.background != "" {
		cfg.Renderer.Background = r.background
	}
	if r.theme != "" {
		cfg.Renderer.Theme = r.theme
	}
	if r.mermaidConfig != "" {
		cfg.Renderer.ConfigFile = r.mermaidConfig
	}
	if r.puppeteerConfig != "" {
		cfg.Renderer.PuppeteerConfig = r.puppeteerConfig
	}
	if r.timeout != "" {
		cfg.Renderer.Timeout = r.timeout
	}

	f := flags.fallback
	if f.scriptURL != "" {
		cfg.Fallback.ScriptURL = f.scriptURL
	}
	if f.template != "" {
		cfg.Fallback.Template = f.template
	}
	if f.noSource {
		cfg.Fallback.HideSource = true
	}
}

// buildOptions translates a validated config into converter options.
func buildOptions(cfg *config.Config) []mmd2svg.Option {
	opts := []mmd2svg.Option{
		mmd2svg.WithEngine(mmd2svg.Engine(cfg.Renderer.Engine)),
		mmd2svg.WithBinary(cfg.Renderer.Binary),
		mmd2svg.WithBackground(cfg.Renderer.Background),
		mmd2svg.WithTheme(cfg.Renderer.Theme),
		mmd2svg.WithMermaidConfig(cfg.Renderer.ConfigFile),
		mmd2svg.WithPuppeteerConfig(cfg.Renderer.PuppeteerConfig),
		mmd2svg.WithTimeout(cfg.TimeoutDuration()),
		mmd2svg.WithScriptURL(cfg.Fallback.ScriptURL),
		mmd2svg.WithTemplate(cfg.Fallback.Template),
		mmd2svg.WithShowSource(!cfg.Fallback.HideSource),
	}
	if cfg.Fallback.Theme != "" {
		opts = append(opts, mmd2svg.WithFallbackTheme(cfg.Fallback.Theme))
	}
	return opts
}

// readInput reads a file, or stdin for "-".
func readInput(input string, stdin io.Reader) (string, error) {
	var r io.Reader
	if input == stdinArg {
		r = stdin
	} else {
		f, err := os.Open(input) // #nosec G304 -- user-provided input path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadInput, displayName(input), err)
	}
	if len(data) > maxInputSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrReadInput, displayName(input), maxInputSize)
	}
	return string(data), nil
}

// outputPlan decides where each input's artifact goes.
// Exactly one of file and dir is meaningful: file wins when set.
type outputPlan struct {
	file string // explicit artifact path (single input only)
	dir  string // target directory, "" = next to each input
}

// planOutput interprets --output: with a single input and an extension it
// names the artifact itself, otherwise a directory. Without --output,
// output.defaultDir applies.
func planOutput(flagOutput string, cfg *config.Config, inputCount int) outputPlan {
	if flagOutput == "" {
		return outputPlan{dir: cfg.Output.DefaultDir}
	}
	if inputCount == 1 && isFileOutput(flagOutput) {
		return outputPlan{file: flagOutput}
	}
	return outputPlan{dir: flagOutput}
}

// isFileOutput reports whether an --output value names a file.
func isFileOutput(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return false
	}
	return filepath.Ext(path) != ""
}

// pathFor computes the artifact path for input: <dir>/<input base>.svg,
// where dir defaults to the input's directory. Stdin becomes diagram.svg.
func (p outputPlan) pathFor(input string) string {
	if p.file != "" {
		return p.file
	}

	base := stdinBase
	dir := p.dir
	if input != stdinArg {
		name := filepath.Base(input)
		base = strings.TrimSuffix(name, filepath.Ext(name))
		if dir == "" {
			dir = filepath.Dir(input)
		}
	}

	return filepath.Join(dir, base+".svg")
}

// displayName returns a label for input in messages.
func displayName(input string) string {
	if input == stdinArg {
		return "stdin"
	}
	return input
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mmd2svg.ErrConverterExec):
		return hints.ForConverterFailure()
	case errors.Is(err, mmd2svg.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mmd2svg.ErrMissingKeyword), errors.Is(err, mmd2svg.ErrTooShort):
		return hints.ForValidation()
	}
	return ""
}
