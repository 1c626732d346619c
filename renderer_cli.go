package mmd2svg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mmd2svg/internal/fileutil"
)

// defaultBackground keeps the SVG canvas see-through.
const defaultBackground = "transparent"

// cliRenderer renders with the mermaid CLI through a temporary source file.
type cliRenderer struct {
	runner          CommandRunner
	bin             string
	background      string
	theme           string
	mermaidConfig   string
	puppeteerConfig string
	timeout         time.Duration
}

// args builds the mmdc argument list. Optional flags appear only when set.
func (r *cliRenderer) args(input, output string) []string {
	background := r.background
	if background == "" {
		background = defaultBackground
	}

	args := []string{"-i", input, "-o", output, "-b", background}
	if r.theme != "" {
		args = append(args, "-t", r.theme)
	}
	if r.mermaidConfig != "" {
		args = append(args, "-c", r.mermaidConfig)
	}
	if r.puppeteerConfig != "" {
		args = append(args, "-p", r.puppeteerConfig)
	}
	return args
}

// Render writes src to a unique temp file and runs mmdc on it.
// The temp file is removed on every path out of Render.
func (r *cliRenderer) Render(ctx context.Context, src, outputPath string) (*Outcome, error) {
	if outputPath == "" {
		return nil, ErrEmptyOutputPath
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(src, "mmd")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteTemp, err)
	}
	defer cleanup()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	_, stderr, err := r.runner.Run(ctx, r.bin, r.args(tmpPath, outputPath)...)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return &Outcome{
			Path:       outputPath,
			Diagnostic: "conversion error: " + detail,
			Strategy:   StrategyCLI,
		}, fmt.Errorf("%w: %w", ErrConverterExec, err)
	}

	return &Outcome{
		Success:    true,
		Path:       outputPath,
		Diagnostic: svgGenerated(outputPath),
		Strategy:   StrategyCLI,
	}, nil
}
