package mmd2svg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mmd2svg/internal/assets"
	"github.com/alnah/go-mmd2svg/internal/fileutil"
	"github.com/alnah/go-mmd2svg/internal/pipeline"
)

// templateSample is rendered once to check a template.
const templateSample = "graph TD\n  A --> B"

// htmlRenderer writes a self-contained document that draws the diagram with
// mermaid.js in the browser. It never starts a process.
type htmlRenderer struct {
	builder *pipeline.DocumentBuilder
	data    pipeline.DocumentData
}

// newHTMLRenderer loads the document template (a custom file or the embedded
// default) and the embedded stylesheet.
func newHTMLRenderer(cfg converterConfig) (*htmlRenderer, error) {
	tmpl, err := loadTemplate(cfg.templatePath)
	if err != nil {
		return nil, err
	}

	style, err := assets.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}

	builder, err := pipeline.NewDocumentBuilder(tmpl, style, cfg.listingStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}

	// Reject templates that cannot host a diagram before any input is read.
	if _, err := builder.Build(pipeline.DocumentData{Source: templateSample}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateLoad, err)
	}

	return &htmlRenderer{
		builder: builder,
		data: pipeline.DocumentData{
			ScriptURL:  cfg.scriptURL,
			Theme:      cfg.fallbackTheme,
			ShowSource: !cfg.hideSource,
		},
	}, nil
}

// loadTemplate reads a template file, or the embedded default when path is empty.
func loadTemplate(path string) (string, error) {
	if path == "" {
		tmpl, err := assets.LoadTemplate(assets.DefaultTemplateName)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTemplateLoad, err)
		}
		return tmpl, nil
	}

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided template path
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrTemplateLoad, path, err)
	}
	return string(content), nil
}

// document renders the full HTML for src, titled after the output file.
func (r *htmlRenderer) document(src, outputPath string) (string, error) {
	data := r.data
	data.Source = src
	data.Title = strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	return r.builder.Build(data)
}

// Render writes the document next to outputPath, swapping an image
// extension for .html.
func (r *htmlRenderer) Render(ctx context.Context, src, outputPath string) (*Outcome, error) {
	if outputPath == "" {
		return nil, ErrEmptyOutputPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlPath := fileutil.SwapExtension(outputPath, ".html", fallbackReplaceable...)

	doc, err := r.document(src, outputPath)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(htmlPath, []byte(doc), 0o644); err != nil { // #nosec G306 -- document is meant to be opened by other programs
		return &Outcome{
			Path:       htmlPath,
			Diagnostic: fmt.Sprintf("could not write %s: %v", htmlPath, err),
			Strategy:   StrategyHTML,
		}, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	return &Outcome{
		Success:    true,
		Path:       htmlPath,
		Diagnostic: htmlGenerated(htmlPath),
		Strategy:   StrategyHTML,
	}, nil
}

// htmlGenerated tells the user the artifact is not an SVG and how to get one.
func htmlGenerated(path string) string {
	return "HTML generated: " + path + "\n" +
		"Open it in a browser to view the diagram (this is not an SVG).\n" +
		"For SVG output, install the mermaid CLI: " + installHint
}
