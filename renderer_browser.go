package mmd2svg

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mmd2svg/internal/fileutil"
)

// defaultBrowserTimeout bounds page load and diagram drawing when neither
// the context nor WithTimeout sets a limit.
const defaultBrowserTimeout = 30 * time.Second

// diagramSelector matches the SVG mermaid.js inserts into the container.
const diagramSelector = ".mermaid svg"

// browserRenderer loads the fallback document in headless Chrome and saves
// the SVG mermaid.js draws. Rod downloads Chromium on first run if none is found.
type browserRenderer struct {
	html     *htmlRenderer
	timeout  time.Duration
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newBrowserRenderer(html *htmlRenderer, timeout time.Duration) *browserRenderer {
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	return &browserRenderer{html: html, timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *browserRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources.
func (r *browserRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// Render draws src in the browser and writes the SVG markup to outputPath.
func (r *browserRenderer) Render(ctx context.Context, src, outputPath string) (*Outcome, error) {
	if outputPath == "" {
		return nil, ErrEmptyOutputPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := r.html.document(src, outputPath)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteTemp, err)
	}
	defer cleanup()

	if err := r.ensureBrowser(); err != nil {
		return r.failure(outputPath, err), err
	}

	timeout, err := pageTimeout(ctx, r.timeout)
	if err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrPageCreate, err)
		return r.failure(outputPath, err), err
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(timeout)
	if err := p.WaitLoad(); err != nil {
		err = fmt.Errorf("%w: %v", ErrPageLoad, err)
		return r.failure(outputPath, err), err
	}

	el, err := p.Element(diagramSelector)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDiagramNotRendered, err)
		return r.failure(outputPath, err), err
	}

	svg, err := el.HTML()
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDiagramNotRendered, err)
		return r.failure(outputPath, err), err
	}

	if err := os.WriteFile(outputPath, []byte(svg), 0o644); err != nil { // #nosec G306 -- image is meant to be opened by other programs
		err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return r.failure(outputPath, err), err
	}

	return &Outcome{
		Success:    true,
		Path:       outputPath,
		Diagnostic: svgGenerated(outputPath),
		Strategy:   StrategyBrowser,
	}, nil
}

func (r *browserRenderer) failure(outputPath string, err error) *Outcome {
	return &Outcome{
		Path:       outputPath,
		Diagnostic: "browser rendering error: " + err.Error(),
		Strategy:   StrategyBrowser,
	}
}

// pageTimeout bounds the page load by the configured timeout and the
// context deadline, whichever comes first.
func pageTimeout(ctx context.Context, configured time.Duration) (time.Duration, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return configured, nil
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, context.DeadlineExceeded
	}
	if configured > 0 && configured < remaining {
		return configured, nil
	}
	return remaining, nil
}
