package mmd2svg

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-mmd2svg/internal/pipeline"
)

// probeTimeout bounds the "mmdc --version" check run by NewConverter.
const probeTimeout = 15 * time.Second

// Converter orchestrates extraction, validation and rendering.
// Create with NewConverter(), use Run() for conversion, and Close() when done.
// A Converter is not safe for concurrent use.
type Converter struct {
	cfg        converterConfig
	extractor  *pipeline.Extractor
	renderer   Renderer
	engine     Engine
	capability Capability
}

// NewConverter creates a Converter. With EngineAuto (the default) and no
// WithCapability option, it probes the mermaid CLI once; the answer is
// never refreshed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:       converterConfig{engine: EngineAuto, binary: DefaultBinary},
		extractor: pipeline.NewExtractor(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.runner == nil {
		c.cfg.runner = &ExecRunner{}
	}
	if c.cfg.binary == "" {
		c.cfg.binary = DefaultBinary
	}

	// Injected renderer (e.g., by tests)
	if c.renderer != nil {
		c.engine = c.cfg.engine
		if c.cfg.capability != nil {
			c.capability = *c.cfg.capability
		}
		return c, nil
	}

	engine := Engine(strings.ToLower(strings.TrimSpace(string(c.cfg.engine))))
	if engine == "" {
		engine = EngineAuto
	}

	var err error
	switch engine {
	case EngineAuto:
		c.capability = c.resolveCapability()
		if c.capability.Available {
			c.engine = EngineCLI
			c.renderer = c.newCLIRenderer()
		} else {
			c.engine = EngineHTML
			c.renderer, err = newHTMLRenderer(c.cfg)
		}
	case EngineCLI:
		if c.cfg.capability != nil {
			c.capability = *c.cfg.capability
		}
		c.engine = EngineCLI
		c.renderer = c.newCLIRenderer()
	case EngineHTML:
		c.engine = EngineHTML
		c.renderer, err = newHTMLRenderer(c.cfg)
	case EngineBrowser:
		var html *htmlRenderer
		html, err = newHTMLRenderer(c.cfg)
		if err == nil {
			c.engine = EngineBrowser
			c.renderer = newBrowserRenderer(html, c.cfg.timeout)
		}
	default:
		return nil, fmt.Errorf("%w: %q (must be one of %s)", ErrUnknownEngine, c.cfg.engine, engineList())
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s renderer: %w", engine, err)
	}

	return c, nil
}

// resolveCapability returns the injected capability or probes for one.
func (c *Converter) resolveCapability() Capability {
	if c.cfg.capability != nil {
		return *c.cfg.capability
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return Probe(ctx, c.cfg.runner, c.cfg.binary)
}

func (c *Converter) newCLIRenderer() *cliRenderer {
	return &cliRenderer{
		runner:          c.cfg.runner,
		bin:             c.cfg.binary,
		background:      c.cfg.background,
		theme:           c.cfg.theme,
		mermaidConfig:   c.cfg.mermaidConfig,
		puppeteerConfig: c.cfg.puppeteerConfig,
		timeout:         c.cfg.timeout,
	}
}

// Engine returns the strategy in use; EngineAuto is resolved at construction.
func (c *Converter) Engine() Engine {
	return c.engine
}

// Capability returns the converter availability known to this Converter.
// It is the zero value when no probe ran (explicit html or browser engines).
func (c *Converter) Capability() Capability {
	return c.capability
}

// Run extracts, validates and renders the diagram in text, stopping at the
// first failing stage. The Result is always returned and carries one
// diagnostic per stage executed; err is non-nil exactly when the run failed.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Run(ctx context.Context, text, outputPath string) (res *Result, err error) {
	res = &Result{State: StateReceived}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
			res.State = StateFailed
			res.Diagnostics = append(res.Diagnostics, err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		res.State = StateFailed
		res.Diagnostics = append(res.Diagnostics, err.Error())
		return res, err
	}

	// Extract
	extraction := c.extractor.Extract(text)
	res.Source = extraction.Source
	res.State = StateExtracted
	res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("code extracted (%d characters, %s)",
		utf8.RuneCountInString(extraction.Source), extraction.Method))

	// Validate
	verdict := pipeline.Validate(extraction.Source)
	res.Diagnostics = append(res.Diagnostics, verdict.Message)
	if !verdict.Valid {
		res.State = StateFailed
		return res, verdict.Err
	}
	res.State = StateValidated

	// Render
	outcome, err := c.renderer.Render(ctx, extraction.Source, outputPath)
	res.Outcome = outcome
	switch {
	case outcome != nil:
		res.Diagnostics = append(res.Diagnostics, outcome.Diagnostic)
	case err != nil:
		res.Diagnostics = append(res.Diagnostics, err.Error())
	}
	if err != nil {
		res.State = StateFailed
		return res, err
	}
	if outcome == nil || !outcome.Success {
		res.State = StateFailed
		return res, fmt.Errorf("%w: renderer reported failure", ErrConverterExec)
	}

	res.State = StateRendered
	return res, nil
}

// Close releases renderer resources (the headless browser of EngineBrowser).
func (c *Converter) Close() error {
	if closer, ok := c.renderer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func engineList() string {
	names := make([]string, len(Engines))
	for i, e := range Engines {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
