package mmd2svg

import "time"

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	engine          Engine
	binary          string
	background      string
	theme           string
	mermaidConfig   string
	puppeteerConfig string
	timeout         time.Duration
	capability      *Capability
	runner          CommandRunner

	scriptURL     string
	fallbackTheme string
	templatePath  string
	listingStyle  string
	hideSource    bool
}

// WithEngine selects the rendering strategy. The default is EngineAuto.
// Unknown names make NewConverter fail with ErrUnknownEngine.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithCapability supplies the converter availability instead of probing for it.
func WithCapability(capability Capability) Option {
	return func(c *Converter) {
		c.cfg.capability = &capability
	}
}

// WithRunner replaces the command runner used for probing and for mmdc.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.cfg.runner = r
	}
}

// WithRenderer replaces the renderer entirely; the engine setting is ignored.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithBinary sets the mermaid CLI executable (default "mmdc").
func WithBinary(bin string) Option {
	return func(c *Converter) {
		c.cfg.binary = bin
	}
}

// WithTimeout limits each mmdc run, or the browser page load for
// EngineBrowser. There is no limit by default.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("mmd2svg: WithTimeout duration must not be negative")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithBackground sets the mmdc background color (default "transparent").
func WithBackground(color string) Option {
	return func(c *Converter) {
		c.cfg.background = color
	}
}

// WithTheme sets the mermaid theme for both mmdc and the HTML document.
func WithTheme(theme string) Option {
	return func(c *Converter) {
		c.cfg.theme = theme
		c.cfg.fallbackTheme = theme
	}
}

// WithFallbackTheme sets the mermaid theme of the HTML document only,
// overriding WithTheme there.
func WithFallbackTheme(theme string) Option {
	return func(c *Converter) {
		c.cfg.fallbackTheme = theme
	}
}

// WithMermaidConfig passes a mermaid JSON config file to mmdc (-c).
func WithMermaidConfig(path string) Option {
	return func(c *Converter) {
		c.cfg.mermaidConfig = path
	}
}

// WithPuppeteerConfig passes a Puppeteer JSON config file to mmdc (-p),
// typically to disable the Chromium sandbox in containers.
func WithPuppeteerConfig(path string) Option {
	return func(c *Converter) {
		c.cfg.puppeteerConfig = path
	}
}

// WithScriptURL sets where the HTML document loads mermaid.js from.
func WithScriptURL(url string) Option {
	return func(c *Converter) {
		c.cfg.scriptURL = url
	}
}

// WithTemplate replaces the embedded HTML document template with a file.
func WithTemplate(path string) Option {
	return func(c *Converter) {
		c.cfg.templatePath = path
	}
}

// WithListingStyle names the chroma style of the source listing (default "github").
func WithListingStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.listingStyle = style
	}
}

// WithShowSource toggles the highlighted source listing in the HTML document
// (shown by default).
func WithShowSource(show bool) Option {
	return func(c *Converter) {
		c.cfg.hideSource = !show
	}
}
