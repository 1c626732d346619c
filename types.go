package mmd2svg

import "github.com/alnah/go-mmd2svg/internal/pipeline"

// Extraction is the diagram source isolated from surrounding text.
type Extraction = pipeline.Extraction

// Method identifies which pattern produced an Extraction.
type Method = pipeline.Method

// Extraction methods.
const (
	MethodRaw    = pipeline.MethodRaw
	MethodFenced = pipeline.MethodFenced
	MethodBare   = pipeline.MethodBare
)

// ValidationResult is the verdict of the structural check.
type ValidationResult = pipeline.ValidationResult

// Extract isolates the diagram source in text. It never fails: when no
// pattern matches, the trimmed text itself is returned with MethodRaw.
func Extract(text string) Extraction {
	return pipeline.Extract(text)
}

// Validate checks that src starts with "graph" and has at least two lines.
func Validate(src string) ValidationResult {
	return pipeline.Validate(src)
}

// State is the lifecycle position of a conversion request.
type State int

// Conversion states, in pipeline order. StateFailed is terminal and can
// follow any non-terminal state.
const (
	StateReceived State = iota
	StateExtracted
	StateValidated
	StateRendered
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateExtracted:
		return "extracted"
	case StateValidated:
		return "validated"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Strategy identifies how an artifact was produced.
type Strategy int

const (
	// StrategyCLI means mmdc wrote the artifact.
	StrategyCLI Strategy = iota
	// StrategyHTML means a self-contained HTML document was written.
	StrategyHTML
	// StrategyBrowser means headless Chrome rendered the SVG.
	StrategyBrowser
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyCLI:
		return "cli"
	case StrategyHTML:
		return "html"
	case StrategyBrowser:
		return "browser"
	default:
		return "unknown"
	}
}

// Engine selects the rendering strategy of a Converter.
type Engine string

// Supported engines.
const (
	EngineAuto    Engine = "auto"
	EngineCLI     Engine = "cli"
	EngineHTML    Engine = "html"
	EngineBrowser Engine = "browser"
)

// Engines lists every supported engine.
var Engines = []Engine{EngineAuto, EngineCLI, EngineHTML, EngineBrowser}

// Capability describes whether the external converter can be launched.
type Capability struct {
	Available bool
	Version   string // first line of "mmdc --version", empty when unavailable
}

// Outcome is the result of one render attempt.
type Outcome struct {
	Success    bool
	Path       string // artifact location; for the HTML strategy the .html path
	Diagnostic string
	Strategy   Strategy
}

// Result is the full record of one Run.
type Result struct {
	Source      string   // extracted source, empty if extraction did not run
	State       State    // final state
	Diagnostics []string // one entry per stage executed, in order
	Outcome     *Outcome // nil unless rendering was attempted
}

// Success reports whether the run reached StateRendered.
func (r *Result) Success() bool {
	return r != nil && r.State == StateRendered
}
