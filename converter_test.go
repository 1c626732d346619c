package mmd2svg

// Notes:
// - Capability is injected with WithCapability so both renderer branches are
//   deterministic; no test depends on mmdc being installed.
// - mockRunner counts invocations to prove the HTML strategy never spawns.
// - Diagnostics are compared as whole slices with go-cmp.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// ---------------------------------------------------------------------------
// End-to-end scenarios
// ---------------------------------------------------------------------------

func TestRun_FencedBlockWithoutConverter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &mockRunner{}
	conv := newTestConverter(t,
		WithCapability(Capability{Available: false}),
		WithRunner(runner),
	)

	text := "Sure! Here is your flow:\n\n```mermaid\ngraph TD\nA-->B\n```\n\nLet me know if you need changes."
	res, err := conv.Run(context.Background(), text, filepath.Join(dir, "my_diagram.svg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	htmlPath := filepath.Join(dir, "my_diagram.html")
	wantDiags := []string{
		"code extracted (14 characters, fenced block)",
		"syntax valid",
		htmlGenerated(htmlPath),
	}
	if diff := cmp.Diff(wantDiags, res.Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	if res.Source != "graph TD\nA-->B" {
		t.Errorf("source = %q, want %q", res.Source, "graph TD\nA-->B")
	}
	if !res.Success() || res.State != StateRendered {
		t.Errorf("state = %v, want rendered", res.State)
	}
	if res.Outcome.Strategy != StrategyHTML {
		t.Errorf("strategy = %v, want html", res.Outcome.Strategy)
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading fallback document: %v", err)
	}
	if !strings.Contains(string(data), "graph TD\nA-->B") {
		t.Error("fallback document should contain the exact source")
	}
	if runner.callCount() != 0 {
		t.Errorf("html strategy spawned %d processes, want 0", runner.callCount())
	}
}

func TestRun_NoDiagramMarkup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "diagram.svg")
	runner := &mockRunner{}
	conv := newTestConverter(t, WithCapability(Capability{Available: true}), WithRunner(runner))

	res, err := conv.Run(context.Background(), "hello world", out)
	if !errors.Is(err, ErrMissingKeyword) {
		t.Fatalf("error = %v, want ErrMissingKeyword", err)
	}

	wantDiags := []string{
		"code extracted (11 characters, raw text)",
		"code must start with 'graph TD', 'graph LR', 'graph TB' or 'graph RL'",
	}
	if diff := cmp.Diff(wantDiags, res.Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if res.Source != "hello world" {
		t.Errorf("source = %q, want raw trimmed text", res.Source)
	}
	if res.Success() || res.State != StateFailed {
		t.Errorf("state = %v, want failed", res.State)
	}
	if res.Outcome != nil {
		t.Error("outcome should be nil when rendering did not run")
	}
	if runner.callCount() != 0 {
		t.Error("converter should not run after validation failure")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no output expected, found %d entries", len(entries))
	}
}

func TestRun_SingleLine(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithCapability(Capability{Available: false}))

	res, err := conv.Run(context.Background(), "graph LR", filepath.Join(t.TempDir(), "d.svg"))
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("error = %v, want ErrTooShort", err)
	}

	wantDiags := []string{
		"code extracted (8 characters, bare declaration)",
		"code too short, must have at least 2 lines",
	}
	if diff := cmp.Diff(wantDiags, res.Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if res.State != StateFailed {
		t.Errorf("state = %v, want failed", res.State)
	}
}

// ---------------------------------------------------------------------------
// CLI strategy through the converter
// ---------------------------------------------------------------------------

func TestRun_WithConverter(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "flow.svg")
	runner := &mockRunner{onRun: writeOutput}
	conv := newTestConverter(t,
		WithCapability(Capability{Available: true, Version: "10.9.1"}),
		WithRunner(runner),
		WithTheme("forest"),
	)

	text := "graph LR\n  A --> B\n  B --> C\n\nThat's the flow."
	res, err := conv.Run(context.Background(), text, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDiags := []string{
		"code extracted (28 characters, bare declaration)",
		"syntax valid",
		svgGenerated(out),
	}
	if diff := cmp.Diff(wantDiags, res.Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if res.Outcome.Strategy != StrategyCLI {
		t.Errorf("strategy = %v, want cli", res.Outcome.Strategy)
	}
	if !fileExists(out) {
		t.Error("expected the converter output to exist")
	}

	args := runner.calls[0].Args
	if argValue(args, "-b") != "transparent" || argValue(args, "-t") != "forest" {
		t.Errorf("args = %v, want transparent background and forest theme", args)
	}
}

func TestRun_ConverterFailure(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{stderr: "Parse error on line 1", err: errors.New("exit status 1")}
	conv := newTestConverter(t, WithCapability(Capability{Available: true}), WithRunner(runner))

	res, err := conv.Run(context.Background(), "graph TD\nA-->", filepath.Join(t.TempDir(), "d.svg"))
	if !errors.Is(err, ErrConverterExec) {
		t.Fatalf("error = %v, want ErrConverterExec", err)
	}
	if res.State != StateFailed {
		t.Errorf("state = %v, want failed", res.State)
	}
	if len(res.Diagnostics) != 3 {
		t.Fatalf("diagnostics = %v, want 3 entries", res.Diagnostics)
	}
	if got := res.Diagnostics[2]; got != "conversion error: Parse error on line 1" {
		t.Errorf("render diagnostic = %q", got)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	conv := newTestConverter(t, WithCapability(Capability{Available: true}), WithRunner(runner))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := conv.Run(ctx, "graph TD\nA-->B", filepath.Join(t.TempDir(), "d.svg"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if res.State != StateFailed {
		t.Errorf("state = %v, want failed", res.State)
	}
	if runner.callCount() != 0 {
		t.Error("converter should not run with a cancelled context")
	}
}

// ---------------------------------------------------------------------------
// Engine resolution
// ---------------------------------------------------------------------------

func TestNewConverter_Engines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []Option
		wantEngine Engine
		wantProbes int
	}{
		{
			name:       "auto with converter",
			opts:       []Option{WithCapability(Capability{Available: true})},
			wantEngine: EngineCLI,
		},
		{
			name:       "auto without converter",
			opts:       []Option{WithCapability(Capability{Available: false})},
			wantEngine: EngineHTML,
		},
		{
			name:       "explicit html skips probe",
			opts:       []Option{WithEngine(EngineHTML)},
			wantEngine: EngineHTML,
		},
		{
			name:       "explicit cli skips probe",
			opts:       []Option{WithEngine(EngineCLI)},
			wantEngine: EngineCLI,
		},
		{
			name:       "engine name is case-insensitive",
			opts:       []Option{WithEngine("HTML")},
			wantEngine: EngineHTML,
		},
		{
			name:       "empty engine means auto",
			opts:       []Option{WithEngine(""), WithCapability(Capability{Available: true})},
			wantEngine: EngineCLI,
		},
		{
			name:       "browser engine is lazy",
			opts:       []Option{WithEngine(EngineBrowser)},
			wantEngine: EngineBrowser,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &mockRunner{}
			opts := append([]Option{WithRunner(runner)}, tt.opts...)
			conv := newTestConverter(t, opts...)

			if conv.Engine() != tt.wantEngine {
				t.Errorf("Engine() = %q, want %q", conv.Engine(), tt.wantEngine)
			}
			if runner.callCount() != tt.wantProbes {
				t.Errorf("probes = %d, want %d", runner.callCount(), tt.wantProbes)
			}
		})
	}
}

func TestNewConverter_ProbesOnce(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{stdout: "10.9.1\n", onRun: writeOutput}
	conv := newTestConverter(t, WithRunner(runner), WithBinary("/usr/bin/mmdc"))

	if conv.Engine() != EngineCLI {
		t.Fatalf("Engine() = %q, want cli", conv.Engine())
	}
	if diff := cmp.Diff(Capability{Available: true, Version: "10.9.1"}, conv.Capability()); diff != "" {
		t.Errorf("capability mismatch (-want +got):\n%s", diff)
	}

	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		if _, err := conv.Run(context.Background(), "graph TD\nA-->B", filepath.Join(dir, "d.svg")); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	// One probe plus one render per run.
	if runner.callCount() != 3 {
		t.Errorf("runner calls = %d, want 3", runner.callCount())
	}
	if diff := cmp.Diff([]string{"--version"}, runner.calls[0].Args); diff != "" {
		t.Errorf("probe args mismatch (-want +got):\n%s", diff)
	}
	for _, call := range runner.calls {
		if call.Name != "/usr/bin/mmdc" {
			t.Errorf("binary = %q, want /usr/bin/mmdc", call.Name)
		}
	}
}

func TestNewConverter_UnknownEngine(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(WithEngine("kroki"))
	if !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("error = %v, want ErrUnknownEngine", err)
	}
}

func TestNewConverter_BadTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(WithEngine(EngineHTML), WithTemplate(filepath.Join(t.TempDir(), "absent.html")))
	if !errors.Is(err, ErrTemplateLoad) {
		t.Errorf("error = %v, want ErrTemplateLoad", err)
	}
}

func TestNewConverter_TemplateWithoutContainer(t *testing.T) {
	t.Parallel()

	tmplPath := filepath.Join(t.TempDir(), "plain.html")
	if err := os.WriteFile(tmplPath, []byte("<p>{{.Source}}</p>"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := NewConverter(WithEngine(EngineHTML), WithTemplate(tmplPath))
	if !errors.Is(err, ErrTemplateLoad) {
		t.Errorf("error = %v, want ErrTemplateLoad", err)
	}
	if !errors.Is(err, ErrNoContainer) {
		t.Errorf("error = %v, want ErrNoContainer", err)
	}
}

func TestWithTimeout_PanicsOnNegative(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative timeout")
		}
	}()
	WithTimeout(-time.Second)
}

// ---------------------------------------------------------------------------
// Injected renderer
// ---------------------------------------------------------------------------

type panicRenderer struct{}

func (panicRenderer) Render(context.Context, string, string) (*Outcome, error) {
	panic("renderer exploded")
}

type silentFailRenderer struct{}

func (silentFailRenderer) Render(_ context.Context, _, out string) (*Outcome, error) {
	return &Outcome{Path: out, Diagnostic: "nothing happened"}, nil
}

type closingRenderer struct {
	closed bool
}

func (r *closingRenderer) Render(_ context.Context, _, out string) (*Outcome, error) {
	return &Outcome{Success: true, Path: out, Diagnostic: "ok"}, nil
}

func (r *closingRenderer) Close() error {
	r.closed = true
	return nil
}

func TestRun_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithRenderer(panicRenderer{}))

	res, err := conv.Run(context.Background(), "graph TD\nA-->B", "d.svg")
	if err == nil || !strings.Contains(err.Error(), "internal error: renderer exploded") {
		t.Fatalf("error = %v, want recovered panic", err)
	}
	if res.State != StateFailed {
		t.Errorf("state = %v, want failed", res.State)
	}
	if last := res.Diagnostics[len(res.Diagnostics)-1]; !strings.Contains(last, "renderer exploded") {
		t.Errorf("last diagnostic = %q, want panic message", last)
	}
}

func TestRun_UnsuccessfulOutcomeWithoutError(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithRenderer(silentFailRenderer{}))

	res, err := conv.Run(context.Background(), "graph TD\nA-->B", "d.svg")
	if !errors.Is(err, ErrConverterExec) {
		t.Errorf("error = %v, want ErrConverterExec", err)
	}
	if res.Success() {
		t.Error("result should not report success")
	}
}

func TestConverter_CloseReleasesRenderer(t *testing.T) {
	t.Parallel()

	r := &closingRenderer{}
	conv, err := NewConverter(WithRenderer(r))
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !r.closed {
		t.Error("renderer should be closed")
	}
}

// ---------------------------------------------------------------------------
// Re-exports and small types
// ---------------------------------------------------------------------------

func TestExtractAndValidate(t *testing.T) {
	t.Parallel()

	ext := Extract("```\ngraph RL\nX-->Y\n```")
	if ext.Method != MethodFenced || ext.Source != "graph RL\nX-->Y" {
		t.Errorf("Extract() = %+v", ext)
	}

	for _, src := range []string{"GRAPH TD\nA-->B", "Graph lr\nA-->B"} {
		if v := Validate(src); !v.Valid {
			t.Errorf("Validate(%q) = %+v, want valid", src, v)
		}
	}
	for _, src := range []string{"flowchart TD\nA-->B", "sequenceDiagram\nA->>B: hi"} {
		if v := Validate(src); !errors.Is(v.Err, ErrMissingKeyword) {
			t.Errorf("Validate(%q).Err = %v, want ErrMissingKeyword", src, v.Err)
		}
	}
}

func TestStateAndStrategyStrings(t *testing.T) {
	t.Parallel()

	states := map[State]string{
		StateReceived:  "received",
		StateExtracted: "extracted",
		StateValidated: "validated",
		StateRendered:  "rendered",
		StateFailed:    "failed",
		State(99):      "unknown",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}

	strategies := map[Strategy]string{
		StrategyCLI:     "cli",
		StrategyHTML:    "html",
		StrategyBrowser: "browser",
		Strategy(99):    "unknown",
	}
	for s, want := range strategies {
		if got := s.String(); got != want {
			t.Errorf("Strategy(%d).String() = %q, want %q", int(s), got, want)
		}
	}

	var nilResult *Result
	if nilResult.Success() {
		t.Error("nil result should not report success")
	}
}
