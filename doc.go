// Package mmd2svg turns free-form text, typically an LLM reply, into a
// rendered Mermaid flowchart.
//
// # Quick Start
//
// Create a converter, run it on the text, and close it when done:
//
//	conv, err := mmd2svg.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Run(ctx, reply, "diagram.svg")
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d)
//	}
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Run always returns a Result. When it also returns an error, Result.State
// is StateFailed and the last diagnostic describes the failing stage.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Extraction: the first fenced block tagged "mermaid" (or untagged) whose
//     content starts with "graph", else the first bare "graph TD|LR|TB|RL"
//     declaration up to a blank line, else the whole text
//  2. Validation: the source must start with "graph" and span two lines
//  3. Rendering: the mermaid CLI (mmdc) writes an SVG; when mmdc is not
//     installed a self-contained HTML document is written instead
//
// # Engines
//
// WithEngine selects the rendering strategy:
//
//   - EngineAuto (default): probe mmdc once at construction, then use the CLI
//     when available and the HTML document otherwise
//   - EngineCLI: always run mmdc
//   - EngineHTML: always write the HTML document, never spawning a process
//   - EngineBrowser: load the HTML document in headless Chrome (go-rod) and
//     save the SVG mermaid.js draws
//
// The probe result is plain data. Tests and callers that already know the
// environment pass it with WithCapability instead of probing:
//
//	conv, err := mmd2svg.NewConverter(
//	    mmd2svg.WithCapability(mmd2svg.Capability{Available: false}),
//	)
//
// # Cancellation
//
// The context passed to Run bounds the mmdc process. When it ends, the whole
// process group (mmdc and the Chromium it launches) is killed and the
// temporary source file is still removed. WithTimeout adds a per-render limit;
// there is none by default.
package mmd2svg
