// Package pipeline implements the stages that turn model output into a
// renderable Mermaid flowchart:
//   - Extraction of the diagram source from surrounding prose (ordered matchers)
//   - Shallow validation (keyword and minimum line count)
//   - Fallback HTML document synthesis for browsers (mermaid.js), checked
//     for a mermaid container
//
// Running the external converter is handled by the root mmd2svg package.
// Nothing here spawns processes or touches the filesystem.
package pipeline
