package mmd2svg

import "context"

// Renderer turns validated diagram source into an artifact at outputPath.
// A failed attempt returns both a non-nil Outcome describing it (when the
// renderer got far enough to have something to say) and an error.
type Renderer interface {
	Render(ctx context.Context, src, outputPath string) (*Outcome, error)
}

// Compile-time interface checks.
var (
	_ Renderer = (*cliRenderer)(nil)
	_ Renderer = (*htmlRenderer)(nil)
	_ Renderer = (*browserRenderer)(nil)
)

// installHint is how users get the mermaid CLI.
const installHint = "npm install -g @mermaid-js/mermaid-cli"

// fallbackReplaceable lists output extensions the HTML strategy swaps for .html.
var fallbackReplaceable = []string{".svg", ".png", ".pdf"}

// svgGenerated is the success diagnostic of every SVG-producing strategy.
func svgGenerated(path string) string {
	return "SVG generated successfully: " + path
}
