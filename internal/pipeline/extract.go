package pipeline

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	gmtext "github.com/yuin/goldmark/text"
)

// Keyword opens every flowchart declaration.
const Keyword = "graph"

// DiagramLanguage is the info-string hint accepted on fenced blocks.
const DiagramLanguage = "mermaid"

// Directions lists the flowchart orientations recognized in bare declarations.
var Directions = []string{"TD", "LR", "TB", "RL"}

// Method identifies which matcher produced an extraction.
type Method int

const (
	// MethodRaw means no pattern matched and the whole text was kept.
	MethodRaw Method = iota
	// MethodFenced means the source came from a fenced code block.
	MethodFenced
	// MethodBare means the source came from a bare "graph <dir>" declaration.
	MethodBare
)

// String returns a short label used in diagnostics.
func (m Method) String() string {
	switch m {
	case MethodFenced:
		return "fenced block"
	case MethodBare:
		return "bare declaration"
	default:
		return "raw text"
	}
}

// Extraction is the diagram source isolated from surrounding text.
// Source never has leading or trailing whitespace.
type Extraction struct {
	Source string
	Method Method
}

// Matcher isolates a diagram candidate from text.
// Match reports false when its pattern is absent; it never errors.
type Matcher interface {
	Method() Method
	Match(text string) (string, bool)
}

// Compile-time interface checks.
var (
	_ Matcher = (*FencedBlockMatcher)(nil)
	_ Matcher = (*FenceScanMatcher)(nil)
	_ Matcher = (*BareDeclarationMatcher)(nil)
)

// HasKeyword reports whether s, ignoring surrounding whitespace, starts with
// the diagram keyword (case-insensitive).
func HasKeyword(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= len(Keyword) && strings.EqualFold(s[:len(Keyword)], Keyword)
}

// FencedBlockMatcher finds the first fenced code block that is untagged or
// tagged "mermaid" and whose content starts with the diagram keyword.
// Blocks are located with goldmark's CommonMark parser, so fences nested in
// lists or block quotes are handled and unrelated fences are skipped.
type FencedBlockMatcher struct {
	parser parser.Parser
}

// NewFencedBlockMatcher creates a FencedBlockMatcher using goldmark's default parser.
func NewFencedBlockMatcher() *FencedBlockMatcher {
	return &FencedBlockMatcher{parser: goldmark.DefaultParser()}
}

// Method implements Matcher.
func (m *FencedBlockMatcher) Method() Method { return MethodFenced }

// Match implements Matcher.
func (m *FencedBlockMatcher) Match(text string) (string, bool) {
	src := []byte(text)
	doc := m.parser.Parse(gmtext.NewReader(src))

	var found string
	var ok bool

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, isFence := n.(*ast.FencedCodeBlock)
		if !isFence {
			return ast.WalkContinue, nil
		}
		if !isDiagramLanguage(block.Language(src)) {
			return ast.WalkSkipChildren, nil
		}
		content := blockContent(block, src)
		if !HasKeyword(content) {
			return ast.WalkSkipChildren, nil
		}
		found, ok = content, true
		return ast.WalkStop, nil
	})

	return found, ok
}

// isDiagramLanguage accepts an absent info string or the mermaid hint.
func isDiagramLanguage(lang []byte) bool {
	return len(lang) == 0 || strings.EqualFold(string(lang), DiagramLanguage)
}

// blockContent joins the raw lines of a fenced block.
func blockContent(block *ast.FencedCodeBlock, src []byte) string {
	var b strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// FenceScanMatcher finds diagram fences line by line, ignoring the block
// structure around them. It catches fences goldmark does not see as fences:
// inside HTML blocks or comments, or after a fence that was never closed.
//
// A line opening with three or more backticks or tildes starts a fence. A
// fence tagged mermaid (or untagged) is a candidate and runs to the next bare
// fence line of the same character at least as long, or to the end of text.
// Other tagged fences are skipped, except that a mermaid fence inside one
// still counts.
type FenceScanMatcher struct{}

// Method implements Matcher.
func (FenceScanMatcher) Method() Method { return MethodFenced }

// Match implements Matcher.
func (FenceScanMatcher) Match(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	inForeign := false

	for i := 0; i < len(lines); i++ {
		open, ok := parseFence(lines[i])
		if !ok {
			continue
		}

		if inForeign {
			switch {
			case open.info == "":
				inForeign = false
				continue
			case !isDiagramLanguage([]byte(open.info)):
				continue
			}
		} else if !isDiagramLanguage([]byte(open.info)) {
			inForeign = true
			continue
		}

		end := closingFence(lines, i+1, open)
		content := strings.Join(lines[i+1:end], "\n")
		if HasKeyword(content) {
			return content, true
		}
		inForeign = false
		i = end
	}
	return "", false
}

// fence is an opening or closing fence line.
type fence struct {
	char   byte
	length int
	info   string // first word after the marker
}

// parseFence reports whether line is a fence line and describes it.
func parseFence(line string) (fence, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return fence{}, false
	}

	char := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == char {
		n++
	}
	if n < 3 {
		return fence{}, false
	}

	f := fence{char: char, length: n}
	if fields := strings.Fields(trimmed[n:]); len(fields) > 0 {
		f.info = fields[0]
	}
	return f, true
}

// closingFence returns the index of the line closing open, searching from
// start, or len(lines) when the fence is never closed.
func closingFence(lines []string, start int, open fence) int {
	for j := start; j < len(lines); j++ {
		f, ok := parseFence(lines[j])
		if ok && f.char == open.char && f.length >= open.length && len(strings.TrimSpace(lines[j])) == f.length {
			return j
		}
	}
	return len(lines)
}

// bareDeclaration matches a line opening with "graph <direction>".
var bareDeclaration = regexp.MustCompile(
	`(?im)^[ \t]*` + Keyword + `[ \t]+(?:` + strings.Join(Directions, "|") + `)\b`,
)

// blankLine matches the paragraph break that ends a bare declaration.
var blankLine = regexp.MustCompile(`\n[ \t]*\r?\n`)

// BareDeclarationMatcher captures an unfenced declaration from its header
// line up to the next blank line or end of text.
type BareDeclarationMatcher struct{}

// Method implements Matcher.
func (BareDeclarationMatcher) Method() Method { return MethodBare }

// Match implements Matcher.
func (BareDeclarationMatcher) Match(text string) (string, bool) {
	loc := bareDeclaration.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[0]:]
	if end := blankLine.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest, true
}

// Extractor runs matchers in order and keeps the first hit.
// When none matches, the whole text is returned as the candidate and left
// for validation to reject.
type Extractor struct {
	matchers []Matcher
}

// NewExtractor creates an Extractor. Without arguments it uses the default
// precedence: fenced block (CommonMark parse, then line scan), then bare
// declaration.
func NewExtractor(matchers ...Matcher) *Extractor {
	if len(matchers) == 0 {
		matchers = []Matcher{NewFencedBlockMatcher(), FenceScanMatcher{}, BareDeclarationMatcher{}}
	}
	return &Extractor{matchers: matchers}
}

// Extract isolates the diagram source in text. The result is always trimmed.
func (e *Extractor) Extract(text string) Extraction {
	for _, m := range e.matchers {
		if src, ok := m.Match(text); ok {
			return Extraction{Source: strings.TrimSpace(src), Method: m.Method()}
		}
	}
	return Extraction{Source: strings.TrimSpace(text), Method: MethodRaw}
}

var defaultExtractor = NewExtractor()

// Extract isolates the diagram source in text using the default extractor.
func Extract(text string) Extraction {
	return defaultExtractor.Extract(text)
}
