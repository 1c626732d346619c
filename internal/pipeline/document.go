package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// Defaults for the fallback document.
const (
	DefaultScriptURL    = "https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"
	DefaultTheme        = "default"
	DefaultListingStyle = "github"
	defaultTitle        = "Mermaid diagram"
)

// Sentinel errors for document building.
var (
	ErrTemplateParse  = errors.New("failed to parse document template")
	ErrDocumentRender = errors.New("failed to render document")
)

// DocumentData holds the values substituted into the fallback document.
type DocumentData struct {
	Title      string // <title>; defaults to "Mermaid diagram"
	Source     string // diagram source, embedded verbatim
	ScriptURL  string // mermaid.js location; defaults to DefaultScriptURL
	Theme      string // mermaid theme; defaults to DefaultTheme
	ShowSource bool   // append a highlighted listing of the source
}

// templateData is what the html/template actually sees.
type templateData struct {
	Title      string
	Source     template.HTML
	ScriptURL  string
	Theme      string
	Style      template.CSS
	Listing    template.HTML
	ListingCSS template.CSS
}

// DocumentBuilder renders the self-contained HTML document that lets a
// browser draw the diagram with mermaid.js.
type DocumentBuilder struct {
	tmpl         *template.Template
	style        string
	listingStyle string
	md           goldmark.Markdown
}

// NewDocumentBuilder parses tmplContent and prepares the listing highlighter.
// style is CSS inlined into the document; listingStyle names a chroma style
// (unknown names fall back to chroma's default).
func NewDocumentBuilder(tmplContent, style, listingStyle string) (*DocumentBuilder, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	if listingStyle == "" {
		listingStyle = DefaultListingStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle(listingStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
	)

	return &DocumentBuilder{
		tmpl:         tmpl,
		style:        style,
		listingStyle: listingStyle,
		md:           md,
	}, nil
}

// Build renders the document. The diagram source is inserted verbatim into
// the mermaid container: mermaid reads the element's text, so the source is
// trusted content here.
func (b *DocumentBuilder) Build(data DocumentData) (string, error) {
	td := templateData{
		Title:     data.Title,
		Source:    template.HTML(data.Source), // #nosec G203 -- diagram source must reach mermaid unmodified
		ScriptURL: data.ScriptURL,
		Theme:     data.Theme,
		Style:     template.CSS(b.style), // #nosec G203 -- embedded or operator-provided CSS
	}
	if td.Title == "" {
		td.Title = defaultTitle
	}
	if td.ScriptURL == "" {
		td.ScriptURL = DefaultScriptURL
	}
	if td.Theme == "" {
		td.Theme = DefaultTheme
	}

	if data.ShowSource {
		listing, css, err := b.listing(data.Source)
		if err != nil {
			return "", err
		}
		td.Listing = listing
		td.ListingCSS = css
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, td); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}

	doc := buf.String()
	if err := CheckContainer(doc); err != nil {
		return "", err
	}
	return doc, nil
}

// listing renders source as a highlighted code block plus the matching CSS.
// goldmark escapes the code, so the listing is safe HTML.
func (b *DocumentBuilder) listing(source string) (template.HTML, template.CSS, error) {
	fence := fenceFor(source)
	md := fence + DiagramLanguage + "\n" + source + "\n" + fence + "\n"

	var html bytes.Buffer
	if err := b.md.Convert([]byte(md), &html); err != nil {
		return "", "", fmt.Errorf("%w: listing: %v", ErrDocumentRender, err)
	}

	var css bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&css, styles.Get(b.listingStyle)); err != nil {
		return "", "", fmt.Errorf("%w: listing CSS: %v", ErrDocumentRender, err)
	}

	return template.HTML(html.String()), template.CSS(css.String()), nil // #nosec G203 -- goldmark output is escaped
}

// fenceFor returns a backtick fence longer than any backtick run in source.
func fenceFor(source string) string {
	longest, run := 0, 0
	for _, r := range source {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}
