package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ContainerClass is the class mermaid.js scans for diagram sources.
const ContainerClass = "mermaid"

// ErrNoContainer means a rendered document has nowhere for mermaid.js to draw.
var ErrNoContainer = errors.New(`document has no element with class "mermaid"`)

// CheckContainer parses doc and returns ErrNoContainer unless some element
// carries the mermaid class.
func CheckContainer(doc string) error {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return fmt.Errorf("%w: parsing document: %v", ErrDocumentRender, err)
	}
	if findContainer(root) == nil {
		return ErrNoContainer
	}
	return nil
}

// findContainer returns the first element, in document order, whose class
// list contains ContainerClass.
func findContainer(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, ContainerClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findContainer(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
