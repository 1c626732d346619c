// Package assets embeds the HTML template and CSS of the fallback document
// written when the mermaid CLI is not available.
//
//	styles/{name}.css       stylesheets (fallback.css)
//	templates/{name}.html   html/template documents (fallback.html)
//
// Custom templates are read by the caller and handed to the document
// builder; this package only serves the built-in assets, by bare name.
package assets
