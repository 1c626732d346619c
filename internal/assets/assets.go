package assets

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

// Names of the built-in fallback assets.
const (
	DefaultTemplateName = "fallback"
	DefaultStyleName    = "fallback"
)

// Sentinel errors for asset lookups.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates/*.html
var templates embed.FS

// LoadStyle returns the embedded stylesheet called name (no .css extension).
func LoadStyle(name string) (string, error) {
	return load(styles, "styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate returns the embedded document template called name (no .html extension).
func LoadTemplate(name string) (string, error) {
	return load(templates, "templates", name, ".html", ErrTemplateNotFound)
}

func load(fsys embed.FS, dir, name, ext string, notFound error) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	content, err := fsys.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// validateName rejects empty names and names with separators or dots, so a
// name can only ever address a file directly under the asset directory.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
