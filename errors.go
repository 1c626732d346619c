package mmd2svg

import (
	"errors"

	"github.com/alnah/go-mmd2svg/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// Validation errors, shared with the internal validator.
	ErrMissingKeyword = pipeline.ErrMissingKeyword
	ErrTooShort       = pipeline.ErrTooShort

	// Rendering errors.
	ErrConverterExec   = errors.New("mermaid converter failed")
	ErrWriteTemp       = errors.New("failed to write temporary diagram file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	ErrUnknownEngine   = errors.New("unknown engine")

	// Fallback document errors.
	ErrTemplateLoad = errors.New("failed to load fallback template")
	ErrNoContainer  = pipeline.ErrNoContainer

	// Browser engine errors.
	ErrBrowserConnect     = errors.New("failed to connect to browser")
	ErrPageCreate         = errors.New("failed to create browser page")
	ErrPageLoad           = errors.New("failed to load page")
	ErrDiagramNotRendered = errors.New("diagram was not rendered")
)
