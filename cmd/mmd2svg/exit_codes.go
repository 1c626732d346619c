package main

import (
	"errors"
	"os"

	mmd2svg "github.com/alnah/go-mmd2svg"
	"github.com/alnah/go-mmd2svg/internal/config"
)

// Exit codes for mmd2svg CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or diagram validation
	ExitIO        = 3 // File not found, permission denied
	ExitConverter = 4 // mmdc or browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter/browser errors (exit 4)
	if errors.Is(err, mmd2svg.ErrConverterExec) ||
		errors.Is(err, mmd2svg.ErrBrowserConnect) ||
		errors.Is(err, mmd2svg.ErrPageCreate) ||
		errors.Is(err, mmd2svg.ErrPageLoad) ||
		errors.Is(err, mmd2svg.ErrDiagramNotRendered) {
		return ExitConverter
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrCreateOutputDir) ||
		errors.Is(err, mmd2svg.ErrWriteTemp) ||
		errors.Is(err, mmd2svg.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, mmd2svg.ErrMissingKeyword) ||
		errors.Is(err, mmd2svg.ErrTooShort) ||
		errors.Is(err, mmd2svg.ErrUnknownEngine) ||
		errors.Is(err, mmd2svg.ErrEmptyOutputPath) ||
		errors.Is(err, mmd2svg.ErrTemplateLoad) {
		return ExitUsage
	}

	return ExitGeneral
}
