package main

import (
	"context"
	"io"
	"os"
	"time"

	mmd2svg "github.com/alnah/go-mmd2svg"
)

// diagramConverter is the part of *mmd2svg.Converter the CLI drives.
type diagramConverter interface {
	Run(ctx context.Context, text, outputPath string) (*mmd2svg.Result, error)
	Engine() mmd2svg.Engine
	Capability() mmd2svg.Capability
	Close() error
}

// Compile-time interface implementation check.
var _ diagramConverter = (*mmd2svg.Converter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and converter construction.
type Environment struct {
	Now          func() time.Time
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	NewConverter func(opts ...mmd2svg.Option) (diagramConverter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewConverter: func(opts ...mmd2svg.Option) (diagramConverter, error) {
			return mmd2svg.NewConverter(opts...)
		},
	}
}
