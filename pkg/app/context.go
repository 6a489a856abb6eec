package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Context holds application-wide configuration and state
type Context struct {
	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Destinations for results and diagnostics
	Out    io.Writer
	ErrOut io.Writer

	// Logger handed to the volume layer
	Logger *slog.Logger

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context writing to stdout and
// stderr with logging disabled
func NewContext() *Context {
	return &Context{
		OutputFormat: "table",
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		Logger:       slog.New(slog.DiscardHandler),
	}
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string) {
	if !c.Quiet && c.Verbose {
		fmt.Fprintln(c.ErrOut, message)
	}
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string) {
	if !c.Quiet {
		fmt.Fprintln(c.ErrOut, "Error:", message)
	}
}
