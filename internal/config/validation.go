package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/zen-web-components/photo-viewer/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve))
	for i, e := range ve {
		messages[i] = e.Error()
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Validate checks every field and returns ValidationErrors listing all
// problems, or nil.
func (c Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window", "size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := c.Mode(); err != nil {
		add("viewer.mode", "%v", err)
	}
	if z := c.Viewer.Zoom; z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		add("viewer.zoom", "must be a positive number, got %v", z)
	}
	if s := c.Viewer.ZoomStep; s <= 1 || math.IsInf(s, 0) {
		add("viewer.zoom_step", "must be greater than 1, got %v", s)
	}
	if _, err := c.SnapshotFormat(); err != nil {
		add("capture.format", "%v", err)
	}
	if q := c.Capture.Quality; q < 1 || q > 100 {
		add("capture.quality", "must be between 1 and 100, got %d", q)
	}
	if c.Watch.Debounce < 0 {
		add("watch.debounce", "must not be negative, got %s", c.Watch.Debounce)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "%v", err)
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		add("log.format", "must be text or json, got %q", f)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
