package domain

import (
	"errors"
	"fmt"
)

// ErrFontUnavailable signals that none of the configured font files could be
// loaded. It is never fatal: the text renderer falls back to a built-in face.
var ErrFontUnavailable = errors.New("no usable font available")

// AssetFormatError marks an input asset that cannot serve as a protected
// cutout, typically because it carries no transparency information. The
// pipeline degrades to a fully-opaque protection mask instead of failing.
type AssetFormatError struct {
	Path   string
	Reason string
}

func (e *AssetFormatError) Error() string {
	return fmt.Sprintf("asset %s: %s", e.Path, e.Reason)
}

// GenerationError marks a failed external generation call: the request
// errored, timed out, or returned content that does not decode as an image.
// It aborts the current product only; the run continues with the next one.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ConfigurationError marks a brief that is missing required fields.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("brief field %s: %s", e.Field, e.Reason)
}
