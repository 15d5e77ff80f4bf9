package altsv

import (
	"errors"
	"fmt"
)

// ErrArgumentNotMappable is returned by Encode when the argument is neither a
// mapping nor convertible to one.
var ErrArgumentNotMappable = errors.New("altsv: argument is not mappable")

// ArgumentError reports the type that Encode could not treat as a mapping.
type ArgumentError struct {
	Type string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("altsv: %s is not mappable: implements neither ToMap nor Pairs", e.Type)
}

func (e *ArgumentError) Unwrap() error { return ErrArgumentNotMappable }

// RenderError wraps a failure to render a key or value as text.
type RenderError struct {
	Role string // "key" or "value"
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("altsv: render %s: %v", e.Role, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
