// Package extraction turns uploaded resume documents into plain text via an
// external parsing service, with a local path for HTML documents.
package extraction

import (
	"fmt"
)

// Mode selects the parsing service's result representation. JSON preserves
// layout structure and is tried first; text is the fallback.
type Mode string

// Parsing modes.
const (
	ModeJSON Mode = "json"
	ModeText Mode = "text"
)

// ParseError reports that a document could not be converted to usable text.
type ParseError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse %s: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Filename, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
