package ephemfile

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/astro-ephemeris/core"
)

// Specific causes carried by FormatError.
var (
	ErrMissingField     = errors.New("missing required header keyword")
	ErrMissingTEMEEpoch = errors.New("TEMEOfEpoch coordinate system requires CoordinateSystemEpoch")
	ErrMissingData      = errors.New("missing EphemerisTimePosVel section")
	ErrMissingEnd       = errors.New("missing END Ephemeris marker")
	ErrTokenCount       = errors.New("data line must have exactly 7 values")
	ErrBadValue         = errors.New("unparseable value")
	ErrPointCount       = errors.New("NumberOfEphemerisPoints does not match data")
	ErrUnknownFrame     = errors.New("unsupported coordinate system")
)

// FormatError reports a malformed ephemeris file. Line is 1-based and zero
// when the problem is not tied to one line (a keyword that never appeared).
// It matches both core.ErrFormat and its specific cause under errors.Is.
type FormatError struct {
	Line  int
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("ephemeris line %d: %s: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("ephemeris line %d: %v", e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("ephemeris: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("ephemeris: %v", e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{core.ErrFormat, e.Err}
}

func formatErr(line int, field string, err error) error {
	return &FormatError{Line: line, Field: field, Err: err}
}
