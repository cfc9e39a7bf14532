package curves

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDelimiter   = errors.New("missing delimiter '" + Delimiter + "'")
	ErrInvalidTemperature = errors.New("invalid temperature")
	ErrInvalidPercentage  = errors.New("invalid fan percentage")
)

// ParseError describes a curve line that could not be parsed.
type ParseError struct {
	// Line is the 1-based line number within the source.
	Line int
	// Text is the offending line as it appeared in the source.
	Text string
	// Err is one of ErrMissingDelimiter, ErrInvalidTemperature or ErrInvalidPercentage,
	// possibly wrapping the underlying strconv error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
