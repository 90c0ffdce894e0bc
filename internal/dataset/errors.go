package dataset

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is matched by every structural load failure.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a missing header, a missing required column or
// a row whose field count does not match the header.
type MalformedInputError struct {
	Line   int // 1-based source line, 0 when not tied to a line
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input at line %d: %s", e.Line, e.Reason)
	}
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(line int, format string, args ...any) error {
	return &MalformedInputError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
