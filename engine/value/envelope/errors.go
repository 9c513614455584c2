package envelope

import (
	"errors"
	"fmt"
)

// ErrInvalidEnvelope is matched by every error produced while reading an envelope.
var ErrInvalidEnvelope = errors.New("invalid value envelope")

// Error names the JSON path of the node that could not be read.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("envelope %s: %s", e.Path, e.Reason)
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidEnvelope
}

func newError(path, format string, args ...any) error {
	return &Error{Path: path, Reason: fmt.Sprintf(format, args...)}
}
