package state

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptState reports a blob that does not decode as a state tree.
	ErrCorruptState = errors.New("state: corrupt state")
	// ErrInvalidTree reports a tree that cannot be encoded.
	ErrInvalidTree = errors.New("state: invalid tree")
)

// CorruptStateError describes where and why decoding failed.
type CorruptStateError struct {
	Offset int
	Reason string
}

func (e *CorruptStateError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s", ErrCorruptState, e.Reason)
	}

	return fmt.Sprintf("%v: %s at offset %d", ErrCorruptState, e.Reason, e.Offset)
}

// Unwrap makes errors.Is(err, ErrCorruptState) hold.
func (e *CorruptStateError) Unwrap() error { return ErrCorruptState }

func corrupt(offset int, format string, args ...any) error {
	return &CorruptStateError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
