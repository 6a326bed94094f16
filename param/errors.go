package param

import "errors"

var (
	// ErrUnknownParameter reports a name that was never declared. It is an
	// integration error, not a runtime condition.
	ErrUnknownParameter = errors.New("param: unknown parameter")
	// ErrDuplicateParameter reports a second declaration under the same name.
	ErrDuplicateParameter = errors.New("param: duplicate parameter")
	// ErrInvalidDescriptor reports an inconsistent declaration.
	ErrInvalidDescriptor = errors.New("param: invalid descriptor")
	// ErrInvalidValue reports a value that cannot be clamped (NaN).
	ErrInvalidValue = errors.New("param: invalid value")
)
