package form

import "errors"

// Sentinel errors for case handling.
var (
	// ErrInvalidCase is returned when case data fails validation.
	ErrInvalidCase = errors.New("invalid case")

	// ErrParse is returned when an architecture or topology string cannot
	// be understood.
	ErrParse = errors.New("unrecognized format")

	// ErrOverwrite is returned when a definition would silently replace an
	// existing one.
	ErrOverwrite = errors.New("definition already exists")

	// ErrIncomplete is returned when an operation needs fields the case
	// does not define yet.
	ErrIncomplete = errors.New("incomplete case")
)
