package timeline

import "errors"

var (
	// ErrValidation marks a rejected mutation: missing source URL, invalid
	// overlay position, or similar caller mistakes.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an operation referencing an unknown clip or overlay id.
	ErrNotFound = errors.New("not found")
)
