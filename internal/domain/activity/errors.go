package activity

import "errors"

var (
	// ErrInvalidInput indicates invalid activity input.
	ErrInvalidInput = errors.New("invalid activity input")
	// ErrActivityNotFound indicates the activity record doesn't exist.
	ErrActivityNotFound = errors.New("activity not found")
)
