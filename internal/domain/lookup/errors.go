package lookup

import "errors"

var (
	// ErrLookupNotFound indicates the lookup record doesn't exist.
	ErrLookupNotFound = errors.New("lookup not found")
	// ErrInvalidInput indicates invalid lookup input.
	ErrInvalidInput = errors.New("invalid lookup input")
)
