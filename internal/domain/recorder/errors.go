package recorder

import "errors"

var (
	// ErrUnknownEntity indicates no descriptor is registered for the entity type.
	ErrUnknownEntity = errors.New("unknown entity type")
	// ErrInvalidInput indicates an event is missing required identity fields.
	ErrInvalidInput = errors.New("invalid activity event")
)
