package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, recorder.ErrUnknownEntity):
		return &APIError{Code: "UNKNOWN_ENTITY", Message: "unknown entity type", Details: err.Error(), RecoveryHint: "Use one of " + strings.Join(recorder.DefaultRegistry().EntityTypes(), ", ")}
	case errors.Is(err, recorder.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, lookup.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input", Details: err.Error()}
	case errors.Is(err, lookup.ErrLookupNotFound):
		return &APIError{Code: "LOOKUP_NOT_FOUND", Message: "lookup not found", RecoveryHint: "Upsert the lookup first"}
	case errors.Is(err, activity.ErrActivityNotFound):
		return &APIError{Code: "ACTIVITY_NOT_FOUND", Message: "activity not found"}
	default:
		return nil
	}
}

// toolError returns the coded form of err when one exists.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
