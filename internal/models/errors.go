package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation marks input rejected before any store call
	ErrValidation = errors.New("validation failed")
	// ErrAuth marks bad credentials or a failed Google exchange
	ErrAuth = errors.New("authentication failed")
	// ErrForbidden marks a moderation call without an admin session
	ErrForbidden = errors.New("admin session required")
	// ErrNotFound marks a missing transition or delete target
	ErrNotFound = errors.New("not found")
	// ErrNetwork marks a transport failure talking to the store
	ErrNetwork = errors.New("store unavailable")
	// ErrConfirmationRequired marks a delete issued without explicit confirmation
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrInvalidTransition marks an unknown action or corrupt status
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConflict marks a duplicate unique key, e.g. a registered email
	ErrConflict = errors.New("conflict")
)

// ValidationError carries the failed field names and their rule tags
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, tag string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: tag}}
}
