// Error kinds shared across services. Handlers translate them into HTTP
// responses: ValidationError -> 400, PermissionDeniedError -> 403,
// NotFoundError -> 404, ExternalError -> 502. Validation and permission
// failures are terminal and must never be retried.
package domain

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError carries one or more field-level failures. A single check
// may name several fields with the same message, e.g. the round-trip
// reservation checks report under both first_flight and return_flight.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records message/code once per named field, preserving order.
func (e *ValidationError) Add(message, code string, fields ...string) {
	for _, field := range fields {
		e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Code: code})
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

type PermissionDeniedError struct {
	Capability string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permission"
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ExternalError wraps a failure of a collaborator (mail, broker, storage).
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}
