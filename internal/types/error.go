package types

import "fmt"

// APIError is the error shape every service function returns on failure.
// Code maps directly to the HTTP status the handler should emit.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewValidationError reports missing or malformed input (400).
func NewValidationError(message string) *APIError {
	return &APIError{Code: 400, Message: message, Type: "validation"}
}

// NewAuthError reports a missing/invalid session or bad credentials (401).
func NewAuthError(message string) *APIError {
	return &APIError{Code: 401, Message: message, Type: "auth"}
}

// NewNotFoundError reports an absent or not-owned entity (404).
func NewNotFoundError(message string) *APIError {
	return &APIError{Code: 404, Message: message, Type: "not_found"}
}

// NewConflictError reports a duplicate username/email/collection name (409).
func NewConflictError(message string) *APIError {
	return &APIError{Code: 409, Message: message, Type: "conflict"}
}

// NewUpstreamError wraps a datastore failure (500). The original error
// text is surfaced in the details field of the JSON response.
func NewUpstreamError(message string, cause error) *APIError {
	e := &APIError{Code: 500, Message: message, Type: "upstream"}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}
