// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Code is a stable machine-readable identifier (e.g. "insufficient_stock");
// Context carries structured detail the UI needs to render an actionable
// message (requested vs. available quantities, conflicting ids).
type APIError struct {
	Code    string         `json:"code,omitempty"`
	Detail  string         `json:"detail"`
	Context map[string]any `json:"context,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewCoded(code, msg string, ctx map[string]any) *APIError {
	return &APIError{Code: code, Detail: msg, Context: ctx}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
