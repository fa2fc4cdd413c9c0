// Package apierror is the canonical error envelope for 4xx/5xx HTTP
// responses. Internal errors (gorm, redis, panics) never reach clients
// directly; they are mapped to one of these.
package apierror

type APIError struct {
	Message string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Message: msg}
}

// ValidationError carries per-field failures from request validation.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "Validation failed", Fields: fields}
}
