package domain

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails decoding or business rule
// validation (malformed JSON, missing field, value out of bounds).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ValidationError describes a single rejected input. Message is a
// human-readable sentence safe to return to the client. Field is empty when
// the rejection concerns the payload as a whole.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
