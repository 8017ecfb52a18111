package errors

import "errors"

// Sentinel errors shared by the service and API layers. Services wrap them
// with context (`fmt.Errorf("%w: ...", ErrValidation)`) and the API layer maps
// them to status codes with errors.Is.

var (
	// ErrNotFound means the addressed conversation, message or setting does not exist. Maps to 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation means the input broke a business rule. Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the request collides with work already in progress,
	// e.g. a second turn on a conversation that is still streaming. Maps to 409.
	ErrConflict = errors.New("resource conflict")

	// ErrUnavailable means the assistant backend could not be reached. Maps to 502.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrInternal hides unexpected failures from clients. Maps to 500.
	ErrInternal = errors.New("internal server error")
)
