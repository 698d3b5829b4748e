package service

import (
	"errors"
)

var (
	ErrForbidden        = errors.New("resource belongs to another user")
	ErrUnauthenticated  = errors.New("missing or invalid bearer token")
	ErrCompleterMissing = errors.New("completion service is not configured")
	ErrGenerationFailed = errors.New("completion could not be turned into a result")
)

// InputError is a request problem the caller can fix; Message is shown as is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func inputError(msg string) error {
	return &InputError{Message: msg}
}
