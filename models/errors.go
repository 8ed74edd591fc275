package models

import "errors"

// ValidationError marks failures caused by the request itself (missing
// file, missing required columns, bad target status). Handlers map these
// to 400; everything else is a store failure and stays 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
