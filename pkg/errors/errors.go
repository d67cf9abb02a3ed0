package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownUser        = errors.New("submission references an unknown user")
	ErrInvalidStatus      = errors.New("invalid submission status")
	ErrInvalidPayload     = errors.New("submitted data is not valid JSON")
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrFileTypeBlocked    = errors.New("file content type is not allowed")
	ErrNoIdentity         = errors.New("caller identity could not be resolved")
	ErrNotAdmin           = errors.New("caller is not an administrator")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}
