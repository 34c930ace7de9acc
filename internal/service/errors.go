package service

import (
	"errors"
	"fmt"
)

var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrVerificationFailed = errors.New("webhook verification failed")
)

// ValidationError reports a request that lacks a required field or has no
// usable body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is required", e.Field)
}

func missing(field string) error {
	return &ValidationError{Field: field}
}
