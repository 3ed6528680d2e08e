package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown surveys, share tokens, access codes and questions.
	ErrNotFound = errors.New("not found")
	// ErrCodeSpaceExhausted means every sampled access code was already taken.
	ErrCodeSpaceExhausted = errors.New("unable to generate a unique result access code")
	// ErrCodeCollision means inserts kept hitting a unique index after the pre-check passed.
	ErrCodeCollision = errors.New("survey identifiers collided with an existing survey")
)

// ValidationError carries a message meant for whoever sent the input.
type ValidationError struct {
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
