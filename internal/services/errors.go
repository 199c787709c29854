package services

import "fmt"

// ValidationError reports a required field missing from a request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

// ConflictError reports an email address already used by another user.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

// NotFoundError reports an unknown user ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user with ID %s not found", e.ID)
}
