package utils

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ValidationError indicates a client-fault problem with a specific input
// field. Submissions failing validation create no records and are safe to
// retry after fixing the input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnknownExerciseError indicates a submission for an exercise id with no
// registered answer key.
type UnknownExerciseError struct {
	ExerciseID int
}

func (e *UnknownExerciseError) Error() string {
	return fmt.Sprintf("unknown exercise %d", e.ExerciseID)
}

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnknownExercise reports whether err is an UnknownExerciseError.
func IsUnknownExercise(err error) bool {
	var ue *UnknownExerciseError
	return errors.As(err, &ue)
}

// IsNotFound reports whether err marks a missing record, from either this
// package or GORM directly.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a storage-level uniqueness violation.
// This is the signal that a concurrent request won the create race; callers
// resolve it by re-reading the winning record, never by retrying the insert.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
