package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned when an application id is unknown to the store.
	ErrRecordNotFound = errors.New("application not found")

	// ErrInvalidStep is returned when a step name or value is outside the sequence.
	ErrInvalidStep = errors.New("invalid step")

	// ErrCorruptRecord is returned when a stored record cannot be interpreted,
	// e.g. its current step is not part of the sequence.
	ErrCorruptRecord = errors.New("corrupt application record")

	// ErrStoreUnavailable is returned when the record store cannot be reached
	// or fails to answer.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrNoNextStep is returned when advancing from the review step.
	ErrNoNextStep = errors.New("review has no next step, submit instead")

	// ErrStepMismatch is returned when an action targets a step other than
	// the one the application is positioned at.
	ErrStepMismatch = errors.New("step does not match the application's current step")

	// ErrStepNotReached is returned when saving an answer for a step the
	// applicant has not reached yet.
	ErrStepNotReached = errors.New("step not reached")

	// ErrSubmitted is returned when modifying an application that was submitted.
	ErrSubmitted = errors.New("application already submitted")

	// ErrInvalidAnswer is returned for answer values outside a field's options.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidPatch is returned when a patch cannot be applied as written.
	ErrInvalidPatch = errors.New("invalid patch")
)

// AnswerError describes a rejected answer value.
type AnswerError struct {
	Field  Field
	Value  string
	Reason string
}

func (e *AnswerError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: field %q: %s", ErrInvalidAnswer, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: unknown option %q", ErrInvalidAnswer, e.Field, e.Value)
}

func (e *AnswerError) Unwrap() error {
	return ErrInvalidAnswer
}

// CorruptRecordError wraps the cause that made a stored record unreadable.
func CorruptRecordError(id string, cause error) error {
	return fmt.Errorf("%w %s: %w", ErrCorruptRecord, id, cause)
}
