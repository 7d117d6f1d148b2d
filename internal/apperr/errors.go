package apperr

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks store errors the caller may retry.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrValidation marks bad input; not retryable, user-correctable.
var ErrValidation = errors.New("validation failed")

// ErrInconsistentBalance is returned when an adjustment entry was
// created but the follow-up book-balance update failed. The adjustment
// is retained; a manual refresh is expected to reconcile the gap.
var ErrInconsistentBalance = errors.New("adjustment created but balances may not be accurate")

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unavailable wraps a store error as retryable.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
}

// CascadeReport aggregates non-critical failures encountered while
// deleting a session. A non-empty report is not an overall failure.
type CascadeReport struct {
	SessionDeleted bool     `json:"session_deleted"`
	Warnings       []string `json:"warnings"`
}

func (r *CascadeReport) Warn(step string, err error) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", step, err))
}

// Partial reports whether any non-critical step failed.
func (r *CascadeReport) Partial() bool {
	return len(r.Warnings) > 0
}
