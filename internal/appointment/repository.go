package appointment

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("appointment not found")
	ErrNotActive = errors.New("appointment is not active")
	ErrSlotBusy  = errors.New("slot is being modified, retry")
)

// ValidationError names the missing or malformed input field. No state
// is mutated when it is returned.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing or invalid field: " + e.Field
}

// ConflictError carries the active appointment already holding the
// requested slot, so the caller can offer a reschedule instead.
type ConflictError struct {
	ExistingID string
	Patient    string
	Date       string
	Time       string
}

func (e *ConflictError) Error() string {
	return "slot already held by appointment " + e.ExistingID
}

// Repository abstracts the tabular backing store. Rows keep a stable
// position once appended; updates are addressed by that position.
// Records are never deleted, cancellation is a status change.
type Repository interface {
	ReadAll(ctx context.Context) ([]Appointment, error)
	Append(ctx context.Context, a Appointment) error
	UpdateAt(ctx context.Context, pos int, a Appointment) error
}
