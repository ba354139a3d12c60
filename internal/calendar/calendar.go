package calendar

import "context"

// Event references a created calendar event.
type Event struct {
	ID   string
	Link string
}

// EventInput carries wall-clock times. Implementations attach the
// configured timezone name verbatim; minutes are never converted
// across a timezone boundary.
type EventInput struct {
	Summary     string
	Description string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM
}

// Client is the sync capability the engine consumes. Every call is
// best effort from the engine's point of view: failures are returned
// so the caller can log them, but they never roll back or block the
// store mutation. The calendar is not the source of truth.
type Client interface {
	Create(ctx context.Context, in EventInput) (Event, error)
	PatchTime(ctx context.Context, eventID, date, startTime, endTime string) error
	PatchDescription(ctx context.Context, eventID, summary, description string) error
	Delete(ctx context.Context, eventID string) error
}
