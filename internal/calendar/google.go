package calendar

import (
	"context"
	"fmt"

	gcal "google.golang.org/api/calendar/v3"
)

const (
	defaultCalendarID = "primary"
	defaultTimeZone   = "America/Argentina/Buenos_Aires"
)

// GoogleClient implements Client on the Google Calendar API.
type GoogleClient struct {
	svc        *gcal.Service
	calendarID string
	timeZone   string
}

func NewGoogleClient(svc *gcal.Service, calendarID, timeZone string) *GoogleClient {
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	if timeZone == "" {
		timeZone = defaultTimeZone
	}
	return &GoogleClient{
		svc:        svc,
		calendarID: calendarID,
		timeZone:   timeZone,
	}
}

func (c *GoogleClient) Create(ctx context.Context, in EventInput) (Event, error) {
	ev := &gcal.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       c.wallClock(in.Date, in.StartTime),
		End:         c.wallClock(in.Date, in.EndTime),
	}

	created, err := c.svc.Events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("insert calendar event: %w", err)
	}
	return Event{ID: created.Id, Link: created.HtmlLink}, nil
}

func (c *GoogleClient) PatchTime(ctx context.Context, eventID, date, startTime, endTime string) error {
	patch := &gcal.Event{
		Start: c.wallClock(date, startTime),
		End:   c.wallClock(date, endTime),
	}
	if _, err := c.svc.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("patch calendar event time: %w", err)
	}
	return nil
}

func (c *GoogleClient) PatchDescription(ctx context.Context, eventID, summary, description string) error {
	patch := &gcal.Event{
		Summary:     summary,
		Description: description,
	}
	if _, err := c.svc.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("patch calendar event description: %w", err)
	}
	return nil
}

func (c *GoogleClient) Delete(ctx context.Context, eventID string) error {
	if err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// wallClock builds a dateTime with the local time as written and the
// zone attached by name only.
func (c *GoogleClient) wallClock(date, hhmm string) *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: fmt.Sprintf("%sT%s:00", date, hhmm),
		TimeZone: c.timeZone,
	}
}
