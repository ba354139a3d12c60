package appointment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consultorio/turnos-bot/internal/calendar"
	redisclient "github.com/consultorio/turnos-bot/internal/redis"
	"github.com/consultorio/turnos-bot/internal/text"
)

// sessionMinutes is the calendar window of one appointment.
const sessionMinutes = 50

// searchDisplayCap limits how many matches a search renders; the total
// match count is reported regardless.
const searchDisplayCap = 10

// Service owns the appointment lifecycle. It is the sole writer of the
// Repository; the calendar client is kept in sync best effort and its
// failures never block or roll back a store mutation.
type Service struct {
	repo   Repository
	cal    calendar.Client // nil disables calendar sync
	locker redisclient.Locker
	now    func() time.Time
	newID  func() string
}

func NewService(repo Repository, cal calendar.Client, locker redisclient.Locker) *Service {
	return &Service{
		repo:   repo,
		cal:    cal,
		locker: locker,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

type ScheduleResult struct {
	Appointment  Appointment
	CalendarLink string
	CalendarOK   bool
}

// Schedule creates an active appointment. The conflict check and the
// append run inside a per-slot lock so two concurrent requests for the
// same (patient, date, time) cannot both pass the check.
func (s *Service) Schedule(ctx context.Context, patient, dateTok, timeTok, typeTok string) (*ScheduleResult, error) {
	patient = text.Normalize(patient)
	if patient == "" {
		return nil, &ValidationError{Field: "paciente"}
	}
	date, ok := text.ParseFlexibleDate(dateTok)
	if !ok {
		return nil, &ValidationError{Field: "fecha"}
	}
	hhmm, ok := text.ParseFlexibleTime(timeTok)
	if !ok {
		return nil, &ValidationError{Field: "hora"}
	}
	kind := ParseType(typeTok)

	var result *ScheduleResult

	err := s.locker.WithSlotLock(ctx, SlotKey(patient, date, hhmm), func(lockCtx context.Context) error {
		rows, err := s.repo.ReadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("read appointments: %w", err)
		}
		if hit := findActiveConflict(rows, patient, date, hhmm, ""); hit != nil {
			return &ConflictError{ExistingID: hit.ID, Patient: hit.Patient, Date: hit.Date, Time: hit.Time}
		}

		appt := Appointment{
			ID:        s.newID(),
			Patient:   patient,
			Date:      date,
			Time:      hhmm,
			Type:      kind,
			Payment:   PaymentPending,
			Status:    StatusActive,
			CreatedAt: s.now().UTC().Format(time.RFC3339),
		}

		link, calOK := s.createEvent(lockCtx, &appt)

		if err := s.repo.Append(lockCtx, appt); err != nil {
			return fmt.Errorf("append appointment: %w", err)
		}

		result = &ScheduleResult{Appointment: appt, CalendarLink: link, CalendarOK: calOK}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	return result, nil
}

// DayList partitions one date's appointments, each side ordered by
// time ascending.
type DayList struct {
	Date     string
	Active   []Appointment
	Inactive []Appointment
}

func (s *Service) ListByDate(ctx context.Context, dateTok string) (*DayList, error) {
	date, ok := text.ParseFlexibleDate(dateTok)
	if !ok {
		return nil, &ValidationError{Field: "fecha"}
	}

	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	day := &DayList{Date: date}
	for _, a := range rows {
		if a.Date != date {
			continue
		}
		if a.Status == StatusActive {
			day.Active = append(day.Active, a)
		} else {
			day.Inactive = append(day.Inactive, a)
		}
	}

	byTime := func(list []Appointment) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Time < list[j].Time })
	}
	byTime(day.Active)
	byTime(day.Inactive)

	return day, nil
}

// SearchResult carries the full match count even when the rendered
// matches are capped.
type SearchResult struct {
	Query   string
	Total   int
	Matches []Appointment // (date, time) descending, capped for display
}

func (s *Service) SearchByPatient(ctx context.Context, query string) (*SearchResult, error) {
	query = text.Normalize(query)
	if query == "" {
		return nil, &ValidationError{Field: "paciente"}
	}

	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	folded := text.Fold(query)
	var matches []Appointment
	for _, a := range rows {
		if strings.Contains(text.Fold(a.Patient), folded) {
			matches = append(matches, a)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date > matches[j].Date
		}
		return matches[i].Time > matches[j].Time
	})

	result := &SearchResult{Query: query, Total: len(matches), Matches: matches}
	if len(matches) > searchDisplayCap {
		result.Matches = matches[:searchDisplayCap]
	}
	return result, nil
}

func (s *Service) Status(ctx context.Context, id string) (*Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Field: "id"}
	}

	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	_, appt := findByID(rows, id)
	if appt == nil {
		return nil, ErrNotFound
	}
	out := *appt
	return &out, nil
}

// Cancel transitions an active appointment to CANCELADO. All other
// fields stay untouched and the row is never removed.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Field: "id"}
	}

	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	pos, appt := findByID(rows, id)
	if appt == nil {
		return nil, ErrNotFound
	}
	if appt.Status != StatusActive {
		return nil, ErrNotActive
	}

	updated := *appt
	updated.Status = StatusCancelled

	if err := s.repo.UpdateAt(ctx, pos, updated); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	if s.cal != nil && updated.CalendarRef != "" {
		if err := s.cal.Delete(ctx, updated.CalendarRef); err != nil {
			log.Printf("calendar delete failed for appointment %s: %v", updated.ID, err)
		}
	}

	return &updated, nil
}

// Reschedule moves an active appointment to a new slot. Landing on the
// appointment's own current slot is not a conflict.
func (s *Service) Reschedule(ctx context.Context, id, dateTok, timeTok string) (*Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Field: "id"}
	}
	date, ok := text.ParseFlexibleDate(dateTok)
	if !ok {
		return nil, &ValidationError{Field: "fecha"}
	}
	hhmm, ok := text.ParseFlexibleTime(timeTok)
	if !ok {
		return nil, &ValidationError{Field: "hora"}
	}

	// The slot key needs the patient name, so resolve the record first
	// and re-check everything inside the critical section.
	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}
	_, appt := findByID(rows, id)
	if appt == nil {
		return nil, ErrNotFound
	}
	if appt.Status != StatusActive {
		return nil, ErrNotActive
	}

	var result *Appointment

	err = s.locker.WithSlotLock(ctx, SlotKey(appt.Patient, date, hhmm), func(lockCtx context.Context) error {
		rows, err := s.repo.ReadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("read appointments: %w", err)
		}
		pos, cur := findByID(rows, id)
		if cur == nil {
			return ErrNotFound
		}
		if cur.Status != StatusActive {
			return ErrNotActive
		}
		if hit := findActiveConflict(rows, cur.Patient, date, hhmm, cur.ID); hit != nil {
			return &ConflictError{ExistingID: hit.ID, Patient: hit.Patient, Date: hit.Date, Time: hit.Time}
		}

		updated := *cur
		updated.Date = date
		updated.Time = hhmm

		if err := s.repo.UpdateAt(lockCtx, pos, updated); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		if s.cal != nil && updated.CalendarRef != "" {
			end := text.AddMinutes(hhmm, sessionMinutes)
			if err := s.cal.PatchTime(lockCtx, updated.CalendarRef, date, hhmm, end); err != nil {
				log.Printf("calendar time patch failed for appointment %s: %v", updated.ID, err)
			}
		}

		result = &updated
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	return result, nil
}

// MarkPaid records a payment on any existing record, active or not.
func (s *Service) MarkPaid(ctx context.Context, id, detail string) (*Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Field: "id"}
	}

	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	pos, appt := findByID(rows, id)
	if appt == nil {
		return nil, ErrNotFound
	}

	updated := *appt
	updated.Payment = PaymentPaid
	if d := text.Normalize(detail); d != "" {
		updated.Payment = fmt.Sprintf("%s (%s)", PaymentPaid, d)
	}

	if err := s.repo.UpdateAt(ctx, pos, updated); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.patchDescription(ctx, &updated)

	return &updated, nil
}

// SetNote attaches a free-form note to an existing record.
func (s *Service) SetNote(ctx context.Context, id, note string) (*Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ValidationError{Field: "id"}
	}
	note = text.Normalize(note)
	if note == "" {
		return nil, &ValidationError{Field: "nota"}
	}

	rows, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	pos, appt := findByID(rows, id)
	if appt == nil {
		return nil, ErrNotFound
	}

	updated := *appt
	updated.Note = note

	if err := s.repo.UpdateAt(ctx, pos, updated); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.patchDescription(ctx, &updated)

	return &updated, nil
}

// findActiveConflict scans for the active appointment occupying
// (patient, date, time), comparing patients in folded form. excludeID
// lets a reschedule land on its own current slot.
func findActiveConflict(rows []Appointment, patient, date, hhmm, excludeID string) *Appointment {
	folded := text.Fold(patient)
	for i := range rows {
		a := &rows[i]
		if a.Status != StatusActive || a.ID == excludeID {
			continue
		}
		if a.Date == date && a.Time == hhmm && text.Fold(a.Patient) == folded {
			return a
		}
	}
	return nil
}

func findByID(rows []Appointment, id string) (int, *Appointment) {
	for i := range rows {
		if rows[i].ID == id {
			return i, &rows[i]
		}
	}
	return -1, nil
}

func (s *Service) createEvent(ctx context.Context, appt *Appointment) (link string, ok bool) {
	if s.cal == nil {
		return "", false
	}
	ev, err := s.cal.Create(ctx, calendar.EventInput{
		Summary:     eventSummary(appt.Patient),
		Description: eventDescription(appt),
		Date:        appt.Date,
		StartTime:   appt.Time,
		EndTime:     text.AddMinutes(appt.Time, sessionMinutes),
	})
	if err != nil {
		log.Printf("calendar create failed for appointment %s: %v", appt.ID, err)
		return "", false
	}
	appt.CalendarRef = ev.ID
	return ev.Link, true
}

func (s *Service) patchDescription(ctx context.Context, a *Appointment) {
	if s.cal == nil || a.CalendarRef == "" {
		return
	}
	if err := s.cal.PatchDescription(ctx, a.CalendarRef, eventSummary(a.Patient), eventDescription(a)); err != nil {
		log.Printf("calendar description patch failed for appointment %s: %v", a.ID, err)
	}
}

func eventSummary(patient string) string {
	return patient + " - Psicoterapia"
}

func eventDescription(a *Appointment) string {
	d := fmt.Sprintf("Tipo: %s\nPago: %s", a.Type, a.Payment)
	if a.Note != "" {
		d += "\nNota: " + a.Note
	}
	return d
}
