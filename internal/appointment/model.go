package appointment

import (
	"strings"

	"github.com/consultorio/turnos-bot/internal/text"
)

type Status string

const (
	StatusActive    Status = "ACTIVO"
	StatusCancelled Status = "CANCELADO"
)

type Type string

const (
	TypeParticular Type = "PARTICULAR"
	TypeOS         Type = "OS"
)

const (
	PaymentPending = "PENDIENTE"
	PaymentPaid    = "PAGADO"
)

// Appointment is one row of the backing store. Date and Time stay as
// wall-clock strings end to end; only CreatedAt is a real timestamp
// (RFC3339, UTC). ID and CreatedAt are immutable after creation.
type Appointment struct {
	ID          string
	Patient     string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Type        Type
	Payment     string
	Status      Status
	CalendarRef string
	Note        string
	CreatedAt   string
}

// RowWidth is the column count of the store row format.
const RowWidth = 10

// Row serializes in the fixed store column order:
// id, patient, date, time, type, payment, status, calendar_ref, note, created_at.
func (a Appointment) Row() []string {
	return []string{
		a.ID, a.Patient, a.Date, a.Time,
		string(a.Type), a.Payment, string(a.Status),
		a.CalendarRef, a.Note, a.CreatedAt,
	}
}

// FromRow tolerates short rows (trailing empty cells are not always
// materialized by the sheet backend).
func FromRow(row []string) Appointment {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return Appointment{
		ID:          get(0),
		Patient:     get(1),
		Date:        get(2),
		Time:        get(3),
		Type:        Type(get(4)),
		Payment:     get(5),
		Status:      Status(get(6)),
		CalendarRef: get(7),
		Note:        get(8),
		CreatedAt:   get(9),
	}
}

// ParseType folds free-form type input; anything that is not an
// obra-social marker is PARTICULAR.
func ParseType(s string) Type {
	f := text.Fold(s)
	if f == "OS" || strings.Contains(f, "OBRA SOCIAL") || strings.Contains(f, "OBRASOCIAL") {
		return TypeOS
	}
	return TypeParticular
}

// SlotKey is the uniqueness key among active appointments and the key
// the per-slot locker serializes on.
func SlotKey(patient, date, hhmm string) string {
	return text.Fold(patient) + "|" + date + "|" + hhmm
}
