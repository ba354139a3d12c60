package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/consultorio/turnos-bot/internal/appointment"
)

// UsageText doubles as the help reply and the fallback for anything
// the parser did not recognize.
const UsageText = `Comandos disponibles:
AGENDAR|Nombre|YYYY-MM-DD|HH:MM|PARTICULAR/OS
LISTAR|YYYY-MM-DD
BUSCAR|Nombre
CANCELAR|ID
REPROGRAMAR|ID|YYYY-MM-DD|HH:MM
PAGADO|ID|detalle
NOTA|ID|texto
ESTADO|ID
AYUDA`

func formatScheduled(res *appointment.ScheduleResult) string {
	a := res.Appointment
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Agendado\n%s\n%s %s\nTipo: %s\nID: %s", a.Patient, a.Date, a.Time, a.Type, a.ID)
	if res.CalendarOK {
		fmt.Fprintf(&b, "\n📅 %s", res.CalendarLink)
	} else {
		b.WriteString("\n⚠️ Sin evento en el calendario")
	}
	return b.String()
}

func formatDayList(day *appointment.DayList) string {
	if len(day.Active) == 0 && len(day.Inactive) == 0 {
		return fmt.Sprintf("No hay turnos para %s", day.Date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turnos %s:", day.Date)
	for _, a := range day.Active {
		fmt.Fprintf(&b, "\n%s %s (%s) [%s]", a.Time, a.Patient, a.Type, a.Payment)
	}
	if len(day.Inactive) > 0 {
		b.WriteString("\nCancelados:")
		for _, a := range day.Inactive {
			fmt.Fprintf(&b, "\n%s %s", a.Time, a.Patient)
		}
	}
	return b.String()
}

func formatSearch(res *appointment.SearchResult) string {
	if res.Total == 0 {
		return fmt.Sprintf("Sin resultados para %q", res.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d turno(s) para %q:", res.Total, res.Query)
	for _, a := range res.Matches {
		fmt.Fprintf(&b, "\n%s %s %s [%s] ID %s", a.Date, a.Time, a.Patient, a.Status, a.ID)
	}
	if res.Total > len(res.Matches) {
		fmt.Fprintf(&b, "\n(mostrando %d de %d)", len(res.Matches), res.Total)
	}
	return b.String()
}

func formatStatus(a *appointment.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turno %s\n%s\n%s %s\nTipo: %s\nPago: %s\nEstado: %s",
		a.ID, a.Patient, a.Date, a.Time, a.Type, a.Payment, a.Status)
	if a.Note != "" {
		fmt.Fprintf(&b, "\nNota: %s", a.Note)
	}
	return b.String()
}

func formatCancelled(a *appointment.Appointment) string {
	return fmt.Sprintf("🗑️ Cancelado el turno de %s (%s %s)", a.Patient, a.Date, a.Time)
}

func formatRescheduled(a *appointment.Appointment) string {
	return fmt.Sprintf("🔁 Reprogramado: %s ahora el %s %s", a.Patient, a.Date, a.Time)
}

func formatPaid(a *appointment.Appointment) string {
	return fmt.Sprintf("💰 Pago registrado para %s: %s", a.Patient, a.Payment)
}

func formatNoted(a *appointment.Appointment) string {
	return fmt.Sprintf("📝 Nota guardada para %s", a.Patient)
}

func formatError(err error) string {
	var vErr *appointment.ValidationError
	var cErr *appointment.ConflictError

	switch {
	case errors.As(err, &vErr):
		return fmt.Sprintf("⚠️ Falta o es inválido el campo: %s\n\n%s", vErr.Field, UsageText)
	case errors.As(err, &cErr):
		return fmt.Sprintf("⚠️ Conflicto: %s ya tiene turno el %s %s (ID %s)",
			cErr.Patient, cErr.Date, cErr.Time, cErr.ExistingID)
	case errors.Is(err, appointment.ErrNotFound):
		return "⚠️ No encontré un turno con ese ID"
	case errors.Is(err, appointment.ErrNotActive):
		return "⚠️ Ese turno no está activo"
	case errors.Is(err, appointment.ErrSlotBusy):
		return "⚠️ Ese horario se está modificando, probá de nuevo en unos segundos"
	default:
		return "❌ No pude completar la operación, intentá de nuevo"
	}
}
