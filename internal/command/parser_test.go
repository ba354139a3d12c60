package command

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Intent
	}{
		{
			"schedule full",
			"AGENDAR|Sol|2026-02-25|16:00|PARTICULAR",
			Intent{Command: CmdSchedule, Patient: "Sol", Date: "2026-02-25", Time: "16:00", Type: "PARTICULAR"},
		},
		{
			"schedule lowercase keyword, type omitted",
			"agendar|Sol Pérez|25/2|16",
			Intent{Command: CmdSchedule, Patient: "Sol Pérez", Date: "25/2", Time: "16"},
		},
		{
			"schedule missing fields pass through empty",
			"AGENDAR|Sol",
			Intent{Command: CmdSchedule, Patient: "Sol"},
		},
		{
			"list",
			"LISTAR|2026-02-25",
			Intent{Command: CmdList, Date: "2026-02-25"},
		},
		{
			"search",
			"buscar|pérez",
			Intent{Command: CmdSearch, Patient: "pérez"},
		},
		{
			"cancel",
			"CANCELAR|abc-123",
			Intent{Command: CmdCancel, ID: "abc-123"},
		},
		{
			"reschedule",
			"REPROGRAMAR|abc-123|26/2|17:30",
			Intent{Command: CmdReschedule, ID: "abc-123", Date: "26/2", Time: "17:30"},
		},
		{
			"pay with detail",
			"PAGADO|abc-123|transferencia",
			Intent{Command: CmdPay, ID: "abc-123", Detail: "transferencia"},
		},
		{
			"note",
			"NOTA|abc-123|trajo el informe",
			Intent{Command: CmdNote, ID: "abc-123", Detail: "trajo el informe"},
		},
		{
			"status",
			"ESTADO|abc-123",
			Intent{Command: CmdStatus, ID: "abc-123"},
		},
		{
			"help",
			"AYUDA|",
			Intent{Command: CmdHelp},
		},
		{
			"unknown keyword",
			"BORRAR|abc-123",
			Intent{Command: CmdUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParseFreeSchedule(t *testing.T) {
	year := time.Now().Year()

	got := Parse("Agendá Sol 25/2 16:00 particular")
	assert.Equal(t, Intent{
		Command: CmdSchedule,
		Patient: "Sol",
		Date:    fmt.Sprintf("%d-02-25", year),
		Time:    "16:00",
		Type:    "PARTICULAR",
	}, got)

	got = Parse("agendar Sol Pérez 25/2 a las 16")
	assert.Equal(t, "Sol Pérez", got.Patient)
	assert.Equal(t, fmt.Sprintf("%d-02-25", year), got.Date)
	assert.Equal(t, "16:00", got.Time)

	// Obra social marker anywhere in the text flips the type.
	got = Parse("agendame a Marta 3/4 10 obra social")
	assert.Equal(t, CmdSchedule, got.Command)
	assert.Equal(t, "a Marta", got.Patient)
	assert.Equal(t, "OS", got.Type)
	assert.Equal(t, "10:00", got.Time)

	got = Parse("agendar Marta 3/4 10 OS")
	assert.Equal(t, "OS", got.Type)

	// Time before date in the sentence: name stops at the time token.
	got = Parse("agenda Horacio 16:00 25/2")
	assert.Equal(t, "Horacio", got.Patient)
	assert.Equal(t, "16:00", got.Time)
	assert.Equal(t, fmt.Sprintf("%d-02-25", year), got.Date)

	// Truncated keyword echo is not part of the name.
	got = Parse("agendar agenda Sol 25/2 16")
	assert.Equal(t, "Sol", got.Patient)

	// No date or time found: everything after the keyword is the name.
	got = Parse("agendar Sol")
	assert.Equal(t, "Sol", got.Patient)
	assert.Empty(t, got.Date)
	assert.Empty(t, got.Time)
}

func TestParseFreeSingleArgument(t *testing.T) {
	assert.Equal(t, Intent{Command: CmdCancel, ID: "abc-123"}, Parse("cancelar abc-123"))
	assert.Equal(t, Intent{Command: CmdSearch, Patient: "Sol Pérez"}, Parse("buscá Sol Pérez"))
	assert.Equal(t, Intent{Command: CmdList, Date: "25/2"}, Parse("listar 25/2"))
	assert.Equal(t, Intent{Command: CmdStatus, ID: "abc-123"}, Parse("estado abc-123"))
}

func TestParseFreeIDPlusRest(t *testing.T) {
	got := Parse("pagado abc-123 transferencia bancaria")
	assert.Equal(t, Intent{Command: CmdPay, ID: "abc-123", Detail: "transferencia bancaria"}, got)

	// No whitespace after the id: detail stays empty.
	got = Parse("pago abc-123")
	assert.Equal(t, Intent{Command: CmdPay, ID: "abc-123"}, got)

	got = Parse("nota abc-123 trajo el informe del colegio")
	assert.Equal(t, Intent{Command: CmdNote, ID: "abc-123", Detail: "trajo el informe del colegio"}, got)
}

func TestParseFreeReschedule(t *testing.T) {
	year := time.Now().Year()

	got := Parse("reprogramar abc-123 26/2 17")
	assert.Equal(t, Intent{
		Command: CmdReschedule,
		ID:      "abc-123",
		Date:    fmt.Sprintf("%d-02-26", year),
		Time:    "17:00",
	}, got)

	// Unparsable date and time tokens stay empty instead of aborting.
	got = Parse("reprogramá abc-123 mañana tarde")
	assert.Equal(t, Intent{Command: CmdReschedule, ID: "abc-123"}, got)
}

func TestParseUnrecognized(t *testing.T) {
	assert.Equal(t, Intent{Command: CmdUnknown}, Parse("hola, quería consultar algo"))
	assert.Equal(t, Intent{Command: CmdUnknown}, Parse(""))
	assert.Equal(t, Intent{Command: CmdUnknown}, Parse("   "))
	assert.Equal(t, Intent{Command: CmdHelp}, Parse("ayuda"))
}
