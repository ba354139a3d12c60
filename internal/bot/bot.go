package bot

import (
	"context"

	"github.com/consultorio/turnos-bot/internal/appointment"
	"github.com/consultorio/turnos-bot/internal/command"
)

// Bot turns one inbound message into one reply: parse the text into an
// intent, run the matching engine operation, render the result. All
// decisions live in the parser and the engine; the formatter only
// renders.
type Bot struct {
	svc *appointment.Service
}

func New(svc *appointment.Service) *Bot {
	return &Bot{svc: svc}
}

// HandleText interprets one message and returns the reply text. It
// never fails: parse and engine errors render as reply strings.
func (b *Bot) HandleText(ctx context.Context, raw string) string {
	in := command.Parse(raw)

	switch in.Command {
	case command.CmdSchedule:
		res, err := b.svc.Schedule(ctx, in.Patient, in.Date, in.Time, in.Type)
		if err != nil {
			return formatError(err)
		}
		return formatScheduled(res)

	case command.CmdList:
		day, err := b.svc.ListByDate(ctx, in.Date)
		if err != nil {
			return formatError(err)
		}
		return formatDayList(day)

	case command.CmdSearch:
		res, err := b.svc.SearchByPatient(ctx, in.Patient)
		if err != nil {
			return formatError(err)
		}
		return formatSearch(res)

	case command.CmdCancel:
		appt, err := b.svc.Cancel(ctx, in.ID)
		if err != nil {
			return formatError(err)
		}
		return formatCancelled(appt)

	case command.CmdReschedule:
		appt, err := b.svc.Reschedule(ctx, in.ID, in.Date, in.Time)
		if err != nil {
			return formatError(err)
		}
		return formatRescheduled(appt)

	case command.CmdPay:
		appt, err := b.svc.MarkPaid(ctx, in.ID, in.Detail)
		if err != nil {
			return formatError(err)
		}
		return formatPaid(appt)

	case command.CmdNote:
		appt, err := b.svc.SetNote(ctx, in.ID, in.Detail)
		if err != nil {
			return formatError(err)
		}
		return formatNoted(appt)

	case command.CmdStatus:
		appt, err := b.svc.Status(ctx, in.ID)
		if err != nil {
			return formatError(err)
		}
		return formatStatus(appt)
	}

	// CmdHelp and anything unrecognized share the usage reply.
	return UsageText
}
