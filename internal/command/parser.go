package command

import (
	"strings"

	"github.com/consultorio/turnos-bot/internal/text"
)

// Parse turns raw message text into an Intent. Input containing the
// field separator goes through the strict grammar; everything else is
// matched against the free-text keyword prefixes. Parse never fails:
// unrecognized input yields CmdUnknown.
func Parse(raw string) Intent {
	s := text.Normalize(raw)
	if s == "" {
		return Intent{Command: CmdUnknown}
	}
	if strings.Contains(s, "|") {
		return parseStrict(s)
	}
	return parseFree(s)
}

// parseStrict handles the KEYWORD|field|field form. Missing positional
// fields pass through empty; the engine rejects them with a field name.
func parseStrict(s string) Intent {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	switch text.Fold(parts[0]) {
	case "AGENDAR":
		return Intent{Command: CmdSchedule, Patient: arg(1), Date: arg(2), Time: arg(3), Type: arg(4)}
	case "LISTAR":
		return Intent{Command: CmdList, Date: arg(1)}
	case "BUSCAR":
		return Intent{Command: CmdSearch, Patient: arg(1)}
	case "CANCELAR":
		return Intent{Command: CmdCancel, ID: arg(1)}
	case "REPROGRAMAR":
		return Intent{Command: CmdReschedule, ID: arg(1), Date: arg(2), Time: arg(3)}
	case "PAGADO":
		return Intent{Command: CmdPay, ID: arg(1), Detail: arg(2)}
	case "NOTA":
		return Intent{Command: CmdNote, ID: arg(1), Detail: arg(2)}
	case "ESTADO":
		return Intent{Command: CmdStatus, ID: arg(1)}
	case "AYUDA":
		return Intent{Command: CmdHelp}
	}
	return Intent{Command: CmdUnknown}
}

// freeKeywords maps folded keyword prefixes to commands, in match
// order. REPROGRAMA goes first so it cannot be shadowed; PAGO covers
// the truncated form of PAGADO.
var freeKeywords = []struct {
	cmd      Command
	prefixes []string
}{
	{CmdReschedule, []string{"REPROGRAMA"}},
	{CmdSchedule, []string{"AGENDA"}},
	{CmdList, []string{"LISTA"}},
	{CmdSearch, []string{"BUSCA"}},
	{CmdCancel, []string{"CANCELA"}},
	{CmdPay, []string{"PAGADO", "PAGO"}},
	{CmdNote, []string{"NOTA"}},
	{CmdStatus, []string{"ESTADO"}},
	{CmdHelp, []string{"AYUDA", "HELP"}},
}

func parseFree(s string) Intent {
	folded := text.Fold(s)
	tokens := strings.Fields(s)

	for _, kw := range freeKeywords {
		for _, p := range kw.prefixes {
			if strings.HasPrefix(folded, p) {
				return parseFreeArgs(kw.cmd, folded, tokens[1:])
			}
		}
	}
	return Intent{Command: CmdUnknown}
}

func parseFreeArgs(cmd Command, folded string, rest []string) Intent {
	arg := strings.Join(rest, " ")

	switch cmd {
	case CmdHelp:
		return Intent{Command: CmdHelp}
	case CmdList:
		return Intent{Command: CmdList, Date: arg}
	case CmdSearch:
		return Intent{Command: CmdSearch, Patient: arg}
	case CmdCancel:
		return Intent{Command: CmdCancel, ID: arg}
	case CmdStatus:
		return Intent{Command: CmdStatus, ID: arg}
	case CmdPay, CmdNote:
		id, detail := splitFirst(arg)
		return Intent{Command: cmd, ID: id, Detail: detail}
	case CmdReschedule:
		return parseFreeReschedule(rest)
	case CmdSchedule:
		return parseFreeSchedule(folded, rest)
	}
	return Intent{Command: CmdUnknown}
}

// splitFirst splits "id rest of text" at the first space; with no
// space the whole argument is the id and the detail is empty.
func splitFirst(arg string) (string, string) {
	parts := strings.SplitN(arg, " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return arg, ""
}

// parseFreeReschedule expects id, date, time as positional tokens.
// Unparsable date/time tokens stay empty rather than aborting; the
// engine reports the missing field.
func parseFreeReschedule(rest []string) Intent {
	it := Intent{Command: CmdReschedule}
	if len(rest) > 0 {
		it.ID = rest[0]
	}
	if len(rest) > 1 {
		if d, ok := text.ParseFlexibleDate(rest[1]); ok {
			it.Date = d
		}
	}
	if len(rest) > 2 {
		if tm, ok := text.ParseFlexibleTime(rest[2]); ok {
			it.Time = tm
		}
	}
	return it
}

// parseFreeSchedule scans the remaining tokens for the first parseable
// date and the first parseable time. The patient name is every token
// before whichever of the two appears earliest, skipping tokens that
// are just a truncated repeat of the keyword ("agendar agenda Sol ...").
func parseFreeSchedule(folded string, rest []string) Intent {
	it := Intent{Command: CmdSchedule, Type: string(scanType(folded))}

	dateIdx := -1
	for i, tok := range rest {
		if d, ok := text.ParseFlexibleDate(tok); ok {
			it.Date = d
			dateIdx = i
			break
		}
	}

	timeIdx := -1
	for i, tok := range rest {
		if i == dateIdx {
			continue
		}
		if tm, ok := text.ParseFlexibleTime(tok); ok {
			it.Time = tm
			timeIdx = i
			break
		}
	}

	end := len(rest)
	if dateIdx >= 0 && dateIdx < end {
		end = dateIdx
	}
	if timeIdx >= 0 && timeIdx < end {
		end = timeIdx
	}

	var name []string
	for _, tok := range rest[:end] {
		if isKeywordEcho(tok) {
			continue
		}
		name = append(name, tok)
	}
	it.Patient = strings.Join(name, " ")

	return it
}

// isKeywordEcho reports whether a token looks like a truncated form of
// the schedule keyword itself.
func isKeywordEcho(tok string) bool {
	f := text.Fold(tok)
	return len(f) >= 3 && strings.HasPrefix("AGENDAR", f)
}

type scheduleType string

const (
	typeParticular scheduleType = "PARTICULAR"
	typeOS         scheduleType = "OS"
)

// scanType resolves the appointment type from the whole folded text.
// Any obra-social marker wins; an explicit "particular" only confirms
// the default.
func scanType(folded string) scheduleType {
	if strings.Contains(folded, "OBRA SOCIAL") || strings.Contains(folded, "OBRASOCIAL") {
		return typeOS
	}
	for _, tok := range strings.Fields(folded) {
		if tok == "OS" {
			return typeOS
		}
	}
	return typeParticular
}
