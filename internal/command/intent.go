package command

// Command identifies one of the bot's fixed operations.
type Command string

const (
	CmdSchedule   Command = "AGENDAR"
	CmdList       Command = "LISTAR"
	CmdSearch     Command = "BUSCAR"
	CmdCancel     Command = "CANCELAR"
	CmdReschedule Command = "REPROGRAMAR"
	CmdPay        Command = "PAGADO"
	CmdNote       Command = "NOTA"
	CmdStatus     Command = "ESTADO"
	CmdHelp       Command = "AYUDA"

	// CmdUnknown means no grammar recognized the input; the caller
	// falls back to the usage reply.
	CmdUnknown Command = ""
)

// Intent is the structured result both grammars produce. Field tokens
// are passed through as written (empty when missing); the engine owns
// validation so that strict and free-text input reach the same checks.
type Intent struct {
	Command Command
	Patient string
	Date    string
	Time    string
	Type    string
	ID      string
	Detail  string // payment detail or note text
}
