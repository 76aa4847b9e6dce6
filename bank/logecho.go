package bank

import (
	"log"

	"github.com/sarchlab/piggybank/sim"
)

// LogEcho is a hook that mirrors activity log entries to a logger.
type LogEcho struct {
	*log.Logger
}

// NewLogEcho creates a LogEcho writing to logger.
func NewLogEcho(logger *log.Logger) *LogEcho {
	return &LogEcho{Logger: logger}
}

// Func prints appended entries.
func (h *LogEcho) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosLogAppend {
		return
	}

	entry, ok := ctx.Item.(LogEntry)
	if !ok {
		return
	}

	h.Logger.Print(entry.String())
}
