package bank

import (
	"strings"
	"time"

	"github.com/sarchlab/piggybank/sim"
)

// HookPosLogAppend is triggered every time an entry is added to the
// activity log. The hook item is the LogEntry.
var HookPosLogAppend = &sim.HookPos{Name: "LogAppend"}

// LogTimeLayout is how entry times are printed (HH:mm:ss).
const LogTimeLayout = "15:04:05"

// A LogEntry is one line of the activity log.
type LogEntry struct {
	Time    time.Time
	Message string
}

// String renders the entry as "HH:mm:ss: message".
func (e LogEntry) String() string {
	return e.Time.Format(LogTimeLayout) + ": " + e.Message
}

// ActivityLog is an append-only record of what happened, newest entry
// first.
type ActivityLog struct {
	sim.HookableBase

	clock      Clock
	maxEntries int

	// oldest first
	entries []LogEntry
}

// NewActivityLog creates an empty log. A maxEntries of 0 or less keeps every
// entry; otherwise the oldest entries are dropped beyond that count.
func NewActivityLog(clock Clock, maxEntries int) *ActivityLog {
	return &ActivityLog{
		clock:      clock,
		maxEntries: maxEntries,
	}
}

// Append stamps the message with the current time and puts it on top of the
// log.
func (l *ActivityLog) Append(message string) LogEntry {
	entry := LogEntry{
		Time:    l.clock.Now(),
		Message: message,
	}

	l.entries = append(l.entries, entry)
	if l.maxEntries > 0 && len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	l.InvokeHook(sim.HookCtx{
		Domain: l,
		Pos:    HookPosLogAppend,
		Item:   entry,
	})

	return entry
}

// Len returns the number of entries kept.
func (l *ActivityLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries, newest first.
func (l *ActivityLog) Entries() []LogEntry {
	n := len(l.entries)
	out := make([]LogEntry, n)
	for i, e := range l.entries {
		out[n-1-i] = e
	}

	return out
}

// Text renders the whole log, one "HH:mm:ss: message" line per entry,
// newest first.
func (l *ActivityLog) Text() string {
	var sb strings.Builder
	for i := len(l.entries) - 1; i >= 0; i-- {
		sb.WriteString(l.entries[i].String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
