package datarecording

import (
	"log"
	"reflect"

	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/sim"
)

// Table names used by the Tracer.
const (
	LogTable   = "activity_log"
	EventTable = "events"
	StateTable = "connection_states"
)

// A LogEntryRecord is one activity log line.
type LogEntryRecord struct {
	SimTime  float64
	WallTime string
	Message  string
}

// An EventRecord is one event that left the queue.
type EventRecord struct {
	SimTime   float64
	EventType string
	Target    string
	Canceled  bool
}

// A StateRecord is one connection state change.
type StateRecord struct {
	SimTime float64
	From    string
	To      string
}

// A Tracer is a hook that writes log entries, events and connection state
// changes into a DataRecorder. Attach it to the engine, the activity log and
// the connection controller.
type Tracer struct {
	recorder   DataRecorder
	timeTeller sim.TimeTeller
	withEvents bool
}

// NewTracer creates the tables and returns a tracer writing into them. Events
// are only recorded when withEvents is set.
func NewTracer(
	recorder DataRecorder,
	timeTeller sim.TimeTeller,
	withEvents bool,
) (*Tracer, error) {
	t := &Tracer{
		recorder:   recorder,
		timeTeller: timeTeller,
		withEvents: withEvents,
	}

	if err := recorder.CreateTable(LogTable, LogEntryRecord{}); err != nil {
		return nil, err
	}

	if err := recorder.CreateTable(StateTable, StateRecord{}); err != nil {
		return nil, err
	}

	if withEvents {
		if err := recorder.CreateTable(EventTable, EventRecord{}); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Func records the item of the hook context.
func (t *Tracer) Func(ctx sim.HookCtx) {
	var (
		table string
		entry any
	)

	now := float64(t.timeTeller.CurrentTime())

	switch ctx.Pos {
	case bank.HookPosLogAppend:
		e := ctx.Item.(bank.LogEntry)
		table = LogTable
		entry = LogEntryRecord{
			SimTime:  now,
			WallTime: e.Time.Format(bank.LogTimeLayout),
			Message:  e.Message,
		}
	case bank.HookPosConnectionStateChange:
		s := ctx.Item.(bank.StateTransition)
		table = StateTable
		entry = StateRecord{
			SimTime: now,
			From:    s.From.String(),
			To:      s.To.String(),
		}
	case sim.HookPosBeforeEvent, sim.HookPosEventDiscarded:
		if !t.withEvents {
			return
		}

		evt := ctx.Item.(sim.Event)
		table = EventTable
		entry = EventRecord{
			SimTime:   float64(evt.Time()),
			EventType: reflect.TypeOf(evt).String(),
			Target:    sim.EventTarget(evt),
			Canceled:  ctx.Pos == sim.HookPosEventDiscarded,
		}
	default:
		return
	}

	if err := t.recorder.InsertData(table, entry); err != nil {
		log.Printf("recording %s: %v", table, err)
	}
}

// Handle flushes the recorder when the simulation ends.
func (t *Tracer) Handle(_ sim.VTimeInSec) {
	if err := t.recorder.Flush(); err != nil {
		log.Printf("flushing trace: %v", err)
	}
}
