package sim

import (
	"log"
	"reflect"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// EventLogger is an hook that prints the event information
type EventLogger struct {
	*log.Logger
}

// NewEventLogger returns a new LogEventHook which will write in to the logger
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosBeforeEvent:
		h.Logger.Printf("%.3f, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), EventTarget(evt))
	case HookPosEventDiscarded:
		h.Logger.Printf("%.3f, %s -> %s (canceled)",
			evt.Time(), reflect.TypeOf(evt), EventTarget(evt))
	}
}

// EventTarget names what an event is for: the name of a callback event, or
// the name of its handler.
func EventTarget(evt Event) string {
	if cb, ok := evt.(*CallbackEvent); ok {
		return cb.Name
	}

	if named, ok := evt.Handler().(Named); ok {
		return named.Name()
	}

	return "-"
}
