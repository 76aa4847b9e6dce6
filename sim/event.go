package sim

import "time"

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// VTimeFromDuration converts a wall-clock duration to simulated seconds.
func VTimeFromDuration(d time.Duration) VTimeInSec {
	return VTimeInSec(d.Seconds())
}

// Duration converts the simulated time to a wall-clock duration.
func (t VTimeInSec) Duration() time.Duration {
	return time.Duration(float64(t) * float64(time.Second))
}

// An Event is something going to happen in the future.
type Event interface {
	// Return the time that the event should happen
	Time() VTimeInSec

	// Returns the handler that can should handle the event
	Handler() Handler
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates a new EventBase
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler
	return e
}

// Time return the time that the event is going to happen
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler defines a domain for the events.
//
// One event is always constraint to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(e Event) error

// Handle calls f(e).
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}

// CallbackEvent is an event that runs an action when it fires. The action
// is the handler, so the event needs no receiving component.
type CallbackEvent struct {
	*EventBase
	Name string
}

// NewCallbackEvent creates an event that invokes action at time t.
func NewCallbackEvent(
	t VTimeInSec,
	name string,
	action func(now VTimeInSec),
) *CallbackEvent {
	h := HandlerFunc(func(e Event) error {
		action(e.Time())
		return nil
	})

	evt := &CallbackEvent{
		EventBase: NewEventBase(t, h),
		Name:      name,
	}

	return evt
}
