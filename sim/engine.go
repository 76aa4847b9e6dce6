package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// A Canceler can drop every pending event at once.
type Canceler interface {
	// CancelAll invalidates all the events that are scheduled but not yet
	// handled. Events scheduled after the call are not affected.
	CancelAll()
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler
	Canceler

	// Run will process all the events until the simulation finishes
	Run() error

	// RunUntil processes all the events that are due no later than t and
	// then moves the current time to t.
	RunUntil(t VTimeInSec) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// PendingEvents returns the number of events that will still fire.
	PendingEvents() int

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}
