package sim

import (
	"sync"
)

// TickEvent is a generic event that almost all the component can use to
// update their status.
type TickEvent struct {
	*EventBase
}

// NewTickEvent creates a new TickEvent
func NewTickEvent(handler Handler, time VTimeInSec) *TickEvent {
	evt := new(TickEvent)
	evt.EventBase = NewEventBase(time, handler)
	return evt
}

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	Tick() bool
}

// TickScheduler can help schedule tick events.
//
// Ticks are spaced by Period and are phase-locked to the moment ticking
// starts, not to a global clock grid.
type TickScheduler struct {
	lock    sync.Mutex
	handler Handler
	Period  VTimeInSec
	Engine  Engine

	nextTickTime VTimeInSec
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	period VTimeInSec,
) *TickScheduler {
	if period <= 0 {
		panic("tick period must be positive")
	}

	ticker := new(TickScheduler)

	ticker.handler = handler
	ticker.Engine = engine
	ticker.Period = period
	ticker.nextTickTime = -1 // This will make sure the first tick is scheduled

	return ticker
}

// TickLater will schedule a tick event one period after the now time.
func (t *TickScheduler) TickLater() {
	t.lock.Lock()
	defer t.lock.Unlock()

	time := t.CurrentTime() + t.Period

	if t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time
	tick := NewTickEvent(t.handler, t.nextTickTime)

	t.Engine.Schedule(tick)
}

// Reset forgets the scheduled tick. It is used after the pending tick has
// been canceled so that the next TickLater schedules again.
func (t *TickScheduler) Reset() {
	t.lock.Lock()
	t.nextTickTime = -1
	t.lock.Unlock()
}

// NextTickTime returns the time of the latest scheduled tick, or a negative
// value if none is scheduled.
func (t *TickScheduler) NextTickTime() VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.nextTickTime
}

// CurrentTime returns the current time of the engine.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// TickingComponent is a type of component that update states from period to
// period. A programmer would only need to program a tick function for a
// ticking component.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// Handle triggers the tick function of the TickingComponent
func (c *TickingComponent) Handle(e Event) error {
	madeProgress := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return nil
}

// NewTickingComponent creates a new ticking component
func NewTickingComponent(
	name string,
	engine Engine,
	period VTimeInSec,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine, period)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}
