package sim

import (
	"log"
	"reflect"
	"sync"
	"sync/atomic"
)

// A SerialEngine is an Engine that always run events one after another.
//
// Cancellation is done with epochs. Every event is stamped with the epoch
// that is current when it is scheduled. CancelAll starts a new epoch, and
// events from an older epoch are dropped when they reach the front of the
// queue instead of being handled.
type SerialEngine struct {
	HookableBase

	timeLock sync.RWMutex
	time     VTimeInSec
	queue    *EventQueueImpl
	epoch    atomic.Uint64

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = NewEventQueue()

	return e
}

// Schedule register an event to be happen in the future
func (e *SerialEngine) Schedule(evt Event) {
	now := e.readNow()
	if evt.Time() < now {
		log.Panic("scheduling an event earlier than current time")
	}

	e.queue.Push(evt, e.epoch.Load())
}

// CancelAll invalidates all the pending events.
func (e *SerialEngine) CancelAll() {
	e.epoch.Add(1)
}

// PendingEvents returns the number of scheduled events that have not been
// canceled.
func (e *SerialEngine) PendingEvents() int {
	return e.queue.CountEpoch(e.epoch.Load())
}

func (e *SerialEngine) readNow() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()
	return t
}

func (e *SerialEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.queue.Len() == 0 {
			return nil
		}

		e.pauseLock.Lock()
		e.handleNext()
		e.pauseLock.Unlock()
	}
}

// RunUntil processes the events that are due at or before t. After all of
// them are handled, the current time moves forward to t.
func (e *SerialEngine) RunUntil(t VTimeInSec) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.queue.Len() == 0 {
			break
		}

		e.pauseLock.Lock()

		next, _ := e.queue.Peek()
		if next.Time() > t {
			e.pauseLock.Unlock()
			break
		}

		e.handleNext()
		e.pauseLock.Unlock()
	}

	if t > e.readNow() {
		e.writeNow(t)
	}

	return nil
}

func (e *SerialEngine) handleNext() {
	evt, epoch := e.queue.Pop()

	if epoch != e.epoch.Load() {
		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosEventDiscarded,
			Item:   evt,
		})

		return
	}

	now := e.readNow()
	if evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}
	e.writeNow(evt.Time())

	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	handler := evt.Handler()
	_ = handler.Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the current time at which the engine is at.
// Specifically, the run time of the current event.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return e.readNow()
}

// RegisterSimulationEndHandler invokes all the registered simulation end
// handler.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
