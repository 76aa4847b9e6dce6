package sim

import (
	"container/heap"
	"sync"
)

// A queuedEvent is an event together with the bookkeeping the queue needs.
// Events due at the same time keep their scheduling order through seq, and
// epoch records the cancellation generation the event was scheduled in.
type queuedEvent struct {
	evt   Event
	seq   uint64
	epoch uint64
}

// EventQueue are a queue of event ordered by the time of events
type EventQueue interface {
	Push(evt Event, epoch uint64)
	Pop() (Event, uint64)
	Len() int
	Peek() (Event, uint64)
}

// EventQueueImpl provides a thread safe event queue
type EventQueueImpl struct {
	sync.Mutex
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates and returns a newly created EventQueue
func NewEventQueue() *EventQueueImpl {
	q := new(EventQueueImpl)
	q.events = make([]queuedEvent, 0)
	heap.Init(&q.events)
	return q
}

// Push adds an event to the event queue
func (q *EventQueueImpl) Push(evt Event, epoch uint64) {
	q.Lock()
	heap.Push(&q.events, queuedEvent{evt: evt, seq: q.nextSeq, epoch: epoch})
	q.nextSeq++
	q.Unlock()
}

// Pop returns the next earliest event and the epoch it was scheduled in.
func (q *EventQueueImpl) Pop() (Event, uint64) {
	q.Lock()
	e := heap.Pop(&q.events).(queuedEvent)
	q.Unlock()
	return e.evt, e.epoch
}

// Len returns the number of event in the queue
func (q *EventQueueImpl) Len() int {
	q.Lock()
	l := q.events.Len()
	q.Unlock()
	return l
}

// Peek returns the event in front of the queue without removing it from the
// queue
func (q *EventQueueImpl) Peek() (Event, uint64) {
	q.Lock()
	e := q.events[0]
	q.Unlock()
	return e.evt, e.epoch
}

// CountEpoch returns how many queued events were scheduled in the given
// epoch.
func (q *EventQueueImpl) CountEpoch(epoch uint64) int {
	q.Lock()
	defer q.Unlock()

	n := 0
	for _, e := range q.events {
		if e.epoch == epoch {
			n++
		}
	}

	return n
}

type eventHeap []queuedEvent

// Len returns the length of the event queue
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the i-th
// event happens before the j-th event.
func (h eventHeap) Less(i, j int) bool {
	if h[i].evt.Time() == h[j].evt.Time() {
		return h[i].seq < h[j].seq
	}

	return h[i].evt.Time() < h[j].evt.Time()
}

// Swap changes the position of two events in the event queue
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an event into the event queue
func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(queuedEvent))
}

// Pop removes and returns the next event to happen
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	event := old[n-1]
	*h = old[0 : n-1]
	return event
}
