package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("EventQueueImpl", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *EventQueueImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop in order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			event := NewMockEvent(mockCtrl)
			event.EXPECT().
				Time().
				Return(VTimeInSec(rand.Float64() / 1e8)).
				AnyTimes()
			queue.Push(event, 0)
		}

		now := VTimeInSec(-1)
		for i := 0; i < numEvents; i++ {
			event, _ := queue.Pop()
			Expect(event.Time() >= now).To(BeTrue())
			now = event.Time()
		}
	})

	It("should keep insertion order for events at the same time", func() {
		events := make([]Event, 10)
		for i := range events {
			event := NewMockEvent(mockCtrl)
			event.EXPECT().Time().Return(VTimeInSec(1)).AnyTimes()
			events[i] = event
			queue.Push(event, 0)
		}

		for i := range events {
			event, _ := queue.Pop()
			Expect(event).To(BeIdenticalTo(events[i]))
		}
	})

	It("should count events by epoch", func() {
		for i := 0; i < 5; i++ {
			event := NewMockEvent(mockCtrl)
			event.EXPECT().Time().Return(VTimeInSec(i)).AnyTimes()
			queue.Push(event, uint64(i%2))
		}

		Expect(queue.Len()).To(Equal(5))
		Expect(queue.CountEpoch(0)).To(Equal(3))
		Expect(queue.CountEpoch(1)).To(Equal(2))

		_, epoch := queue.Peek()
		Expect(epoch).To(Equal(uint64(0)))
	})
})
