package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	mockEvent := func(t VTimeInSec, h Handler) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(h).AnyTimes()
		return evt
	}

	It("should schedule events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(4.0, handler1)
		evt2 := mockEvent(2.0, handler2)
		evt3 := mockEvent(3.0, handler1)
		evt4 := mockEvent(5.0, handler1)

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(e Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().
			Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().
			Handle(evt1).After(handleEvt3)
		handler1.EXPECT().
			Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should handle same-time events in scheduling order", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(2.0, handler)
		evt2 := mockEvent(2.0, handler)
		evt3 := mockEvent(2.0, handler)

		h1 := handler.EXPECT().Handle(evt1)
		h2 := handler.EXPECT().Handle(evt2).After(h1)
		handler.EXPECT().Handle(evt3).After(h2)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		handler.EXPECT().Handle(gomock.Any())
		engine.Schedule(mockEvent(3.0, handler))
		Expect(engine.Run()).To(Succeed())

		Expect(func() { engine.Schedule(mockEvent(1.0, handler)) }).To(Panic())
	})

	It("should drop canceled events", func() {
		handler := NewMockHandler(mockCtrl)
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)

		canceled := mockEvent(2.0, handler)
		kept := mockEvent(3.0, handler)

		engine.Schedule(canceled)
		engine.CancelAll()
		engine.Schedule(kept)

		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosEventDiscarded))
			Expect(ctx.Item).To(BeIdenticalTo(canceled))
		})
		hook.EXPECT().Func(gomock.Any()).Times(2)
		handler.EXPECT().Handle(kept)

		Expect(engine.PendingEvents()).To(Equal(1))
		Expect(engine.Run()).To(Succeed())
		Expect(engine.PendingEvents()).To(Equal(0))
	})

	It("should not move time for canceled events", func() {
		handler := NewMockHandler(mockCtrl)
		engine.Schedule(mockEvent(8.0, handler))
		engine.CancelAll()

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(0)))
	})

	It("should run until a given time", func() {
		handler := NewMockHandler(mockCtrl)
		early := mockEvent(1.0, handler)
		onTime := mockEvent(2.0, handler)
		late := mockEvent(2.5, handler)

		handler.EXPECT().Handle(early)
		handler.EXPECT().Handle(onTime)

		engine.Schedule(late)
		engine.Schedule(onTime)
		engine.Schedule(early)

		Expect(engine.RunUntil(2.0)).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(2.0)))
		Expect(engine.PendingEvents()).To(Equal(1))

		handler.EXPECT().Handle(late)
		Expect(engine.RunUntil(10.0)).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(10.0)))
	})

	It("should invoke hooks around each event", func() {
		handler := NewMockHandler(mockCtrl)
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)
		evt := mockEvent(1.0, handler)

		before := hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosBeforeEvent))
		})
		handle := handler.EXPECT().Handle(evt).After(before)
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosAfterEvent))
		}).After(handle)

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())
	})

	It("should call simulation end handlers", func() {
		endHandler := NewMockSimulationEndHandler(mockCtrl)
		engine.RegisterSimulationEndHandler(endHandler)

		Expect(engine.RunUntil(7.0)).To(Succeed())

		endHandler.EXPECT().Handle(VTimeInSec(7.0))
		engine.Finished()
	})

	It("should run callback events", func() {
		var firedAt []VTimeInSec
		record := func(now VTimeInSec) { firedAt = append(firedAt, now) }

		engine.Schedule(NewCallbackEvent(2.0, "b", record))
		engine.Schedule(NewCallbackEvent(1.0, "a", record))

		Expect(engine.Run()).To(Succeed())
		Expect(firedAt).To(Equal([]VTimeInSec{1.0, 2.0}))
	})
})
