package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Ticking Component", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		ticker   *MockTicker
		tc       *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		ticker = NewMockTicker(mockCtrl)
		tc = NewTickingComponent("TC", engine, 5, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule the first tick one period later", func() {
		Expect(engine.RunUntil(2)).To(Succeed())

		tc.TickLater()

		Expect(tc.NextTickTime()).To(Equal(VTimeInSec(7)))
		Expect(engine.PendingEvents()).To(Equal(1))
	})

	It("should not tick if there is another tick scheduled in the future", func() {
		tc.TickLater()
		tc.TickLater()

		Expect(engine.PendingEvents()).To(Equal(1))
	})

	It("should keep ticking while the ticker makes progress", func() {
		ticker.EXPECT().Tick().Return(true).Times(3)

		tc.TickLater()
		Expect(engine.RunUntil(15)).To(Succeed())

		Expect(tc.NextTickTime()).To(Equal(VTimeInSec(20)))
	})

	It("should stop ticking if no progress is made", func() {
		ticker.EXPECT().Tick().Return(false)

		tc.TickLater()
		Expect(engine.Run()).To(Succeed())

		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5)))
	})

	It("should schedule again after reset", func() {
		tc.TickLater()
		engine.CancelAll()
		tc.Reset()

		tc.TickLater()

		Expect(engine.PendingEvents()).To(Equal(1))
	})

	It("should refuse a non-positive period", func() {
		Expect(func() { NewTickScheduler(tc, engine, 0) }).To(Panic())
	})
})
