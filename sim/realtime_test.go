package sim

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RealTimeDriver", func() {
	var (
		engine   *SerialEngine
		driver   *RealTimeDriver
		wallTime time.Time
		fired    []VTimeInSec
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		driver = NewRealTimeDriver(engine, 10*time.Millisecond)
		wallTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		driver.now = func() time.Time { return wallTime }
		driver.resumedAt = wallTime
		fired = nil

		for _, t := range []VTimeInSec{1, 2, 3} {
			engine.Schedule(NewCallbackEvent(t, "evt",
				func(now VTimeInSec) { fired = append(fired, now) }))
		}
	})

	It("should follow the wall clock", func() {
		wallTime = wallTime.Add(2500 * time.Millisecond)
		Expect(driver.advance()).To(Succeed())

		Expect(fired).To(Equal([]VTimeInSec{1, 2}))
		Expect(driver.CurrentTime()).To(Equal(VTimeInSec(2.5)))
	})

	It("should freeze time while paused", func() {
		wallTime = wallTime.Add(1500 * time.Millisecond)
		Expect(driver.advance()).To(Succeed())
		driver.Pause()
		Expect(driver.IsPaused()).To(BeTrue())

		wallTime = wallTime.Add(10 * time.Second)
		Expect(driver.advance()).To(Succeed())
		Expect(fired).To(Equal([]VTimeInSec{1}))

		driver.Continue()
		wallTime = wallTime.Add(time.Second)
		Expect(driver.advance()).To(Succeed())

		Expect(fired).To(Equal([]VTimeInSec{1, 2}))
		Expect(driver.CurrentTime()).To(Equal(VTimeInSec(2.5)))
	})

	It("should run commands between events", func() {
		ran := false
		driver.Do(func() { ran = true })
		Expect(ran).To(BeTrue())
	})

	It("should stop when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(driver.Start(ctx)).To(MatchError(context.Canceled))
	})
})
