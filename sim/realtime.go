package sim

import (
	"context"
	"sync"
	"time"
)

// A RealTimeDriver advances an engine in step with the wall clock. One
// simulated second passes per wall-clock second.
//
// The driver owns the engine once started. Code outside the event handlers
// must go through Do, so that it never runs at the same time as an event.
type RealTimeDriver struct {
	lock       sync.Mutex
	engine     Engine
	resolution time.Duration
	now        func() time.Time

	isPaused   bool
	resumedAt  time.Time
	resumeTime VTimeInSec
}

// NewRealTimeDriver creates a driver that checks for due events every
// resolution.
func NewRealTimeDriver(engine Engine, resolution time.Duration) *RealTimeDriver {
	if resolution <= 0 {
		panic("resolution must be positive")
	}

	return &RealTimeDriver{
		engine:     engine,
		resolution: resolution,
		now:        time.Now,
	}
}

// Start runs the engine until the context is canceled. It returns the
// context error.
func (d *RealTimeDriver) Start(ctx context.Context) error {
	d.lock.Lock()
	d.resumedAt = d.now()
	d.resumeTime = d.engine.CurrentTime()
	d.lock.Unlock()

	ticker := time.NewTicker(d.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.advance(); err != nil {
				return err
			}
		}
	}
}

func (d *RealTimeDriver) advance() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.isPaused {
		return nil
	}

	return d.engine.RunUntil(d.target())
}

func (d *RealTimeDriver) target() VTimeInSec {
	elapsed := d.now().Sub(d.resumedAt)
	return d.resumeTime + VTimeFromDuration(elapsed)
}

// Do runs f while no event is being handled.
func (d *RealTimeDriver) Do(f func()) {
	d.lock.Lock()
	defer d.lock.Unlock()

	f()
}

// Pause freezes the simulated time.
func (d *RealTimeDriver) Pause() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.isPaused {
		return
	}

	d.isPaused = true
}

// Continue lets the simulated time follow the wall clock again, starting
// from where it was frozen.
func (d *RealTimeDriver) Continue() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.isPaused {
		return
	}

	d.isPaused = false
	d.resumedAt = d.now()
	d.resumeTime = d.engine.CurrentTime()
}

// IsPaused tells if the driver is paused.
func (d *RealTimeDriver) IsPaused() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.isPaused
}

// CurrentTime returns the simulated time the engine has reached.
func (d *RealTimeDriver) CurrentTime() VTimeInSec {
	return d.engine.CurrentTime()
}
