package bank

import (
	"time"

	"github.com/sarchlab/piggybank/sim"
)

// A Clock tells the local time stamped on activity log entries.
type Clock interface {
	Now() time.Time
}

// SimClock maps the simulated time onto the wall clock. Simulated time zero
// is the origin.
type SimClock struct {
	Origin time.Time
	Teller sim.TimeTeller
}

// Now returns the origin plus the simulated time.
func (c SimClock) Now() time.Time {
	return c.Origin.Add(c.Teller.CurrentTime().Duration())
}
