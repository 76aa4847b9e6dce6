package bank

import (
	"time"

	"github.com/sarchlab/piggybank/sim"
)

// Builder can build piggy banks.
type Builder struct {
	engine sim.Engine
	clock  Clock
	random RandomSource

	connectDelay            time.Duration
	tickInterval            time.Duration
	insertionChancePercent  int
	calibrationStepInterval time.Duration
	calibrationTailDelay    time.Duration
	maxLogEntries           int
}

// MakeBuilder creates a builder with default timing.
func MakeBuilder() Builder {
	return Builder{
		connectDelay:            2000 * time.Millisecond,
		tickInterval:            5000 * time.Millisecond,
		insertionChancePercent:  10,
		calibrationStepInterval: 2000 * time.Millisecond,
		calibrationTailDelay:    1000 * time.Millisecond,
	}
}

// WithEngine sets the engine to schedule on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithClock sets the clock that stamps log entries. By default, simulated
// time zero is the moment Build is called.
func (b Builder) WithClock(clock Clock) Builder {
	b.clock = clock
	return b
}

// WithRandomSource sets the source of randomness of coin insertions.
func (b Builder) WithRandomSource(r RandomSource) Builder {
	b.random = r
	return b
}

// WithConnectDelay sets how long connecting takes.
func (b Builder) WithConnectDelay(d time.Duration) Builder {
	b.connectDelay = d
	return b
}

// WithTickInterval sets how often the insertion simulator ticks.
func (b Builder) WithTickInterval(d time.Duration) Builder {
	b.tickInterval = d
	return b
}

// WithInsertionChance sets the chance, in percent, that a tick inserts a
// coin.
func (b Builder) WithInsertionChance(percent int) Builder {
	b.insertionChancePercent = percent
	return b
}

// WithCalibrationStepInterval sets the time between calibration steps.
func (b Builder) WithCalibrationStepInterval(d time.Duration) Builder {
	b.calibrationStepInterval = d
	return b
}

// WithCalibrationTailDelay sets the time between the last calibration step
// and the completion.
func (b Builder) WithCalibrationTailDelay(d time.Duration) Builder {
	b.calibrationTailDelay = d
	return b
}

// WithMaxLogEntries caps the activity log. Zero keeps every entry.
func (b Builder) WithMaxLogEntries(n int) Builder {
	b.maxLogEntries = n
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if b.connectDelay < 0 || b.calibrationStepInterval < 0 ||
		b.calibrationTailDelay < 0 {
		panic("delays cannot be negative")
	}

	if b.tickInterval <= 0 {
		panic("tick interval must be positive")
	}

	if b.insertionChancePercent < 0 || b.insertionChancePercent > 100 {
		panic("insertion chance must be within [0, 100]")
	}
}

// Build creates a disconnected piggy bank with an empty ledger.
func (b Builder) Build(name string) *PiggyBank {
	b.parametersMustBeValid()

	clock := b.clock
	if clock == nil {
		clock = SimClock{Origin: time.Now(), Teller: b.engine}
	}

	random := b.random
	if random == nil {
		random = NewRandomSource(time.Now().UnixNano())
	}

	pb := &PiggyBank{
		name:        name,
		engine:      b.engine,
		ledger:      NewLedger(),
		activityLog: NewActivityLog(clock, b.maxLogEntries),
	}

	pb.connection = NewConnectionController(
		name+".Connection",
		b.engine,
		pb.activityLog,
		sim.VTimeFromDuration(b.connectDelay),
	)

	pb.inserter = NewInsertionSimulator(
		name+".InsertionSimulator",
		b.engine,
		sim.VTimeFromDuration(b.tickInterval),
		pb.connection,
		pb.ledger,
		pb.activityLog,
		random,
		b.insertionChancePercent,
	)

	pb.calibrator = NewCalibrationSequencer(
		name+".Calibration",
		b.engine,
		pb.connection,
		pb.activityLog,
		sim.VTimeFromDuration(b.calibrationStepInterval),
		sim.VTimeFromDuration(b.calibrationTailDelay),
	)

	pb.connection.AddListener(pb.inserter)
	pb.connection.AddListener(pb.calibrator)

	return pb
}
