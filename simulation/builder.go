package simulation

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/config"
	"github.com/sarchlab/piggybank/datarecording"
	"github.com/sarchlab/piggybank/monitoring"
	"github.com/sarchlab/piggybank/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg        config.Config
	realTime   bool
	resolution time.Duration
	monitorOn  bool
	logOutput  io.Writer
	random     bank.RandomSource
	clock      bank.Clock
}

// MakeBuilder creates a new builder with the default configuration. The
// simulation runs in virtual time without monitoring.
func MakeBuilder() Builder {
	return Builder{
		cfg:        config.Default(),
		resolution: 50 * time.Millisecond,
	}
}

// WithConfig sets the configuration of the session.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithRealTime makes the simulated time follow the wall clock.
func (b Builder) WithRealTime() Builder {
	b.realTime = true
	return b
}

// WithResolution sets how often the real-time driver looks for due events.
func (b Builder) WithResolution(d time.Duration) Builder {
	b.resolution = d
	return b
}

// WithMonitoring serves the monitor. It requires real time.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithLogOutput mirrors the activity log to w.
func (b Builder) WithLogOutput(w io.Writer) Builder {
	b.logOutput = w
	return b
}

// WithRandomSource overrides the seeded random source.
func (b Builder) WithRandomSource(r bank.RandomSource) Builder {
	b.random = r
	return b
}

// WithClock overrides the clock that stamps the activity log.
func (b Builder) WithClock(c bank.Clock) Builder {
	b.clock = c
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.monitorOn && !b.realTime {
		panic("monitoring requires a real-time simulation")
	}

	if b.realTime && b.resolution <= 0 {
		panic("resolution must be positive")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
	}

	s.engine = sim.NewSerialEngine()

	if b.cfg.TraceEvents {
		s.engine.AcceptHook(sim.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	s.bank = b.buildBank(s.engine)
	for _, c := range s.bank.Components() {
		s.RegisterComponent(c)
	}

	if b.logOutput != nil {
		s.bank.ActivityLog().AcceptHook(
			bank.NewLogEcho(log.New(b.logOutput, "", 0)))
	}

	if b.cfg.RecordPath != "" {
		if err := s.attachRecorder(b.cfg.RecordPath, b.cfg.TraceEvents); err != nil {
			return nil, err
		}
	}

	if b.realTime {
		s.driver = sim.NewRealTimeDriver(s.engine, b.resolution)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor(s.bank, s.driver).
			WithPortNumber(b.cfg.MonitorPort).
			WithBrowser(b.cfg.OpenBrowser)
		for _, c := range s.components {
			s.monitor.RegisterComponent(c)
		}
	}

	return s, nil
}

func (b Builder) buildBank(engine sim.Engine) *bank.PiggyBank {
	random := b.random
	if random == nil && b.cfg.Seed != 0 {
		random = bank.NewRandomSource(b.cfg.Seed)
	}

	builder := bank.MakeBuilder().
		WithEngine(engine).
		WithConnectDelay(b.cfg.ConnectDelay).
		WithTickInterval(b.cfg.TickInterval).
		WithInsertionChance(b.cfg.InsertionChancePercent).
		WithCalibrationStepInterval(b.cfg.CalibrationStepInterval).
		WithCalibrationTailDelay(b.cfg.CalibrationTailDelay).
		WithMaxLogEntries(b.cfg.MaxLogEntries)

	if random != nil {
		builder = builder.WithRandomSource(random)
	}

	if b.clock != nil {
		builder = builder.WithClock(b.clock)
	}

	return builder.Build(b.cfg.Name)
}

func (s *Simulation) attachRecorder(path string, withEvents bool) error {
	recorder, err := datarecording.New(path)
	if err != nil {
		return err
	}

	tracer, err := datarecording.NewTracer(recorder, s.engine, withEvents)
	if err != nil {
		recorder.Close()
		return err
	}

	s.dataRecorder = recorder
	s.tracer = tracer

	s.engine.AcceptHook(tracer)
	s.engine.RegisterSimulationEndHandler(tracer)
	s.bank.ActivityLog().AcceptHook(tracer)

	for _, c := range s.components {
		c.AcceptHook(tracer)
	}

	return nil
}
