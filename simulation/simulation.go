// Package simulation puts together a piggy bank session: the engine, the
// bank, and the optional recorder and monitor.
package simulation

import (
	"context"
	"time"

	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/datarecording"
	"github.com/sarchlab/piggybank/monitoring"
	"github.com/sarchlab/piggybank/scenario"
	"github.com/sarchlab/piggybank/sim"
)

// A Simulation provides the service requires to run a piggy bank session.
type Simulation struct {
	id     string
	engine *sim.SerialEngine
	bank   *bank.PiggyBank
	driver *sim.RealTimeDriver

	dataRecorder datarecording.DataRecorder
	tracer       *datarecording.Tracer
	monitor      *monitoring.Monitor

	components    []sim.Component
	compNameIndex map[string]int

	terminated bool
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetBank returns the piggy bank being simulated.
func (s *Simulation) GetBank() *bank.PiggyBank {
	return s.bank
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation, if any.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	idx, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[idx]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// Play starts replaying a scenario from the current time.
func (s *Simulation) Play(sc *scenario.Scenario) *scenario.Player {
	p := scenario.NewPlayer(sc, s.bank)

	s.do(p.Start)

	return p
}

// RunFor advances the virtual time by d, handling every event due.
func (s *Simulation) RunFor(d time.Duration) error {
	return s.engine.RunUntil(s.engine.CurrentTime() + sim.VTimeFromDuration(d))
}

// Serve starts the monitor, if any, and follows the wall clock until the
// context is canceled.
func (s *Simulation) Serve(ctx context.Context) error {
	if s.driver == nil {
		panic("serving requires a real-time simulation")
	}

	if s.monitor != nil {
		if _, err := s.monitor.StartServer(); err != nil {
			return err
		}
	}

	return s.driver.Start(ctx)
}

// do runs f without racing the events of a real-time simulation.
func (s *Simulation) do(f func()) {
	if s.driver != nil {
		s.driver.Do(f)
		return
	}

	f()
}

// Terminate cancels everything pending, notifies the end handlers and closes
// the recorder.
func (s *Simulation) Terminate() error {
	if s.terminated {
		return nil
	}

	s.terminated = true

	s.do(func() {
		s.bank.Close()
		s.engine.Finished()
	})

	if s.dataRecorder != nil {
		return s.dataRecorder.Close()
	}

	return nil
}
