package scenario

import (
	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/sim"
)

// A Result is the outcome of one step.
type Result struct {
	Step Step
	Time sim.VTimeInSec
	Err  error
}

// A Player issues the steps of a scenario on the engine of a bank.
//
// Only the next step is ever scheduled. A step that disconnects cancels all
// the pending events, so the following step has to be scheduled after the
// command runs.
type Player struct {
	scenario *Scenario
	bank     *bank.PiggyBank
	engine   sim.Engine

	startTime sim.VTimeInSec
	next      int
	results   []Result
}

// NewPlayer creates a player for the scenario.
func NewPlayer(s *Scenario, pb *bank.PiggyBank) *Player {
	return &Player{
		scenario: s,
		bank:     pb,
		engine:   pb.Engine(),
	}
}

// Start schedules the first step. Step times count from now.
func (p *Player) Start() {
	p.startTime = p.engine.CurrentTime()
	p.next = 0
	p.results = nil

	p.scheduleNext()
}

// Done tells if every step has been issued.
func (p *Player) Done() bool {
	return p.next >= len(p.scenario.Steps)
}

// Results returns the outcome of the steps issued so far.
func (p *Player) Results() []Result {
	return p.results
}

func (p *Player) scheduleNext() {
	if p.Done() {
		return
	}

	step := p.scenario.Steps[p.next]
	t := p.startTime + sim.VTimeFromDuration(step.At)

	if now := p.engine.CurrentTime(); t < now {
		t = now
	}

	p.engine.Schedule(sim.NewCallbackEvent(
		t,
		"scenario."+string(step.Command),
		func(now sim.VTimeInSec) {
			p.issue(step, now)
		},
	))
}

func (p *Player) issue(step Step, now sim.VTimeInSec) {
	var err error

	switch step.Command {
	case CommandToggle:
		p.bank.RequestToggle()
	case CommandReset:
		err = p.bank.RequestReset()
	case CommandCalibrate:
		err = p.bank.RequestCalibration()
	case CommandInsert:
		_, err = p.bank.SimulateOne()
	}

	p.results = append(p.results, Result{Step: step, Time: now, Err: err})

	p.next++
	p.scheduleNext()
}
