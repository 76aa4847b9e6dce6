package bank

import (
	"fmt"
	"log"
	"reflect"

	"github.com/sarchlab/piggybank/sim"
)

// A CalibrationRun describes the calibration in progress.
type CalibrationRun struct {
	CurrentStep int
	StartedAt   sim.VTimeInSec
}

type calibrationStepEvent struct {
	*sim.EventBase
	run  uint64
	step int
}

type calibrationDoneEvent struct {
	*sim.EventBase
	run uint64
}

// CalibrationSequencer walks through every denomination once, asking for a
// sample coin of each. The steps only produce log entries.
//
// All the steps are scheduled when the run starts, one stepInterval apart.
// The completion follows the last step after tailDelay. Only one run may be
// active at a time.
type CalibrationSequencer struct {
	*sim.ComponentBase

	engine       sim.Engine
	gate         Gate
	activityLog  *ActivityLog
	stepInterval sim.VTimeInSec
	tailDelay    sim.VTimeInSec

	runID  uint64
	active *CalibrationRun
}

// NewCalibrationSequencer creates an idle sequencer.
func NewCalibrationSequencer(
	name string,
	engine sim.Engine,
	gate Gate,
	activityLog *ActivityLog,
	stepInterval sim.VTimeInSec,
	tailDelay sim.VTimeInSec,
) *CalibrationSequencer {
	return &CalibrationSequencer{
		ComponentBase: sim.NewComponentBase(name),
		engine:        engine,
		gate:          gate,
		activityLog:   activityLog,
		stepInterval:  stepInterval,
		tailDelay:     tailDelay,
	}
}

// Start begins a calibration run.
func (s *CalibrationSequencer) Start() error {
	if !s.gate.IsConnected() {
		s.activityLog.Append(MsgNotConnected)
		return &CommandError{Command: "calibrate", Err: ErrNotConnected}
	}

	if s.active != nil {
		s.activityLog.Append(MsgCalibrationBusy)
		return &CommandError{Command: "calibrate", Err: ErrCalibrationInProgress}
	}

	s.activityLog.Append(MsgCalibrationStarting)

	now := s.engine.CurrentTime()
	s.runID++
	s.active = &CalibrationRun{StartedAt: now}

	for i := 0; i < NumDenominations; i++ {
		evt := &calibrationStepEvent{
			EventBase: sim.NewEventBase(
				now+sim.VTimeInSec(i)*s.stepInterval, s),
			run:  s.runID,
			step: i,
		}
		s.engine.Schedule(evt)
	}

	return nil
}

// ActiveRun returns the run in progress, if any.
func (s *CalibrationSequencer) ActiveRun() (CalibrationRun, bool) {
	if s.active == nil {
		return CalibrationRun{}, false
	}

	return *s.active, true
}

// Handle processes calibration steps and the completion.
func (s *CalibrationSequencer) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *calibrationStepEvent:
		s.handleStep(evt)
	case *calibrationDoneEvent:
		s.handleDone(evt)
	default:
		log.Panicf("cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

func (s *CalibrationSequencer) isStale(run uint64) bool {
	return s.active == nil || run != s.runID || !s.gate.IsConnected()
}

func (s *CalibrationSequencer) handleStep(evt *calibrationStepEvent) {
	if s.isStale(evt.run) {
		return
	}

	s.active.CurrentStep = evt.step
	coin := CoinAt(evt.step)
	s.activityLog.Append(fmt.Sprintf(MsgCalibratingCoin, coin.Label))

	if evt.step == NumDenominations-1 {
		done := &calibrationDoneEvent{
			EventBase: sim.NewEventBase(evt.Time()+s.tailDelay, s),
			run:       evt.run,
		}
		s.engine.Schedule(done)
	}
}

func (s *CalibrationSequencer) handleDone(evt *calibrationDoneEvent) {
	if s.isStale(evt.run) {
		return
	}

	s.active = nil
	s.activityLog.Append(MsgCalibrationCompleted)
}

// OnConnected does nothing; calibration only starts on request.
func (s *CalibrationSequencer) OnConnected() {}

// OnDisconnected abandons the active run. Its remaining steps were canceled
// with the rest of the schedule.
func (s *CalibrationSequencer) OnDisconnected() {
	s.active = nil
}
