package bank

import (
	"fmt"

	"github.com/sarchlab/piggybank/sim"
)

// InsertionSimulator stands in for the coin sensor. While connected, it
// ticks periodically and, with a fixed chance per tick, reports a coin of a
// random denomination.
type InsertionSimulator struct {
	*sim.TickingComponent

	gate          Gate
	ledger        *Ledger
	activityLog   *ActivityLog
	random        RandomSource
	chancePercent int
}

// NewInsertionSimulator creates a simulator that ticks every period.
func NewInsertionSimulator(
	name string,
	engine sim.Engine,
	period sim.VTimeInSec,
	gate Gate,
	ledger *Ledger,
	activityLog *ActivityLog,
	random RandomSource,
	chancePercent int,
) *InsertionSimulator {
	s := &InsertionSimulator{
		gate:          gate,
		ledger:        ledger,
		activityLog:   activityLog,
		random:        random,
		chancePercent: chancePercent,
	}
	s.TickingComponent = sim.NewTickingComponent(name, engine, period, s)

	return s
}

// Tick draws one number in [0, 100) and inserts a coin if it falls under
// the chance. It stops ticking once the connection is gone.
func (s *InsertionSimulator) Tick() bool {
	if !s.gate.IsConnected() {
		return false
	}

	if s.random.Intn(100) < s.chancePercent {
		s.insert()
	}

	return true
}

// SimulateOne inserts one random coin right away. It does nothing unless
// the bank is connected.
func (s *InsertionSimulator) SimulateOne() (Coin, error) {
	if !s.gate.IsConnected() {
		return Coin{}, &CommandError{Command: "insert", Err: ErrNotConnected}
	}

	return s.insert(), nil
}

func (s *InsertionSimulator) insert() Coin {
	coin := CoinAt(s.random.Intn(NumDenominations))

	s.ledger.RecordInsertion(coin.Index)
	s.activityLog.Append(fmt.Sprintf(MsgCoinAdded, coin.Label))

	return coin
}

// OnConnected starts ticking.
func (s *InsertionSimulator) OnConnected() {
	s.TickLater()
}

// OnDisconnected forgets the pending tick, which the disconnect has
// canceled.
func (s *InsertionSimulator) OnDisconnected() {
	s.Reset()
}
