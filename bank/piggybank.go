package bank

import (
	"github.com/sarchlab/piggybank/sim"
)

// A DenominationRow is the count of one denomination, for display.
type DenominationRow struct {
	Coin  Coin
	Count uint64
}

// PiggyBank owns the state of one companion application session: the
// connection, the ledger, the activity log and the simulated activities.
// Build it with a Builder.
type PiggyBank struct {
	name        string
	engine      sim.Engine
	ledger      *Ledger
	activityLog *ActivityLog
	connection  *ConnectionController
	inserter    *InsertionSimulator
	calibrator  *CalibrationSequencer
}

// Name returns the name of the bank.
func (b *PiggyBank) Name() string {
	return b.name
}

// Engine returns the engine the bank is scheduled on.
func (b *PiggyBank) Engine() sim.Engine {
	return b.engine
}

// ConnectionState returns the connection state.
func (b *PiggyBank) ConnectionState() ConnectionState {
	return b.connection.State()
}

// IsConnected tells if the bank is connected.
func (b *PiggyBank) IsConnected() bool {
	return b.connection.IsConnected()
}

// Ledger returns a snapshot of the coin counts.
func (b *PiggyBank) Ledger() LedgerSnapshot {
	return b.ledger.Snapshot()
}

// ActivityLog returns the activity log.
func (b *PiggyBank) ActivityLog() *ActivityLog {
	return b.activityLog
}

// DenominationDisplay returns the count of every denomination, smallest
// first.
func (b *PiggyBank) DenominationDisplay() []DenominationRow {
	rows := make([]DenominationRow, 0, NumDenominations)
	for _, c := range Catalog() {
		rows = append(rows, DenominationRow{
			Coin:  c,
			Count: b.ledger.Count(c.Index),
		})
	}

	return rows
}

// ActiveCalibration returns the calibration in progress, if any.
func (b *PiggyBank) ActiveCalibration() (CalibrationRun, bool) {
	return b.calibrator.ActiveRun()
}

// Components returns the simulated components of the bank.
func (b *PiggyBank) Components() []sim.Component {
	return []sim.Component{b.connection, b.inserter, b.calibrator}
}

// RequestToggle connects when disconnected and disconnects otherwise.
func (b *PiggyBank) RequestToggle() {
	b.connection.RequestToggle()
}

// RequestReset zeroes the ledger. The caller is expected to have asked the
// user for confirmation.
func (b *PiggyBank) RequestReset() error {
	if !b.connection.IsConnected() {
		b.activityLog.Append(MsgNotConnected)
		return &CommandError{Command: "reset", Err: ErrNotConnected}
	}

	b.ledger.Reset()
	b.activityLog.Append(MsgStatisticsReset)

	return nil
}

// RequestCalibration starts a calibration run. The caller is expected to
// have asked the user for confirmation.
func (b *PiggyBank) RequestCalibration() error {
	return b.calibrator.Start()
}

// SimulateOne inserts one random coin if the bank is connected.
func (b *PiggyBank) SimulateOne() (Coin, error) {
	return b.inserter.SimulateOne()
}

// Close ends the session. Everything still scheduled is canceled, and the
// calibration run and insertion ticks that were waiting on it are dropped.
// The connection state and the ledger are kept; a later calibration request
// on a connected bank starts a new run.
func (b *PiggyBank) Close() {
	b.engine.CancelAll()
	b.calibrator.OnDisconnected()
	b.inserter.Reset()
}
