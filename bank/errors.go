package bank

import "errors"

// ErrNotConnected is returned when a command needs the bank to be connected
// and it is not.
var ErrNotConnected = errors.New("no connection to piggy bank")

// ErrCalibrationInProgress is returned when a calibration is requested while
// another one is still running.
var ErrCalibrationInProgress = errors.New("calibration already in progress")

// A CommandError reports a command that was refused. The refusal has
// already been written to the activity log.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return e.Command + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
