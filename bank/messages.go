package bank

// Activity log messages.
const (
	MsgConnecting           = "attempting connection to piggy bank..."
	MsgConnected            = "connected to piggy bank successfully"
	MsgDisconnected         = "disconnected from piggy bank"
	MsgNotConnected         = "error: no connection to piggy bank"
	MsgStatisticsReset      = "statistics reset"
	MsgCoinAdded            = "added coin: %s"
	MsgCalibrationStarting  = "starting calibration..."
	MsgCalibratingCoin      = "calibrating coin: %s"
	MsgCalibrationCompleted = "calibration completed successfully"
	MsgCalibrationBusy      = "error: calibration already in progress"
)
