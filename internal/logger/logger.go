package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It defaults to a no-op logger so that
// packages can log before Init is called (and so tests stay quiet).
var Log = zap.NewNop()

// Init replaces the no-op logger with a real one. Pass debug=true for
// console-friendly development output.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
