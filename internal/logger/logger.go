// Package logger holds the process-wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is the shared sugared logger. It defaults to a no-op logger so that
// packages under test can log without calling Init.
var Log = zap.NewNop().Sugar()

// Init replaces the default logger with a real one. Production builds get
// JSON output, everything else gets the human-readable development config.
func Init() {
	var (
		base *zap.Logger
		err  error
	)
	if os.Getenv("ENV") == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Log = base.Sugar()
}

// Sync flushes any buffered log entries. Call it on shutdown.
func Sync() {
	_ = Log.Sync()
}
