// Package logging provides zap logger constructors shared by tests and
// examples. Library code never logs through a global: the shape registry and
// call sites take an explicit *zap.Logger and default to a nop one.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewTestLogger returns a console logger at debug level, writing to stdout.
// Intended for tests that want to watch shape builds and pipeline compiles.
func NewTestLogger() *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.DebugLevel,
	)
	return zap.New(consoleCore)
}
