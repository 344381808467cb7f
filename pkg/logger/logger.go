// Package logger builds the zap loggers used by the driver and the CLI.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// VerboseLevel represents the verbosity level for logging
type VerboseLevel int

const (
	// VerboseSilent shows warnings and errors only
	VerboseSilent VerboseLevel = 0
	// VerboseNormal adds informational output (-v)
	VerboseNormal VerboseLevel = 1
	// VerboseVery adds pass decisions and walk statistics (-vv)
	VerboseVery VerboseLevel = 2
)

// Level maps the verbosity onto a zap level.
func (v VerboseLevel) Level() zapcore.Level {
	switch {
	case v >= VerboseVery:
		return zapcore.DebugLevel
	case v == VerboseNormal:
		return zapcore.InfoLevel
	}
	return zapcore.WarnLevel
}

// New returns a console logger writing to stderr.
func New(level VerboseLevel) *zap.Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter returns a console logger writing to w. Timestamps are left out;
// callers are shown only at the very verbose level.
func NewWithWriter(level VerboseLevel, w io.Writer) *zap.Logger {
	config := zap.NewDevelopmentEncoderConfig()
	config.TimeKey = ""
	if level < VerboseVery {
		config.CallerKey = ""
	}
	encoder := zapcore.NewConsoleEncoder(config)
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level.Level())

	var opts []zap.Option
	if level >= VerboseVery {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}
