package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the build-event logger for a diagnostic level. Below
// verbose the events are dropped since the diagnostic reporter already
// prints warnings and errors.
func NewLogger(level DiagnosticLevel) (*zap.Logger, error) {
	if level < DiagnosticVerbose {
		return zap.NewNop(), nil
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = true
	switch level {
	case DiagnosticDebug:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return zapConfig.Build()
}
