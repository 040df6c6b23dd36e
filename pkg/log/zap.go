package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds a JSON production logger named after the service.
func NewZapLogger(name string, level zapcore.Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// the production config only fails on broken sinks; stderr is always there
		logger = zap.NewExample()
	}
	return logger.Named(name).Sugar()
}

// ParseLevel maps a level name such as "debug" or "warn" to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
