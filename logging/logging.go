package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

/* This file builds the structured logger that cmd/plugin injects into the protocol
   engine through its constructor (never a package-global logger); the contract
   itself does not log. Level comes from LOG_LEVEL (§6). */

// New builds a zap logger at the given level string ("debug", "info", "warn",
// "error"; unrecognized values fall back to "info").
func New(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
