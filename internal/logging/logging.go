// Package logging builds the zap logger used for yap diagnostics.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dotcommander/yap/internal/present"
)

// New builds a logger writing to stderr at the given level. Unparseable
// levels fall back to info. Terminal sessions get the development encoder
// with colored levels, everything else gets production JSON so piped logs
// stay machine-readable.
func New(level string) *zap.Logger {
	return build(level, present.IsErrOutputTTY())
}

func build(level string, tty bool) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if tty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
