package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuild(t *testing.T) {
	t.Run("respects the configured level", func(t *testing.T) {
		logger := build("error", false)
		require.NotNil(t, logger)
		require.False(t, logger.Core().Enabled(zapcore.WarnLevel))
		require.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("unparseable levels fall back to info", func(t *testing.T) {
		logger := build("loud", false)
		require.NotNil(t, logger)
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("tty encoder builds too", func(t *testing.T) {
		require.NotNil(t, build("debug", true))
	})
}
