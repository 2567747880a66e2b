package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/qslabs/sms-service/internal/config"
)

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(config.AppConfig{Name: "sms", Env: "production"}, config.LoggerConfig{Level: "WARN"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.AppConfig{Env: "development"}, config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
