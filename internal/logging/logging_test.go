package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/coursetable/ga-engine/internal/config"
)

func TestNewBuildsLoggerWithConfiguredLevel(t *testing.T) {
	cfg := &config.Config{
		Env: config.EnvDevelopment,
		Log: config.LogConfig{Level: "warn", Format: "json"},
	}

	logger, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewFallsBackToInfoOnInvalidLevel(t *testing.T) {
	cfg := &config.Config{
		Env: config.EnvDevelopment,
		Log: config.LogConfig{Level: "not-a-level", Format: "console"},
	}

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewUsesProductionConfigInProductionEnv(t *testing.T) {
	cfg := &config.Config{
		Env: config.EnvProduction,
		Log: config.LogConfig{Level: "error", Format: "json"},
	}

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
