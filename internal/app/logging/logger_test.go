package logging

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	for _, development := range []bool{true, false} {
		logger, err := NewLogger(development)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := WithRun(zap.New(core), "run-123")

	logger.Info("stage finished", zap.String("stage", "download"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run-123", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "download", entries[0].ContextMap()["stage"])
}
