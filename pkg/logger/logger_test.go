package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestInitReplacesGlobalLogger(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Encoding: "console"}))
	first := Get()
	require.NoError(t, Init(Config{Level: "debug", Encoding: "json"}))
	second := Get()

	assert.NotSame(t, first, second)
	assert.True(t, second.Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, Component("doping"))
	assert.NoError(t, Init(Config{Level: "info", Development: true, Encoding: "console"}))
}

func TestFromContextAddsRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRunID(context.Background(), "run-1")
	FromContext(ctx, base).Info("read")
	FromContext(context.Background(), base).Info("no run")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	assert.NotContains(t, entries[1].ContextMap(), "run_id")

	id, ok := RunID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "run-1", id)
	_, ok = RunID(ContextWithRunID(context.Background(), ""))
	assert.False(t, ok)
}

func TestFromContextDefaultsToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background(), nil))
}
