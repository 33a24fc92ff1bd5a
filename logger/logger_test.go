package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0},
		{name: "Console output mode", jsonOutput: false, verbosity: 0},
		{name: "Console output debug", jsonOutput: false, verbosity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.verbosity >= VerbosityDebug, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

			Cleanup()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputSummary))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputSkipped))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputIDMap))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputCategory(99)))
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FieldsFromContext(ctx))

	ctx = WithOutput(ctx, "grit/resources.h")
	ctx = WithOperation(ctx, "build")
	fields := FieldsFromContext(ctx)
	assert.Equal(t, []interface{}{FieldOperation, "build", FieldOutput, "grit/resources.h"}, fields)
}

func TestLoggerFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core).Sugar()

	ctx := WithOutput(WithOperation(context.Background(), "check"), "gen/a.h")
	LoggerFromContext(ctx, base).Infow("Output rendered", FieldSize, 12)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, map[string]interface{}{
		FieldOperation: "check",
		FieldOutput:    "gen/a.h",
		FieldSize:      int64(12),
	}, logs.All()[0].ContextMap())

	assert.Same(t, base, LoggerFromContext(context.Background(), base))
	assert.Same(t, Logger, LoggerFromContext(context.Background(), nil))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Trace (-vvv+)", LevelName(5))
	assert.Equal(t, "Unknown", LevelName(-1))
}
