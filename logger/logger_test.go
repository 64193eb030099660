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

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{"JSON output mode", true, VerbosityUser},
		{"Console output mode", false, VerbosityDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Cleanup()
			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.False(t, ShouldLogTrace(VerbosityDebug))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core).Sugar()

	ctx := WithRequestID(context.Background(), "17")
	ctx = WithComponent(ctx, "complete")

	FromContext(ctx, base).Infow("assembled")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "17", fields[FieldRequestID])
	assert.Equal(t, "complete", fields[FieldComponent])
}

func TestFromContext_NoFields(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	base := zap.New(core).Sugar()

	assert.Same(t, base, FromContext(context.Background(), base))
}
