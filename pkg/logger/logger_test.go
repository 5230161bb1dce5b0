package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "inventory/internal/core/context"
)

func TestFromContext_AddsRequestAndUserFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u-1", Role: "staff"})

	Info(ctx, "sale created", "sale_id", "s-1")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, "staff", fields["role"])
	assert.Equal(t, "s-1", fields["sale_id"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-2", RequestID: "r-2"})
	Warn(ctx, "idempotency cleanup failed")
	Debug(context.Background(), "bare context")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, first.Level)
	assert.Equal(t, "t-2", first.ContextMap()["trace_id"])
	assert.Empty(t, logs.All()[1].ContextMap())
}

func TestNewNop_DiscardsOutput(t *testing.T) {
	l := NewNop()
	assert.False(t, l.Desugar().Core().Enabled(zap.ErrorLevel))
	assert.Same(t, l, l.WithContext(context.Background()))
}
