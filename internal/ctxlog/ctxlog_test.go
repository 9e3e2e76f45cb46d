package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsEmbeddedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Debug("hello from context", "k", "v")

	require.Same(t, logger, FromContext(ctx))
	assert.Contains(t, buf.String(), "hello from context")
	assert.Contains(t, buf.String(), "k=v")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestDiscard(t *testing.T) {
	ctx := Discard(context.Background())
	logger := FromContext(ctx)
	require.NotNil(t, logger)
	assert.NotSame(t, slog.Default(), logger)
	// Must not panic or write anywhere.
	logger.Error("dropped")
}
