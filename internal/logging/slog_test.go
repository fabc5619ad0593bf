package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextSlogLogger(&buf, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "request done", "status", 200)
	log.Info(ctx, "login succeeded", "user_id", "u1")
	log.Warn(ctx, "discarded stale response", "op", "login")
	log.Error(ctx, "failed to persist token", "attempt", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level, msg, attr string
	}{
		{"DEBUG", `msg="request done"`, "status=200"},
		{"INFO", `msg="login succeeded"`, "user_id=u1"},
		{"WARN", `msg="discarded stale response"`, "op=login"},
		{"ERROR", `msg="failed to persist token"`, "attempt=1"},
	}
	for i, tc := range tests {
		assert.Contains(t, lines[i], "level="+tc.level)
		assert.Contains(t, lines[i], tc.msg)
		assert.Contains(t, lines[i], tc.attr)
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextSlogLogger(&buf, slog.LevelWarn)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewTextSlogLogger(&buf, slog.LevelInfo)

	base.With("component", "session").Info(context.Background(), "logged out")
	base.Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "component=session")
	assert.NotContains(t, lines[1], "component=session", "With must not change the parent")
}

func TestNop(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	assert.NotPanics(t, func() {
		log.Debug(ctx, "x")
		log.Info(ctx, "x")
		log.With("k", "v").Warn(ctx, "x")
		log.Error(ctx, "x")
	})
}
