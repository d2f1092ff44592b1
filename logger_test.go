package corekit

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithContainer("hashmap").WithChannel("Core").LogRehash(16, 32, 13)

	out := buf.String()
	assert.Contains(t, out, "rehash completed")
	assert.Contains(t, out, "container=hashmap")
	assert.Contains(t, out, "channel=Core")
	assert.Contains(t, out, "old_buckets=16")
	assert.Contains(t, out, "new_buckets=32")
	assert.Contains(t, out, "elements=13")
}

func TestLogger_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l.LogGrow(4, 8, 4)
	assert.Empty(t, buf.String())

	l.LogAllocFailure("array.realloc", 128, errors.New("budget"))
	assert.Contains(t, buf.String(), "allocation failed")
	assert.Contains(t, buf.String(), "size=128")
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger

	assert.NotPanics(t, func() {
		l.WithContainer("array").WithCount(3).LogGrow(0, 4, 1)
		l.LogRehash(1, 2, 3)
		l.LogAllocFailure("op", 1, nil)
	})
	assert.False(t, l.Enabled(slog.LevelError))
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(slog.LevelError))
	l.LogAllocFailure("op", 1, nil)
}
