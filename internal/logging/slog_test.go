package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	tests := []struct {
		level, msg, key string
	}{
		{"DEBUG", "dbg", "a"},
		{"INFO", "inf", "b"},
		{"WARN", "wrn", "c"},
		{"ERROR", "err", "d"},
	}
	for i, tc := range tests {
		assert.Equal(t, tc.level, lines[i]["level"])
		assert.Equal(t, tc.msg, lines[i]["msg"])
		assert.Contains(t, lines[i], tc.key)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("req_id", "123", "user", "ink-author").Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "123", lines[0]["req_id"])
	assert.Equal(t, "ink-author", lines[0]["user"])
	assert.Equal(t, "v", lines[0]["k"])
}

type ctxKey struct{}

// ctxHandler copies a context value onto every record.
type ctxHandler struct{ slog.Handler }

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		r.AddAttrs(slog.String("from_ctx", v))
	}
	return h.Handler.Handle(ctx, r)
}

func TestSlogLogger_PassesContextToHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(ctxHandler{slog.NewJSONHandler(&buf, nil)}))

	log.Warn(context.WithValue(context.Background(), ctxKey{}, "req-7"), "slow")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-7", lines[0]["from_ctx"])
}

func TestSlogLogger_DropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	log.Debug(context.Background(), "dbg")
	log.Info(context.Background(), "inf")
	log.Error(context.Background(), "err")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "err", lines[0]["msg"])
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	log := NewSlogLogger(nil)
	assert.Same(t, slog.Default(), log.l)
}
