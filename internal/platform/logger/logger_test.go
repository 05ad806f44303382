package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestJSONLogger_FiltersByLevelAndMergesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{
		Level:  Warn,
		Format: FormatJSON,
		App:    "carecircle",
		Output: zapcore.AddSync(&buf),
	})

	l.Info("dropped", nil)
	l.With(map[string]any{"recipient_id": "r-1"}).Warn("kept", map[string]any{
		"err": errors.New("boom"),
		"":    "ignored",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "carecircle", entry["app"])
	assert.Equal(t, "r-1", entry["recipient_id"])
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, "")
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With(map[string]any{"a": 1}).Error("x", map[string]any{"b": 2})
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Options{Level: Debug, Format: FormatJSON, Output: zapcore.AddSync(&buf)})

	FromContext(context.Background()).Warn("dropped", nil)
	assert.Zero(t, buf.Len())

	ctx := WithContext(context.Background(), lg.With(map[string]any{"request_id": "req-1"}))
	FromContext(ctx).Warn("kept", nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
}
