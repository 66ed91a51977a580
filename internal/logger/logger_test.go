package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func withCapture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetDev(nil)
		SetTelemetryHandler(nil)
	})
	return buf
}

func TestDebugSuppressedOutsideDev(t *testing.T) {
	buf := withCapture(t)
	SetDev(boolPtr(false))

	var calls [][]any
	SetTelemetryHandler(func(level string, args []any) {
		calls = append(calls, append([]any{level}, args...))
	})

	Debug("should not appear")
	assert.Empty(t, buf.String())
	// telemetry must not fire for gated debug calls
	assert.Empty(t, calls)
}

func TestDebugEmittedInDev(t *testing.T) {
	buf := withCapture(t)
	SetDev(boolPtr(true))

	var gotLevel string
	SetTelemetryHandler(func(level string, args []any) {
		gotLevel = level
	})

	Debug("visible", "k", "v")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, LevelDebug, gotLevel)
}

func TestInfoWarnErrorAlwaysEmitted(t *testing.T) {
	buf := withCapture(t)
	SetDev(boolPtr(false))

	Info("info line")
	Warn("warn line")
	Error("error line")

	output := buf.String()
	assert.Contains(t, output, "info line")
	assert.Contains(t, output, "warn line")
	assert.Contains(t, output, "error line")
}

func TestTelemetryReceivesLevelAndArgs(t *testing.T) {
	withCapture(t)

	var gotLevel string
	var gotArgs []any
	SetTelemetryHandler(func(level string, args []any) {
		gotLevel = level
		gotArgs = args
	})

	Warn("disk almost full", "pct", 93)
	assert.Equal(t, LevelWarn, gotLevel)
	require.Len(t, gotArgs, 3)
	assert.Equal(t, "disk almost full", gotArgs[0])
	assert.Equal(t, "pct", gotArgs[1])
	assert.Equal(t, 93, gotArgs[2])
}

func TestTelemetryHandlerCleared(t *testing.T) {
	withCapture(t)

	calls := 0
	SetTelemetryHandler(func(string, []any) { calls++ })
	Info("one")
	SetTelemetryHandler(nil)
	Info("two")

	assert.Equal(t, 1, calls)
}

func TestLogUnknownLevelFallsBackToDebug(t *testing.T) {
	buf := withCapture(t)
	SetDev(boolPtr(true))

	var gotLevel string
	SetTelemetryHandler(func(level string, args []any) {
		gotLevel = level
	})

	Log("verbose", "odd level")
	assert.Equal(t, LevelDebug, gotLevel)
	assert.True(t, strings.Contains(buf.String(), "odd level"))
}

func TestLogDispatch(t *testing.T) {
	withCapture(t)

	var levels []string
	SetTelemetryHandler(func(level string, args []any) {
		levels = append(levels, level)
	})

	Log(LevelInfo, "a")
	Log(LevelWarn, "b")
	Log(LevelError, "c")
	assert.Equal(t, []string{LevelInfo, LevelWarn, LevelError}, levels)
}

func TestPrometheusHandlerCountsEvents(t *testing.T) {
	withCapture(t)

	reg := prometheus.NewRegistry()
	SetTelemetryHandler(NewPrometheusHandler(reg))

	Info("one")
	Info("two")
	Error("boom")

	count := testutil.CollectAndCount(reg, "basekit_log_events_total")
	assert.Equal(t, 2, count) // two label values seen
}
