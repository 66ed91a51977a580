// Package logger is the process-wide leveled logging facade. It emits
// through log/slog and forwards every emitted call to an optional
// telemetry handler. Debug output is gated on the development environment.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level names accepted by Log. Anything else falls back to debug.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// TelemetryHandler receives every emitted log call as (level, args).
// At most one handler is active at a time.
type TelemetryHandler func(level string, args []any)

var (
	mu          sync.Mutex
	out         = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	devOverride *bool
	telemetry   TelemetryHandler
)

// SetOutput redirects log output. Pass nil to restore stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetDev forces the development gate on or off, overriding the
// APP_ENV environment check. Pass nil to fall back to APP_ENV.
func SetDev(v *bool) {
	mu.Lock()
	defer mu.Unlock()
	devOverride = v
}

// SetTelemetryHandler installs the process-wide telemetry handler.
// Pass nil to remove it.
func SetTelemetryHandler(fn TelemetryHandler) {
	mu.Lock()
	defer mu.Unlock()
	telemetry = fn
}

// snapshot copies the shared state so emission happens outside the lock.
// A telemetry handler is then free to log without deadlocking.
func snapshot() (*slog.Logger, TelemetryHandler, bool) {
	mu.Lock()
	defer mu.Unlock()
	dev := false
	if devOverride != nil {
		dev = *devOverride
	} else {
		dev = os.Getenv("APP_ENV") == "development"
	}
	return out, telemetry, dev
}

// Debug logs at debug level. Suppressed entirely (including telemetry)
// unless the development gate passes.
func Debug(msg string, args ...any) {
	l, th, dev := snapshot()
	if !dev {
		return
	}
	l.Debug(msg, args...)
	forward(th, LevelDebug, msg, args)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	l, th, _ := snapshot()
	l.Info(msg, args...)
	forward(th, LevelInfo, msg, args)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	l, th, _ := snapshot()
	l.Warn(msg, args...)
	forward(th, LevelWarn, msg, args)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	l, th, _ := snapshot()
	l.Error(msg, args...)
	forward(th, LevelError, msg, args)
}

// Log dispatches by level name. Unknown levels are treated as debug,
// and forwarded to telemetry as "debug".
func Log(level, msg string, args ...any) {
	switch level {
	case LevelInfo:
		Info(msg, args...)
	case LevelWarn:
		Warn(msg, args...)
	case LevelError:
		Error(msg, args...)
	default:
		Debug(msg, args...)
	}
}

func forward(th TelemetryHandler, level, msg string, args []any) {
	if th == nil {
		return
	}
	all := make([]any, 0, len(args)+1)
	all = append(all, msg)
	all = append(all, args...)
	th(level, all)
}
