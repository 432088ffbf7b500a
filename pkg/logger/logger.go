// Package logger is the process-wide structured logger.
//
// Call sites pass a message followed by alternating key/value pairs:
//
//	logger.Info("server starting", "address", addr)
//	logger.Error("failed to load places", "error", err)
//
// A lone trailing error is also accepted and logged under "error".
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

// TraceIDKey is the context key holding the per-request trace id.
const TraceIDKey ctxKey = "trace_id"

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	log = newLogger("development", os.Stderr)
}

// Init configures the global logger for the given environment.
// "production" logs JSON at info level, anything else logs human readable output at debug level.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(env, os.Stderr)
}

// SetOutput redirects the global logger, keeping its level. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Output(w)
}

func newLogger(env string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "production" {
		return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, args ...any) { emit(get().Debug(), msg, args) }
func Info(msg string, args ...any)  { emit(get().Info(), msg, args) }
func Warn(msg string, args ...any)  { emit(get().Warn(), msg, args) }
func Error(msg string, args ...any) { emit(get().Error(), msg, args) }

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) { emit(get().Fatal(), msg, args) }

// TraceIDFromContext returns the trace id stored by the request id middleware.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithTraceID stores a trace id in ctx.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}

	// logger.Error("msg", err) form
	if len(args)%2 == 1 {
		last := args[len(args)-1]
		args = args[:len(args)-1]
		if err, ok := last.(error); ok {
			ev = ev.Err(err)
		} else {
			ev = ev.Interface("extra", last)
		}
	}

	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case float64:
			ev = ev.Float64(key, v)
		case bool:
			ev = ev.Bool(key, v)
		case time.Duration:
			ev = ev.Dur(key, v)
		case fmt.Stringer:
			ev = ev.Stringer(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}

	ev.Msg(msg)
}
