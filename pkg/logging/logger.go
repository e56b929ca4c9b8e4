package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "requestID"

// LevelTrace is below debug and reserved for per-glycan and per-term detail
const LevelTrace = slog.LevelDebug - 4

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stderr
	logger *slog.Logger
)

func init() {
	// Logs go to stderr so reports written to stdout stay clean
	logger = slog.New(NewCompactHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetOutput sets the writer used by the next SetLevel or SetJSONOutput
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetLevel changes the logging level
func SetLevel(level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(NewCompactHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetJSONOutput switches to JSON format output
func SetJSONOutput(level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

// ParseLevel picks the log level from a verbosity name or, when the name is
// empty, from the number of -v flags given.
func ParseLevel(verbosity string, verboseCount int) (slog.Level, error) {
	switch strings.ToLower(verbosity) {
	case "":
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown verbosity %q", verbosity)
	}

	switch {
	case verboseCount >= 2:
		return LevelTrace, nil
	case verboseCount == 1:
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, nil
	}
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// Helper function to add request ID to log attributes if present
func withRequestID(ctx context.Context, args []any) []any {
	requestID := GetRequestID(ctx)
	if requestID != "" {
		return append([]any{"requestID", requestID}, args...)
	}
	return args
}

// Trace logs at TRACE level (very verbose, debug-time only)
func Trace(msg string, args ...any) {
	current().Log(context.Background(), LevelTrace, msg, args...)
}

// Debug logs at DEBUG level (internal component behavior)
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// DebugContext logs at DEBUG level with context
func DebugContext(ctx context.Context, msg string, args ...any) {
	current().DebugContext(ctx, msg, withRequestID(ctx, args)...)
}

// Info logs at INFO level (user-facing operations)
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// InfoContext logs at INFO level with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	current().InfoContext(ctx, msg, withRequestID(ctx, args)...)
}

// Warn logs at WARN level (should be monitored)
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// WarnContext logs at WARN level with context
func WarnContext(ctx context.Context, msg string, args ...any) {
	current().WarnContext(ctx, msg, withRequestID(ctx, args)...)
}

// Error logs at ERROR level
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// ErrorContext logs at ERROR level with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	current().ErrorContext(ctx, msg, withRequestID(ctx, args)...)
}
