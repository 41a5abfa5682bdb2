package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	actorIDKey
)

// WithRequestID tags every *Context log call made with the returned context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithActorID records the authenticated party on the context for logging.
func WithActorID(ctx context.Context, partyID int64) context.Context {
	return context.WithValue(ctx, actorIDKey, partyID)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// contextHandler copies request scoped values from the context onto each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		r.AddAttrs(slog.String("request_id", id))
	}
	if id, ok := ctx.Value(actorIDKey).(int64); ok {
		r.AddAttrs(slog.Int64("actor_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Initialize sets up the global logger on stdout. format is "json" or "text".
func Initialize(level, format string) {
	InitializeWriter(os.Stdout, level, format)
}

// InitializeWriter is Initialize with an explicit destination.
func InitializeWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(contextHandler{handler})
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// Get returns the global logger, initializing it at info level on first use.
func Get() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		Initialize("info", "text")
		return Get()
	}
	return l
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// The *Context variants add request_id and actor_id when present on ctx.
func DebugContext(ctx context.Context, msg string, args ...any) {
	Get().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// trace logs a process-tracking line: debug on success, error when err is set.
func trace(okMsg, failMsg string, err error, attrs []any, args []any) {
	attrs = append(attrs, args...)
	if err != nil {
		Get().Error(failMsg, append(attrs, "error", err)...)
		return
	}
	Get().Debug(okMsg, attrs...)
}

// EnterMethod and ExitMethod bracket a service call at debug level.
func EnterMethod(methodName string, args ...any) {
	trace("→ Method entered", "", nil, []any{"method", methodName, "event", "enter"}, args)
}

func ExitMethod(methodName string, args ...any) {
	trace("← Method exited", "", nil, []any{"method", methodName, "event", "exit"}, args)
}

func ExitMethodWithError(methodName string, err error, args ...any) {
	trace("", "← Method exited with error", err, []any{"method", methodName, "event", "exit"}, args)
}

func DatabaseCall(operation, query string, args ...any) {
	trace("→ Database call", "", nil, []any{"operation", operation, "query", query}, args)
}

func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	trace("← Database call succeeded", "← Database call failed", err,
		[]any{"operation", operation, "rows_affected", rowsAffected}, args)
}

func ExternalServiceCall(service, operation string, args ...any) {
	trace("→ External service call", "", nil, []any{"service", service, "operation", operation}, args)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	trace("← External service call succeeded", "← External service call failed", err,
		[]any{"service", service, "operation", operation}, args)
}
