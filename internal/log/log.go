package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

var (
	lv               = new(slog.LevelVar) // default info
	opts             = &slog.HandlerOptions{Level: lv}
	out    io.Writer = os.Stdout
	format string
	base   atomic.Value // *slog.Logger
)

func init() {
	base.Store(newLogger())
}

func newLogger() *slog.Logger {
	if strings.ToLower(format) == "text" {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// SetLevel changes the runtime log level: debug, info, warn, error.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		lv.Set(slog.LevelDebug)
	case "warn", "warning":
		lv.Set(slog.LevelWarn)
	case "error":
		lv.Set(slog.LevelError)
	default:
		lv.Set(slog.LevelInfo)
	}
}

// SetFormat swaps the base handler: "text" for local runs, json otherwise.
// CloudWatch expects one JSON object per line, so json stays the default.
func SetFormat(f string) {
	format = f
	base.Store(newLogger())
}

// SetOutput redirects the base logger, keeping the current format. Call it
// during setup, before any invocation runs.
func SetOutput(w io.Writer) {
	out = w
	base.Store(newLogger())
}

// MakeDefault sets slog.Default() to this package's logger.
func MakeDefault() {
	slog.SetDefault(From())
}

// With returns a child logger with default keyvals.
func With(args ...any) *slog.Logger {
	return From().With(args...)
}

// ForInvocation returns a child logger tagged with the lambda request id
// when ctx carries one.
func ForInvocation(ctx context.Context, args ...any) *slog.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		args = append(args, "requestId", lc.AwsRequestID)
	}
	return With(args...)
}

// From returns the current base logger.
func From() *slog.Logger {
	if l, _ := base.Load().(*slog.Logger); l != nil {
		return l
	}
	l := newLogger()
	base.Store(l)
	return l
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	From().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	From().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	From().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	From().Error(msg, args...)
}
