package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moonpos/moonpos-backend/pkg/env"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	maxStackFrames = 32
)

// Options configures the structured logger. An empty Format falls back to
// MOONPOS_LOG_FORMAT (or LOG_FORMAT), then json. Fields are attached to
// every line, e.g. the instance id and environment.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
	Format      string
	Fields      map[string]any
}

// Logger wraps zerolog and keeps per-request fields on the context. A nil
// *Logger discards everything.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = env.First(FormatJSON, "MOONPOS_LOG_FORMAT", "LOG_FORMAT")
	}
	if format == FormatConsole {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05.000"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	builder := zerolog.New(output).With().Timestamp().Str("service", opts.ServiceName)
	builder = withSorted(builder, opts.Fields)

	return &Logger{
		base:      builder.Logger().Level(opts.Level),
		warnStack: opts.WarnStack,
	}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return &l.base
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.WithFields(ctx, map[string]any{key: value})
}

// WithFields returns a context whose log lines carry fields, in key order.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	if l == nil || len(fields) == 0 {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	entry := withSorted(l.from(ctx).With(), fields).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

// WithTxRef tags log lines with the bookkeeping reference of the unit of work.
func (l *Logger) WithTxRef(ctx context.Context, txRef string) context.Context {
	return l.WithField(ctx, "tx_ref", txRef)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	l.from(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	l.from(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	event := l.from(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", callerStack())
	}
	event.Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error) {
	if l == nil {
		return
	}
	event := l.from(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", callerStack()).Msg(msg)
}

func withSorted(builder zerolog.Context, fields map[string]any) zerolog.Context {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		builder = builder.Interface(k, fields[k])
	}
	return builder
}

// callerStack renders "function file:line" frames starting at the caller of
// Warn or Error.
func callerStack() string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s:%d", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}
