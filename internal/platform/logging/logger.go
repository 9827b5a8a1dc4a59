// Package logging builds the service's structured loggers on zap and
// exposes them through the standard library's slog front so the rest of
// the codebase stays decoupled from the logging backend.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zapcore severities so config parsing stays backend-agnostic.
type Level = zapcore.Level

const (
	LevelDebug Level = zapcore.DebugLevel
	LevelInfo  Level = zapcore.InfoLevel
	LevelWarn  Level = zapcore.WarnLevel
	LevelError Level = zapcore.ErrorLevel
)

// Logger wraps a zap core and hands out slog facades bound to it.
type Logger struct {
	zap *zap.Logger
}

// NewJSON builds a production JSON logger writing to stderr.
func NewJSON(level Level) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))}
}

// FromZap adopts an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{zap: l}
}

// Sync flushes buffered entries. Call it on shutdown.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Slog returns a slog logger backed by this logger's zap core. Records
// carry trace_id and span_id whenever the context holds a recording span.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&zapHandler{core: l.zap.Core()})
}

// zapHandler adapts a zapcore.Core to the slog.Handler contract.
type zapHandler struct {
	core   zapcore.Core
	fields []zapcore.Field
	groups []string
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.core.Enabled(zapLevel(level))
}

func (h *zapHandler) Handle(ctx context.Context, record slog.Record) error {
	entry := zapcore.Entry{
		Level:   zapLevel(record.Level),
		Time:    record.Time,
		Message: record.Message,
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	checked := h.core.Check(entry, nil)
	if checked == nil {
		return nil
	}

	fields := make([]zapcore.Field, 0, len(h.fields)+record.NumAttrs()+2)
	fields = append(fields, h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendAttr(fields, h.groups, attr)
		return true
	})
	fields = appendTraceFields(fields, ctx)

	checked.Write(fields...)
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := make([]zapcore.Field, 0, len(h.fields)+len(attrs))
	fields = append(fields, h.fields...)
	for _, attr := range attrs {
		fields = appendAttr(fields, h.groups, attr)
	}
	return &zapHandler{core: h.core, fields: fields, groups: h.groups}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	if strings.TrimSpace(name) == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &zapHandler{core: h.core, fields: h.fields, groups: groups}
}

func appendAttr(fields []zapcore.Field, groups []string, attr slog.Attr) []zapcore.Field {
	if attr.Equal(slog.Attr{}) {
		return fields
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return append(fields, zap.String(key, value.String()))
	case slog.KindInt64:
		return append(fields, zap.Int64(key, value.Int64()))
	case slog.KindUint64:
		return append(fields, zap.Uint64(key, value.Uint64()))
	case slog.KindFloat64:
		return append(fields, zap.Float64(key, value.Float64()))
	case slog.KindBool:
		return append(fields, zap.Bool(key, value.Bool()))
	case slog.KindDuration:
		return append(fields, zap.Duration(key, value.Duration()))
	case slog.KindTime:
		return append(fields, zap.Time(key, value.Time()))
	case slog.KindGroup:
		nested := append(append([]string(nil), groups...), attr.Key)
		for _, member := range value.Group() {
			fields = appendAttr(fields, nested, member)
		}
		return fields
	default:
		return append(fields, zap.Any(key, value.Any()))
	}
}

func appendTraceFields(fields []zapcore.Field, ctx context.Context) []zapcore.Field {
	if ctx == nil {
		return fields
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return fields
	}

	return append(fields,
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
