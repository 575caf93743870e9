// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"errors"
	"log/slog"
	"os"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

const instrumentationScope = "github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"

// otelHandler emits slog records through an OpenTelemetry logger.
type otelHandler struct {
	logger otellog.Logger
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

// NewOTelHandler returns a handler that forwards records at or above level to
// the given logger provider.
func NewOTelHandler(provider otellog.LoggerProvider, level slog.Leveler) slog.Handler {
	return &otelHandler{
		logger: provider.Logger(instrumentationScope),
		level:  level,
	}
}

func (h *otelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *otelHandler) Handle(ctx context.Context, r slog.Record) error {
	var record otellog.Record
	record.SetTimestamp(r.Time)
	record.SetBody(otellog.StringValue(r.Message))
	record.SetSeverity(severity(r.Level))
	record.SetSeverityText(r.Level.String())

	for _, attr := range h.attrs {
		record.AddAttributes(keyValue("", attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		record.AddAttributes(keyValue(h.group, attr))
		return true
	})

	h.logger.Emit(ctx, record)
	return nil
}

func (h *otelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		if h.group != "" {
			attr.Key = h.group + "." + attr.Key
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *otelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	clone.group = name
	return &clone
}

func severity(level slog.Level) otellog.Severity {
	switch {
	case level >= slog.LevelError:
		return otellog.SeverityError
	case level >= slog.LevelWarn:
		return otellog.SeverityWarn
	case level >= slog.LevelInfo:
		return otellog.SeverityInfo
	default:
		return otellog.SeverityDebug
	}
}

func keyValue(prefix string, attr slog.Attr) otellog.KeyValue {
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindBool:
		return otellog.Bool(key, value.Bool())
	case slog.KindInt64:
		return otellog.Int64(key, value.Int64())
	case slog.KindFloat64:
		return otellog.Float64(key, value.Float64())
	default:
		return otellog.String(key, value.String())
	}
}

// fanoutHandler sends every record to each handler that accepts it.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = errors.Join(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errs
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// EnableOTelExport makes the default logger also emit through the global
// OpenTelemetry logger provider. Call it after the OTel SDK is set up.
func EnableOTelExport(base slog.Handler) slog.Handler {
	otelSide := contextHandler{NewOTelHandler(global.GetLoggerProvider(), parseLevel(os.Getenv("LOG_LEVEL")))}
	h := fanoutHandler{base, otelSide}
	slog.SetDefault(slog.New(h))
	return h
}
