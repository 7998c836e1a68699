package log

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	perrors "github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
//
// Errors that implement zerolog.LogObjectMarshaler (every error kind in
// pkg/errors does) are embedded as structured objects.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger writes JSON lines to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewNopLogger returns a logger that discards every record.
func NewNopLogger() *ZerologLogger {
	return &ZerologLogger{zl: zerolog.Nop()}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *ZerologLogger) Info(msg string, fields ...any)  { z.emit(z.zl.Info(), msg, fields) }
func (z *ZerologLogger) Warn(msg string, fields ...any)  { z.emit(z.zl.Warn(), msg, fields) }

func (z *ZerologLogger) Error(msg string, fields ...any) {
	e := z.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = withError(e, err)
			fields = fields[1:]
		}
	}
	z.emit(e, msg, fields)
}

func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: z.zl.With().Fields(normalizeFields(fields)).Logger()}
}

func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

// InstallWarningHook routes pkg/errors.Warn through this logger.
func (z *ZerologLogger) InstallWarningHook() {
	perrors.SetZerologWarnFunc(func(w error) {
		e := z.zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			e = e.EmbedObject(m)
		}
		e.Msg(w.Error())
	})
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	e.Fields(normalizeFields(fields)).Msg(msg)
}

func withError(e *zerolog.Event, err error) *zerolog.Event {
	if e == nil {
		return nil
	}
	e = e.Err(err)
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		e = e.Object("error_detail", m)
	}
	return e
}

// normalizeFields turns alternating key/value pairs into the []any form
// zerolog expects, stringifying keys and rendering error values as text.
func normalizeFields(fields []any) []any {
	out := make([]any, 0, len(fields))
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		value := fields[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		out = append(out, key, value)
	}
	return out
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
