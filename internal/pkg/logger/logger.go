package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
// kv is an alternating list of keys and values attached as structured fields.
type Logger interface {
	Error(msg string, err error, kv ...any)
	Warn(msg string, kv ...any)
	Info(msg string, kv ...any)
	Debug(msg string, kv ...any)
	// With returns a child logger that always carries kv.
	With(kv ...any) Logger
}

// Options controls the output of New.
type Options struct {
	Level   string // debug, info, warn, error
	Console bool   // human readable output instead of JSON
	Out     io.Writer
}

type zeroLogger struct {
	zl zerolog.Logger
}

// New creates a zerolog backed Logger.
func New(opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

func (l *zeroLogger) Error(msg string, err error, kv ...any) {
	withFields(l.zl.Error().Err(err), kv).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, kv ...any) {
	withFields(l.zl.Warn(), kv).Msg(msg)
}

func (l *zeroLogger) Info(msg string, kv ...any) {
	withFields(l.zl.Info(), kv).Msg(msg)
}

func (l *zeroLogger) Debug(msg string, kv ...any) {
	withFields(l.zl.Debug(), kv).Msg(msg)
}

func (l *zeroLogger) With(kv ...any) Logger {
	if len(kv) == 0 {
		return l
	}
	return &zeroLogger{zl: l.zl.With().Fields(kv).Logger()}
}

func withFields(e *zerolog.Event, kv []any) *zerolog.Event {
	if len(kv) == 0 {
		return e
	}
	return e.Fields(kv)
}
