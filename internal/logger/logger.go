package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/errschema/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Event is a pending log entry. Msg or Send writes it.
type Event struct {
	*zerolog.Event
}

// Format selects how Init renders entries.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Init configures the package logger on stderr. Console output is meant
// for terminals; JSON output for anything that collects logs.
func Init(level LogLevel, format Format) {
	InitTo(os.Stderr, level, format)
}

// InitTo configures the package logger on w.
func InitTo(w io.Writer, level LogLevel, format Format) {
	out := w
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	log = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// ParseLevel maps a configured level name to a LogLevel. Unknown names
// give WarnLevel and false.
func ParseLevel(name string) (LogLevel, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}

	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl < zerolog.DebugLevel || lvl > zerolog.FatalLevel || name == "" {
		return WarnLevel, false
	}
	return LogLevel(lvl), true
}

func Debug() *Event { return &Event{log.Debug()} }
func Info() *Event  { return &Event{log.Info()} }
func Warn() *Event  { return &Event{log.Warn()} }
func Error() *Event { return &Event{log.Error()} }

// Fatal logs and exits the program
func Fatal() *Event { return &Event{log.Fatal()} }

type zeroLogger struct {
	l zerolog.Logger
}

// Default returns a Logger backed by the package logger as configured at
// the time of the call.
func Default() Logger {
	return zeroLogger{l: log}
}

// New returns a Logger writing JSON lines to w
func New(w io.Writer) Logger {
	return zeroLogger{l: zerolog.New(w).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return zeroLogger{l: zerolog.Nop()}
}

func (z zeroLogger) Debug() *Event { return &Event{z.l.Debug()} }
func (z zeroLogger) Info() *Event  { return &Event{z.l.Info()} }
func (z zeroLogger) Warn() *Event  { return &Event{z.l.Warn()} }
func (z zeroLogger) Error() *Event { return &Event{z.l.Error()} }

func (z zeroLogger) ErrorWithCode(err errors.Error) *Event {
	e := z.l.Error().Str("error_code", string(err.Code()))
	if c := err.Component(); c != "" {
		e = e.Str("component", c)
	}
	if cause := err.Unwrap(); cause != nil {
		e = e.AnErr("cause", cause)
	}
	return &Event{e.Str("error_message", err.Error())}
}

func (z zeroLogger) ErrorWithSchema(obj zerolog.LogObjectMarshaler) *Event {
	return &Event{z.l.Error().Object("error", obj)}
}

// ErrorWithContext logs err on behalf of component, which takes precedence
// over the component recorded in err.
func (z zeroLogger) ErrorWithContext(err errors.Error, component, operation string) *Event {
	return &Event{z.l.Error().
		Str("component", component).
		Str("operation", operation).
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error())}
}
