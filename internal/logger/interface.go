package logger

import (
	"codeberg.org/mutker/errschema/internal/errors"
	"github.com/rs/zerolog"
)

// Logger is what library components log through. Components receive one
// via options and default to Nop.
type Logger interface {
	Debug() *Event
	Info() *Event
	Warn() *Event
	Error() *Event
	// ErrorWithCode logs a usage error with its code and component.
	ErrorWithCode(err errors.Error) *Event
	// ErrorWithSchema nests a structured error record under "error".
	ErrorWithSchema(obj zerolog.LogObjectMarshaler) *Event
	ErrorWithContext(err errors.Error, component, operation string) *Event
}
