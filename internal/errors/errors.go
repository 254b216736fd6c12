package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers need a single errors import
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

type usageError struct {
	component string
	code      ErrorCode
	msg       string
	detail    any
	cause     error
}

func (e *usageError) Error() string {
	var b strings.Builder
	if e.component != "" {
		b.WriteString(e.component)
		b.WriteString(": ")
	}

	if e.msg != "" {
		b.WriteString(e.msg)
	} else {
		b.WriteString(Message(e.code))
	}

	switch {
	case e.detail != nil:
		fmt.Fprintf(&b, ": %v", e.detail)
	case e.cause != nil:
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

func (e *usageError) Code() ErrorCode   { return e.code }
func (e *usageError) Component() string { return e.component }
func (e *usageError) Detail() any       { return e.detail }
func (e *usageError) Unwrap() error     { return e.cause }

// Is matches on the code alone, so a Sentinel equals every error built
// with the same code regardless of component, message or detail.
func (e *usageError) Is(target error) bool {
	t, ok := target.(Error)
	return ok && e.code == t.Code()
}

type componentFactory struct {
	component string
}

// For returns a Factory whose errors are prefixed with component.
func For(component string) Factory {
	return componentFactory{component: component}
}

func (f componentFactory) New(code ErrorCode) Error {
	return &usageError{component: f.component, code: code}
}

func (f componentFactory) Wrap(code ErrorCode, err error) Error {
	return &usageError{component: f.component, code: code, cause: err}
}

func (f componentFactory) WithDetail(code ErrorCode, detail any) Error {
	return &usageError{component: f.component, code: code, detail: detail}
}

func (f componentFactory) Messagef(code ErrorCode, format string, args ...any) Error {
	return &usageError{component: f.component, code: code, msg: fmt.Sprintf(format, args...)}
}

// Sentinel returns a bare error for code, meant for exported package
// variables compared with errors.Is.
func Sentinel(code ErrorCode) Error {
	return &usageError{code: code}
}

// CodeOf returns the code of the first Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Code(), true
	}
	return "", false
}
