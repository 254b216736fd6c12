package errors

// ErrorCode identifies a kind of library usage error
type ErrorCode string

// Error is a usage error raised by one component of the library
type Error interface {
	error
	Code() ErrorCode
	Component() string
	Detail() any
	Unwrap() error
}

// Factory builds usage errors on behalf of a single component
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithDetail(code ErrorCode, detail any) Error
	Messagef(code ErrorCode, format string, args ...any) Error
}
