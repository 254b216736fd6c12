package errors

// Usage error codes, grouped by the component that raises them
const (
	// Construction errors
	ErrUnknownField      ErrorCode = "unknown_field"
	ErrInvalidField      ErrorCode = "invalid_field"
	ErrMissingField      ErrorCode = "missing_field"
	ErrOverrideForbidden ErrorCode = "override_forbidden"
	ErrUnknownFactory    ErrorCode = "unknown_factory"
	ErrNilError          ErrorCode = "nil_error"

	// Group errors
	ErrInvalidMember    ErrorCode = "invalid_member"
	ErrIndexOutOfRange  ErrorCode = "index_out_of_range"
	ErrInvalidArguments ErrorCode = "ambiguous_arguments"

	// Mapper errors
	ErrUnknownProfile ErrorCode = "unknown_profile"
	ErrProfileExists  ErrorCode = "profile_exists"
	ErrInvalidProfile ErrorCode = "invalid_profile"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
)

var messages = map[ErrorCode]string{
	ErrUnknownField:      "Extra fields not permitted",
	ErrInvalidField:      "Invalid field value",
	ErrMissingField:      "Required field missing",
	ErrOverrideForbidden: "Overriding the field is not allowed",
	ErrUnknownFactory:    "Unknown error factory",
	ErrNilError:          "Expected a non-nil error",
	ErrInvalidMember:     "The error schema must be a valid member of the group",
	ErrIndexOutOfRange:   "Index out of range",
	ErrInvalidArguments:  "Only one of 'action' or 'reason' should be provided",
	ErrUnknownProfile:    "Unknown profile",
	ErrProfileExists:     "Profile already registered",
	ErrInvalidProfile:    "Invalid profile",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read configuration",
	ErrInvalidLogLevel:   "Invalid log level",
}

// Message returns the default text for code, or the code itself when none
// is registered.
func Message(code ErrorCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return string(code)
}
