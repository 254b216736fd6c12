package schema

import "codeberg.org/mutker/errschema/internal/errors"

// Usage errors returned by factories and groups, for use with errors.Is.
var (
	ErrUnknownField      = errors.Sentinel(errors.ErrUnknownField)
	ErrInvalidField      = errors.Sentinel(errors.ErrInvalidField)
	ErrMissingField      = errors.Sentinel(errors.ErrMissingField)
	ErrOverrideForbidden = errors.Sentinel(errors.ErrOverrideForbidden)
	ErrUnknownFactory    = errors.Sentinel(errors.ErrUnknownFactory)
	ErrNilError          = errors.Sentinel(errors.ErrNilError)
	ErrInvalidMember     = errors.Sentinel(errors.ErrInvalidMember)
	ErrIndexOutOfRange   = errors.Sentinel(errors.ErrIndexOutOfRange)
	ErrInvalidArguments  = errors.Sentinel(errors.ErrInvalidArguments)
	ErrUnknownProfile    = errors.Sentinel(errors.ErrUnknownProfile)
)

var errFactory = errors.For("schema")
