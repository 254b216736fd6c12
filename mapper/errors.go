package mapper

import "codeberg.org/mutker/errschema/internal/errors"

// Usage errors returned by the mapper, for use with errors.Is.
var (
	ErrUnknownProfile = errors.Sentinel(errors.ErrUnknownProfile)
	ErrProfileExists  = errors.Sentinel(errors.ErrProfileExists)
	ErrInvalidProfile = errors.Sentinel(errors.ErrInvalidProfile)
	ErrNilError       = errors.Sentinel(errors.ErrNilError)
)

var errFactory = errors.For("mapper")
