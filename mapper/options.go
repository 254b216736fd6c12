package mapper

import (
	"codeberg.org/mutker/errschema/internal/config"
	"codeberg.org/mutker/errschema/internal/logger"
)

// Option configures a Mapper
type Option func(*options)

type options struct {
	cacheSize   int
	defaultType string
	root        TypeID
	log         logger.Logger
}

func defaultOptions() *options {
	d := config.Default()
	return &options{
		cacheSize:   d.CacheSize,
		defaultType: d.DefaultErrorType,
		root:        TypeID{Module: d.RootModule(), Name: d.RootName()},
		log:         logger.Nop(),
	}
}

// WithCacheSize sets the capacity of the lookup cache. Values below one are
// ignored.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithDefaultErrorType sets the tag returned when the walk finds no match.
func WithDefaultErrorType(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.defaultType = tag
		}
	}
}

// WithRoot sets the type that ends the hierarchy walk.
func WithRoot(id TypeID) Option {
	return func(o *options) {
		o.root = id
	}
}

// WithLogger sets the logger for registration and cache events.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSettings applies cache size, default tag and root type from s.
func WithSettings(s *config.Settings) Option {
	return func(o *options) {
		if s == nil {
			return
		}
		WithCacheSize(s.CacheSize)(o)
		WithDefaultErrorType(s.DefaultErrorType)(o)
		if s.Validate() == nil {
			o.root = TypeID{Module: s.RootModule(), Name: s.RootName()}
		}
	}
}

// ProfileOption configures a profile at registration.
type ProfileOption func(*profileOptions)

type profileOptions struct {
	parent string
}

// Extends lays the new profile over parent. Entries of the new profile win.
func Extends(parent string) ProfileOption {
	return func(o *profileOptions) {
		o.parent = parent
	}
}
