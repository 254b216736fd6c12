package config

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Option configures a Load call
type Option func(*options) error

type options struct {
	configPath string
	reader     io.Reader
	format     string
}

// WithConfigFile specifies an explicit configuration file path.
// The format is derived from the file extension.
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithReader reads configuration from r in the given format, one of
// viper's supported extensions such as "toml", "yaml" or "json".
func WithReader(r io.Reader, format string) Option {
	return func(o *options) error {
		format = strings.ToLower(format)
		if !slices.Contains(viper.SupportedExts, format) {
			return fmt.Errorf("unsupported config format %q", format)
		}
		o.reader = r
		o.format = format
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid reports whether l is one of the accepted level names
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

func (l LogLevel) String() string { return string(l) }

// ValidationError describes a single invalid setting
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (v ValidationError) String() string {
	return v.Field + ": " + v.Reason
}
