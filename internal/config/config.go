package config

import (
	"regexp"
	"strings"

	"codeberg.org/mutker/errschema/internal/errors"
	"github.com/spf13/viper"
)

const (
	DefaultStrictFields     = true
	DefaultAutoLocation     = true
	DefaultJSONIndent       = 2
	DefaultErrorType        = "unknown_error"
	DefaultRootType         = "builtin.error"
	DefaultCacheSize        = 128
	DefaultLogLevel         = LogLevelWarning
	maxJSONIndent           = 8
	configKeyStrictFields   = "strict_fields"
	configKeyAutoLocation   = "auto_location"
	configKeyJSONIndent     = "json_indent"
	configKeyDefaultErrType = "default_error_type"
	configKeyRootType       = "root_type"
	configKeyCacheSize      = "cache_size"
	configKeyLogLevel       = "log_level"
)

var errFactory = errors.For("config")

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// Settings holds every tunable of the library.
type Settings struct {
	// StrictFields rejects unknown record fields at construction. When false
	// unknown fields are dropped silently.
	StrictFields bool `mapstructure:"strict_fields"`
	// AutoLocation fills loc with the caller location for extended schemas.
	AutoLocation bool `mapstructure:"auto_location"`
	// JSONIndent is the indent width used by ToString.
	JSONIndent int `mapstructure:"json_indent"`
	// DefaultErrorType is returned by the mapper when nothing matches.
	DefaultErrorType string `mapstructure:"default_error_type"`
	// RootType ends the hierarchy walk, written as "<module>.<name>".
	RootType  string `mapstructure:"root_type"`
	CacheSize int    `mapstructure:"cache_size"`
	LogLevel  string `mapstructure:"log_level"`
}

// Default returns the built-in settings
func Default() *Settings {
	return &Settings{
		StrictFields:     DefaultStrictFields,
		AutoLocation:     DefaultAutoLocation,
		JSONIndent:       DefaultJSONIndent,
		DefaultErrorType: DefaultErrorType,
		RootType:         DefaultRootType,
		CacheSize:        DefaultCacheSize,
		LogLevel:         DefaultLogLevel.String(),
	}
}

// Load reads settings from the given sources on top of the defaults.
// Without options it returns the defaults.
func Load(opts ...Option) (*Settings, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	switch {
	case o.configPath != "":
		v.SetConfigFile(o.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	case o.reader != nil:
		v.SetConfigType(o.format)
		if err := v.ReadConfig(o.reader); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(configKeyStrictFields, d.StrictFields)
	v.SetDefault(configKeyAutoLocation, d.AutoLocation)
	v.SetDefault(configKeyJSONIndent, d.JSONIndent)
	v.SetDefault(configKeyDefaultErrType, d.DefaultErrorType)
	v.SetDefault(configKeyRootType, d.RootType)
	v.SetDefault(configKeyCacheSize, d.CacheSize)
	v.SetDefault(configKeyLogLevel, d.LogLevel)
}

// Validate checks every setting and reports the first group of problems
func (s *Settings) Validate() error {
	if !LogLevel(s.LogLevel).IsValid() {
		return errFactory.WithDetail(errors.ErrInvalidLogLevel, s.LogLevel)
	}

	var problems []ValidationError
	if s.JSONIndent < 0 || s.JSONIndent > maxJSONIndent {
		problems = append(problems, ValidationError{
			Field: configKeyJSONIndent, Value: s.JSONIndent, Reason: "must be between 0 and 8",
		})
	}
	if s.CacheSize <= 0 {
		problems = append(problems, ValidationError{
			Field: configKeyCacheSize, Value: s.CacheSize, Reason: "must be positive",
		})
	}
	if !tagPattern.MatchString(s.DefaultErrorType) {
		problems = append(problems, ValidationError{
			Field: configKeyDefaultErrType, Value: s.DefaultErrorType, Reason: "must be a snake_case tag",
		})
	}
	if i := strings.LastIndex(s.RootType, "."); i <= 0 || i == len(s.RootType)-1 {
		problems = append(problems, ValidationError{
			Field: configKeyRootType, Value: s.RootType, Reason: "must look like <module>.<name>",
		})
	}

	if len(problems) > 0 {
		return errFactory.WithDetail(errors.ErrInvalidConfig, problems)
	}

	return nil
}

// RootModule returns the module half of RootType
func (s *Settings) RootModule() string {
	return s.RootType[:strings.LastIndex(s.RootType, ".")]
}

// RootName returns the type-name half of RootType
func (s *Settings) RootName() string {
	return s.RootType[strings.LastIndex(s.RootType, ".")+1:]
}
