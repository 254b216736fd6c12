package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/errschema/internal/config"
	"codeberg.org/mutker/errschema/internal/errors"
	"codeberg.org/mutker/errschema/internal/logger"
	"codeberg.org/mutker/errschema/mapper"
	"codeberg.org/mutker/errschema/schema"
	jsoniter "github.com/json-iterator/go"
	flag "github.com/spf13/pflag"
)

type options struct {
	configPath string
	profile    string
	api        bool
	list       bool
	mapping    bool
	debug      bool
	verbose    bool
	jsonLogs   bool
}

var (
	opts     options
	settings *config.Settings
)

func init() {
	flag.StringVarP(&opts.configPath, "config", "c", "", "Path to a toml, yaml or json settings file")
	flag.StringVarP(&opts.profile, "profile", "p", "", "Mapping profile (default: base, or api with --api)")
	flag.BoolVar(&opts.api, "api", false, "Use the API schema variant")
	flag.BoolVarP(&opts.list, "list", "l", false, "List the named error factories")
	flag.BoolVarP(&opts.mapping, "mapping", "m", false, "Print the exception mapping table of the profile")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debugging mode")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&opts.jsonLogs, "json", false, "Write logs as JSON lines")
	flag.Parse()

	var loadErr error
	if opts.configPath != "" {
		settings, loadErr = config.Load(config.WithConfigFile(opts.configPath))
	}
	if settings == nil {
		settings = config.Default()
	}

	level, _ := logger.ParseLevel(settings.LogLevel)
	switch {
	case opts.debug:
		level = logger.DebugLevel
	case opts.verbose:
		level = logger.InfoLevel
	}
	format := logger.FormatConsole
	if opts.jsonLogs {
		format = logger.FormatJSON
	}
	logger.Init(level, format)

	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("path", opts.configPath).Msg("Using default settings")
	}
	logger.Debug().Str("log_level", settings.LogLevel).Msg("Config loaded")
}

func main() {
	m := mapper.New(mapper.WithSettings(settings), mapper.WithLogger(logger.Default()))

	factoryOpts := []schema.FactoryOption{schema.WithSettings(settings), schema.WithMapper(m)}
	if opts.profile != "" {
		factoryOpts = append(factoryOpts, schema.WithProfile(opts.profile))
	}

	var f *schema.Factory
	if opts.api {
		f = schema.NewAPIFactory(factoryOpts...).Factory
	} else {
		f = schema.NewFactory(factoryOpts...)
	}

	var (
		err       error
		operation string
	)
	switch {
	case opts.list:
		operation = "list"
		for _, name := range f.ListAvailableErrors() {
			fmt.Println(name)
		}
	case opts.mapping:
		operation = "mapping"
		err = printMapping(f)
	default:
		operation = "demo"
		err = demo(f)
	}

	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.Default().ErrorWithContext(appErr, "errschema", operation).Msg("command failed")
			os.Exit(1)
		}
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func printMapping(f *schema.Factory) error {
	table, err := f.Mapping()
	if err != nil {
		return err
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}

	logger.Info().Str("profile", f.Profile()).Int("entries", table.Len()).Msg("Mapping table")
	fmt.Println(string(data))
	return nil
}

func demo(f *schema.Factory) error {
	dbErr, err := f.DatabaseError(schema.WithMsg("Database connection failed."))
	if err != nil {
		return err
	}

	notFound, err := f.File().NotFound("config.json")
	if err != nil {
		return err
	}

	group := f.NewGroup()
	if err := group.Extend(dbErr, notFound); err != nil {
		return err
	}

	if _, statErr := os.Stat("config.json"); statErr != nil {
		fromErr, err := f.FromError(statErr)
		if err != nil {
			return err
		}
		if err := group.Append(fromErr); err != nil {
			return err
		}
	}

	fmt.Println(dbErr.ToString())
	fmt.Println(group.ToString())
	fmt.Println(group.ConcatMessages(";"))

	logger.Info().Array("errors", group).Msg("Demo group built")
	return nil
}
