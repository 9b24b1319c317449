package cli

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"golang.org/x/mod/module"

	"github.com/toyz/mvcgen/internal/errors"
	"github.com/toyz/mvcgen/internal/session"
)

// EnvPrefix prefixes every environment variable read by the CLI
const EnvPrefix = "MVCGEN"

// ConfigName is the base name of the optional config file
const ConfigName = "mvcgen"

// Config holds the configuration for one CLI invocation
type Config struct {
	// Directories are the package patterns to process, ./... when empty
	Directories []string `mapstructure:"-"`

	// Module overrides the module path read from go.mod
	Module string `mapstructure:"module" validate:"omitempty,modpath"`

	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
	Debug   bool `mapstructure:"debug"`

	// Incremental processes one package per round
	Incremental bool `mapstructure:"incremental"`
	// Services writes the service manifest to ServicesFile
	Services     bool   `mapstructure:"services"`
	ServicesFile string `mapstructure:"services_file" validate:"required"`
	// Strict turns warnings into errors
	Strict bool `mapstructure:"strict"`
	// Prune removes generated routers no controller produces anymore
	Prune bool     `mapstructure:"prune"`
	Tags  []string `mapstructure:"tags" validate:"dive,required"`

	WatchDebounce time.Duration `mapstructure:"watch_debounce" validate:"gte=0,lte=1m"`
}

// Defaults are the values used when neither flags, environment nor the
// config file set a key
var Defaults = map[string]any{
	"module":         "",
	"verbose":        false,
	"quiet":          false,
	"debug":          false,
	"incremental":    false,
	"services":       false,
	"services_file":  "mvc.services",
	"strict":         false,
	"prune":          false,
	"tags":           []string{},
	"watch_debounce": 300 * time.Millisecond,
}

// NewViper creates a viper instance reading MVCGEN_* variables and the
// optional mvcgen config file. configFile replaces the lookup of
// mvcgen.{yaml,json,toml} in dir.
func NewViper(dir, configFile string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
	}
	return v
}

// LoadConfig reads the config file, if any, and decodes every setting of v
// into a validated Config
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.WrapConfigurationError(v.ConfigFileUsed(), "read", err)
		}
	}

	settings := make(map[string]any, len(Defaults))
	for key := range Defaults {
		settings[key] = v.Get(key)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: &cfg,
	})
	if err != nil {
		return nil, errors.WrapConfigurationError("settings", "decode", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.WrapConfigurationError("settings", "decode", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("modpath", func(fl validator.FieldLevel) bool {
		return module.CheckPath(fl.Field().String()) == nil
	})
	return v
}

// Validate checks the field constraints of the config
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		base := errors.WrapConfigurationError("settings", "validate", err)
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				base.WithSuggestion(suggestionFor(fe))
			}
		}
		return base
	}
	return nil
}

func suggestionFor(fe validator.FieldError) string {
	switch fe.StructField() {
	case "ServicesFile":
		return "set services_file (or --services-file) to the manifest path"
	case "WatchDebounce":
		return "watch_debounce must be between 0s and 1m"
	case "Module":
		return "module must be a valid module path such as example.com/app"
	case "Tags":
		return "build tags cannot be empty"
	default:
		return fe.Namespace() + " failed the " + fe.Tag() + " check"
	}
}

// SessionOptions maps the config to the build flags
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Debug:       c.Debug,
		Incremental: c.Incremental,
		Services:    c.Services,
		Strict:      c.Strict,
	}
}

// Patterns returns the package patterns, ./... when none were given
func (c *Config) Patterns() []string {
	if len(c.Directories) == 0 {
		return []string{"./..."}
	}
	return c.Directories
}
