// Package config resolves doxa settings from flags, environment variables
// and an optional .doxa.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/doxa/pkg/llm"
)

// EnvPrefix is prepended to setting names when read from the environment,
// e.g. DOXA_PROVIDER.
const EnvPrefix = "DOXA"

// Config holds the resolved settings for one run.
type Config struct {
	Provider     string        `mapstructure:"provider" validate:"required,provider"`
	Model        string        `mapstructure:"model"`
	APIKey       string        `mapstructure:"api_key" validate:"required"`
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	SearchTool   string        `mapstructure:"search_tool"`
	MaxTurns     int           `mapstructure:"max_turns" validate:"gte=1"`
	MaxTokens    int           `mapstructure:"max_tokens" validate:"gte=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Format       string        `mapstructure:"format" validate:"oneof=json jsonl yaml"`
	Structured   bool          `mapstructure:"structured"`
	FetchArticle bool          `mapstructure:"fetch_article"`
	Debug        bool          `mapstructure:"debug"`
	Verbose      bool          `mapstructure:"verbose"`
	LogJSON      bool          `mapstructure:"log_json"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", "xai")
	v.SetDefault("max_turns", 10)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("format", "json")
}

// Load reads the config file (if any) and environment into v, then decodes
// and validates the result. cfgFile overrides the default search path.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".doxa")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.applyProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyProviderDefaults fills provider-specific settings left empty.
func (c *Config) applyProviderDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.APIKey == "" {
		c.APIKey = llm.APIKeyFromEnv(c.Provider)
	}
	if c.Model == "" {
		c.Model = llm.GetDefaultModel(c.Provider)
	}
	if c.SearchTool == "" {
		c.SearchTool = llm.GetDefaultSearchTool(c.Provider)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})
	_ = v.RegisterValidation("provider", func(fl validator.FieldLevel) bool {
		return llm.IsRegistered(fl.Field().String())
	})
	return v
}

// Validate checks the settings. A missing API key is reported as
// llm.ErrMissingAPIKey naming the environment variable to set.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		errs = append(errs, c.fieldError(e))
	}
	return errors.Join(errs...)
}

func (c *Config) fieldError(e validator.FieldError) error {
	switch e.Field() {
	case "api_key":
		return fmt.Errorf("%w for provider %q (set %s or --api-key)", llm.ErrMissingAPIKey, c.Provider, llm.EnvKey(c.Provider))
	case "provider":
		return fmt.Errorf("unknown provider %q (available: %s)", c.Provider, strings.Join(llm.AvailableProviders(), ", "))
	case "format":
		return fmt.Errorf("unsupported output format %q (use json, jsonl or yaml)", c.Format)
	}

	switch e.Tag() {
	case "url":
		return fmt.Errorf("%s must be a valid URL", e.Field())
	case "gte":
		return fmt.Errorf("%s must be at least %s", e.Field(), e.Param())
	default:
		return fmt.Errorf("%s failed validation '%s'", e.Field(), e.Tag())
	}
}
