// Package config loads coursematch settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "COURSEMATCH_"

// Config holds the application settings.
type Config struct {
	// ServiceURL is the base URL of the adaptive assessment service.
	ServiceURL string `env:"SERVICE_URL" envDefault:"http://localhost:8080" validate:"required,url"`

	// ProfileURL is the base URL of the profile service. Empty means the
	// assessment service's host also serves profiles.
	ProfileURL string `env:"PROFILE_URL" validate:"omitempty,url"`

	// ProfileCompletionURL is shown when the user must finish their profile.
	ProfileCompletionURL string `env:"PROFILE_COMPLETION_URL" validate:"omitempty,url"`

	// SkipProfileCheck disables the academic-profile precondition.
	SkipProfileCheck bool `env:"SKIP_PROFILE_CHECK"`

	UserID          int64         `env:"USER_ID" validate:"gte=0"`
	MaxQuestions    int           `env:"MAX_QUESTIONS" envDefault:"30" validate:"gte=1,lte=100"`
	TransitionDelay time.Duration `env:"TRANSITION_DELAY" envDefault:"600ms" validate:"gte=0,lte=10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s" validate:"gt=0"`

	// DB overrides the database path.
	DB string `env:"DB"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogFile   string `env:"LOG_FILE"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{Prefix: EnvPrefix})
}

// LoadFrom reads the configuration from vars instead of the process
// environment. Keys include the prefix.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Prefix: EnvPrefix, Environment: vars})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. Errors name the environment variable.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s%s: failed %q (value %v)", EnvPrefix, envName(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// ProfileBaseURL returns the profile service URL, defaulting to ServiceURL.
func (c Config) ProfileBaseURL() string {
	if c.ProfileURL != "" {
		return c.ProfileURL
	}
	return c.ServiceURL
}

func envName(field string) string {
	switch field {
	case "ServiceURL":
		return "SERVICE_URL"
	case "ProfileURL":
		return "PROFILE_URL"
	case "ProfileCompletionURL":
		return "PROFILE_COMPLETION_URL"
	case "UserID":
		return "USER_ID"
	case "MaxQuestions":
		return "MAX_QUESTIONS"
	case "TransitionDelay":
		return "TRANSITION_DELAY"
	case "RequestTimeout":
		return "REQUEST_TIMEOUT"
	case "LogLevel":
		return "LOG_LEVEL"
	case "LogFormat":
		return "LOG_FORMAT"
	}
	return strings.ToUpper(field)
}
