package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "config/config.yaml"
	DefaultBaseURL    = "http://api.openweathermap.org/data/2.5/weather"
)

// Config is resolved in order: defaults, YAML file, .env, environment.
// A later source only overrides keys it actually sets.
type Config struct {
	AppName        string        `envconfig:"APP_NAME" yaml:"app_name" validate:"required"`
	AppEnv         string        `envconfig:"APP_ENV" yaml:"app_env" validate:"required"`
	APIKey         string        `envconfig:"OPENWEATHER_API_KEY" yaml:"api_key"`
	BaseURL        string        `envconfig:"OPENWEATHER_BASE_URL" yaml:"base_url" validate:"required,url"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" yaml:"http_timeout" validate:"gte=0"`
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" yaml:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" yaml:"rate_limit_burst" validate:"gte=1"`
	SaveEnabled    bool          `envconfig:"SAVE_ENABLED" yaml:"save_enabled"`
	SaveDir        string        `envconfig:"SAVE_DIR" yaml:"save_dir" validate:"required"`
	HistoryDB      string        `envconfig:"HISTORY_DB" yaml:"history_db"`
	LogLevel       string        `envconfig:"LOG_LEVEL" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile        string        `envconfig:"LOG_FILE" yaml:"log_file"`
	SentryDSN      string        `envconfig:"SENTRY_DSN" yaml:"sentry_dsn"`
}

func Default() Config {
	return Config{
		AppName:        "weather-cli",
		AppEnv:         "local",
		BaseURL:        DefaultBaseURL,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
		SaveEnabled:    true,
		SaveDir:        ".",
		LogLevel:       "error",
	}
}

// NewConfig loads the file named by CONFIG_FILE, or config/config.yaml.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}
	return Load(path, ".env")
}

// Load resolves the configuration. Missing files are not an error.
func Load(yamlPath, envPath string) (*Config, error) {
	cnf := Default()

	if err := loadYAML(yamlPath, &cnf); err != nil {
		return nil, err
	}

	if envPath != "" {
		// godotenv never overrides variables already present in the environment.
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "load %s", envPath)
		}
	}

	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return &cnf, nil
}

func loadYAML(path string, cnf *Config) error {
	if path == "" {
		return nil
	}
	yamlData, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// HistoryEnabled reports whether lookups are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.HistoryDB != ""
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
