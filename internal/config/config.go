// Package config loads practiz settings from defaults, an optional YAML
// file, an optional .env file and PRACTIZ_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/selection"
)

// Environment variables that override file settings.
const (
	EnvDB          = "PRACTIZ_DB"
	EnvDailyTarget = "PRACTIZ_DAILY_TARGET"
	EnvTimezone    = "PRACTIZ_TIMEZONE"
	EnvListen      = "PRACTIZ_LISTEN"
	EnvLogLevel    = "PRACTIZ_LOG_LEVEL"
	EnvLogFormat   = "PRACTIZ_LOG_FORMAT"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Log selects logger behavior.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Jobs configures background maintenance in serve mode.
type Jobs struct {
	// SessionIdleTimeout ends active sessions idle for longer. Zero disables
	// the reaper.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout" validate:"gte=0"`
	ReapInterval       time.Duration `yaml:"reap_interval" validate:"gt=0"`
}

// Config is the full runtime configuration.
type Config struct {
	// DB is the SQLite file path. Empty means the platform default.
	DB          string            `yaml:"db"`
	DailyTarget int               `yaml:"daily_target" validate:"gte=1,lte=100"`
	Timezone    string            `yaml:"timezone" validate:"required"`
	Listen      string            `yaml:"listen" validate:"required"`
	Log         Log               `yaml:"log"`
	Jobs        Jobs              `yaml:"jobs"`
	Weights     selection.Weights `yaml:"weights"`
	Mastery     mastery.Params    `yaml:"mastery"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DailyTarget: 10,
		Timezone:    "UTC",
		Listen:      ":8080",
		Log:         Log{Level: "info", Format: "text"},
		Jobs: Jobs{
			SessionIdleTimeout: 2 * time.Hour,
			ReapInterval:       time.Hour,
		},
		Weights: selection.DefaultWeights(),
		Mastery: mastery.DefaultParams(),
	}
}

var validate = validator.New()

// Load builds the configuration. path may be empty; a named file that does
// not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDB); ok && v != "" {
		c.DB = v
	}
	if v, ok := lookup(EnvDailyTarget); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDailyTarget, err)
		}
		c.DailyTarget = n
	}
	if v, ok := lookup(EnvTimezone); ok && v != "" {
		c.Timezone = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate checks field constraints and that the timezone resolves.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
