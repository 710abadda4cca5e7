// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config is the desk client configuration.
type Config struct {
	// APIURL is the base URL of the ticket service, without the /api
	// prefix. Default: http://localhost:5000
	APIURL string `yaml:"api_url" json:"api_url"`

	// Wire selects the request/response body format: "json" or "cbor".
	Wire string `yaml:"wire" json:"wire"`

	// RequestTimeout bounds every API request (Go duration syntax).
	// Default: 10s
	RequestTimeout string `yaml:"request_timeout" json:"request_timeout"`

	// ConfirmClose delays the "Ticket closed!" notification until the
	// service confirms the close. When false the notification and the
	// navigation to the ticket list happen immediately.
	ConfirmClose bool `yaml:"confirm_close" json:"confirm_close"`

	// ToastDuration is how long notifications stay on screen.
	// Default: 4s
	ToastDuration string `yaml:"toast_duration" json:"toast_duration"`

	// LogFile receives JSON logs while the TUI runs. Empty disables
	// file logging; the TUI owns the terminal.
	LogFile string `yaml:"log_file" json:"log_file"`

	// LogLevel is one of debug, info, warn, error. Default: info
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SessionFile overrides the session file location.
	SessionFile string `yaml:"session_file" json:"session_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		APIURL:         "http://localhost:5000",
		Wire:           "json",
		RequestTimeout: "10s",
		ToastDuration:  "4s",
		LogLevel:       "info",
	}
}

// Load loads configuration from the file named by DESK_CONFIG. When
// the variable is unset the defaults are used, still subject to .env
// and environment overrides.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	path := os.Getenv("DESK_CONFIG")
	if path == "" {
		cfg := Default()
		if err := cfg.finish(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return loadFile(path)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return loadFile(path)
}

func loadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if err := c.applyEnvironment(); err != nil {
		return err
	}
	c.expandVariables()
	return nil
}

// loadDotEnv reads ./.env when it exists. godotenv.Load never
// overwrites variables that are already set.
func loadDotEnv() error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config extension %q (expected .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnvironment() error {
	if value := os.Getenv("DESK_API_URL"); value != "" {
		c.APIURL = value
	}
	if value := os.Getenv("DESK_WIRE"); value != "" {
		c.Wire = value
	}
	if value := os.Getenv("DESK_LOG_LEVEL"); value != "" {
		c.LogLevel = value
	}
	if value := os.Getenv("DESK_CONFIRM_CLOSE"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("DESK_CONFIRM_CLOSE: %w", err)
		}
		c.ConfirmClose = enabled
	}
	return nil
}

func (c *Config) expandVariables() {
	c.LogFile = expandVars(c.LogFile)
	c.SessionFile = expandVars(c.SessionFile)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url is required"))
	} else if parsed, err := url.Parse(c.APIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q is not an absolute URL", c.APIURL))
	}

	switch strings.ToLower(c.Wire) {
	case "json", "cbor":
	default:
		errs = append(errs, fmt.Errorf("wire must be json or cbor, got %q", c.Wire))
	}

	if _, err := positiveDuration(c.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("request_timeout: %w", err))
	}
	if _, err := positiveDuration(c.ToastDuration); err != nil {
		errs = append(errs, fmt.Errorf("toast_duration: %w", err))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	return errors.Join(errs...)
}

// Timeout returns RequestTimeout as a duration, or 10s if it does not
// parse. Call Validate first to reject bad values.
func (c *Config) Timeout() time.Duration {
	if duration, err := positiveDuration(c.RequestTimeout); err == nil {
		return duration
	}
	return 10 * time.Second
}

// Toast returns ToastDuration as a duration, or 4s if it does not
// parse.
func (c *Config) Toast() time.Duration {
	if duration, err := positiveDuration(c.ToastDuration); err == nil {
		return duration
	}
	return 4 * time.Second
}

// Level returns LogLevel as a slog level, or Info if it does not parse.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to
// slog levels. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", name)
	}
}

func positiveDuration(value string) (time.Duration, error) {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", value)
	}
	return duration, nil
}
