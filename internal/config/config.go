package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read from the working directory when present
const DefaultEnvFile = ".env"

// Config represents application configuration
type Config struct {
	API      APIConfig
	Username string
	Notify   NotifyConfig
	Lock     LockConfig
	Log      LogConfig
}

// APIConfig represents Puzzle API configuration
type APIConfig struct {
	Endpoint       string // GraphQL endpoint, e.g. https://puzzle.example.com/api/graphql
	RequestTimeout string
}

// NotifyConfig represents desktop notification configuration
type NotifyConfig struct {
	AppName string
	Icon    string
	Timeout string
}

// LockConfig represents single-instance lock configuration
type LockConfig struct {
	StaleAfter string // Only used by the exclusive-create lock (Windows)
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string // Empty means console (stderr)
	Level string
}

// Load reads configuration from the environment. Values from envFile
// (dotenv format) are used when the variable is not set in the process
// environment. A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("request_timeout", "30s")
	v.SetDefault("notify_app_name", "Puzzle")
	v.SetDefault("notify_icon", "puzzle.png")
	v.SetDefault("notify_timeout", "10s")
	v.SetDefault("lock_stale_after", "30m")
	v.SetDefault("log_level", "info")

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	// Read environment variables
	v.AutomaticEnv()

	cfg := Config{
		API: APIConfig{
			Endpoint:       firstNonEmpty(v.GetString("api_endpoint"), v.GetString("puzzle_api")),
			RequestTimeout: v.GetString("request_timeout"),
		},
		Username: firstNonEmpty(v.GetString("username_override"), v.GetString("puzzle_username")),
		Notify: NotifyConfig{
			AppName: v.GetString("notify_app_name"),
			Icon:    v.GetString("notify_icon"),
			Timeout: v.GetString("notify_timeout"),
		},
		Lock: LockConfig{
			StaleAfter: v.GetString("lock_stale_after"),
		},
		Log: LogConfig{
			File:  v.GetString("log_file"),
			Level: v.GetString("log_level"),
		},
	}

	if cfg.Username == "" {
		login, err := currentLogin()
		if err != nil {
			return nil, err
		}
		cfg.Username = login
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}

	return nil
}

// CheckEndpoint reports a missing or malformed endpoint. It is advisory:
// a bad endpoint makes the fetch fail, and every day counts as unreported.
func (c *APIConfig) CheckEndpoint() error {
	if c.Endpoint == "" {
		return fmt.Errorf("API_ENDPOINT is not set")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("API_ENDPOINT is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_ENDPOINT must be http or https, got '%s'", u.Scheme)
	}
	return nil
}

// GetRequestTimeout returns the API request timeout
func (c *APIConfig) GetRequestTimeout() time.Duration {
	return parseDuration(c.RequestTimeout, 30*time.Second)
}

// GetTimeout returns how long a notification stays on screen
func (c *NotifyConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetStaleAfter returns the age after which a leftover lock file is ignored.
// "0" disables the check.
func (c *LockConfig) GetStaleAfter() time.Duration {
	return parseDuration(c.StaleAfter, 30*time.Minute)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		return fallback
	}
	return duration
}

// currentLogin returns the OS login without a Windows domain prefix
func currentLogin() (string, error) {
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if name == "" {
		name = firstNonEmpty(os.Getenv("USER"), os.Getenv("USERNAME"))
	}
	if name == "" {
		return "", fmt.Errorf("failed to determine current user, set USERNAME_OVERRIDE")
	}
	return stripDomain(name), nil
}

func stripDomain(login string) string {
	if idx := strings.LastIndex(login, `\`); idx >= 0 {
		return login[idx+1:]
	}
	return login
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
