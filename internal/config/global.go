// Package config provides configuration loading and validation for prdchat.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/tessro/prdchat/internal/paths"
)

// Environment variables that override the config file.
const (
	EnvBaseURL        = "PRDCHAT_BASE_URL"
	EnvLogLevel       = "PRDCHAT_LOG_LEVEL"
	EnvPollInterval   = "PRDCHAT_POLL_INTERVAL"
	EnvRequestTimeout = "PRDCHAT_REQUEST_TIMEOUT"
	EnvRepo           = "PRDCHAT_REPO"
)

// Defaults applied when neither the config file nor the environment set a value.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultLogLevel       = "info"
	DefaultPollInterval   = 2 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultTicketMarker   = "### Ticket"
)

// DefaultProgressMessages are shown, in order, while the backend reports
// that planning is still in progress.
var DefaultProgressMessages = []string{
	"Cloning repository...",
	"Analyzing repository structure...",
	"Identifying relevant files...",
	"Drafting initial plan...",
}

// GlobalConfig represents the prdchat configuration file.
type GlobalConfig struct {
	// LogLevel controls log verbosity ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	// Repo is the default repository reference for new sessions.
	Repo string `toml:"repo"`

	Server   ServerConfig   `toml:"server"`
	Polling  PollingConfig  `toml:"polling"`
	Document DocumentConfig `toml:"document"`
}

// ServerConfig describes how to reach the planning backend.
type ServerConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

// PollingConfig controls the planning status poller.
type PollingConfig struct {
	Interval         time.Duration `toml:"interval"`
	ProgressMessages []string      `toml:"progress_messages"`
}

// DocumentConfig controls requirements document detection.
type DocumentConfig struct {
	// TicketMarker is the string whose presence in a bot reply means the
	// previous bot reply was the finished document.
	TicketMarker string `toml:"ticket_marker"`
}

// LoadGlobalConfig loads the config from the default location.
// Returns nil config and nil error if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	path, err := paths.ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadGlobalConfigFromPath(path)
}

// LoadGlobalConfigFromPath loads the config from a specific path.
// Returns nil config and nil error if the file doesn't exist.
func LoadGlobalConfigFromPath(path string) (*GlobalConfig, error) {
	var cfg GlobalConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are left alone. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// WithEnv returns a copy of c with environment overrides applied.
// Works on a nil receiver. Malformed duration overrides are reported as a
// *ValidationError.
func (c *GlobalConfig) WithEnv() (*GlobalConfig, error) {
	out := GlobalConfig{}
	if c != nil {
		out = *c
		out.Polling.ProgressMessages = append([]string(nil), c.Polling.ProgressMessages...)
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		out.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		out.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRepo)); v != "" {
		out.Repo = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPollInterval)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, &ValidationError{Field: "polling.interval", Value: v, Message: "not a duration", Err: ErrInvalidDuration}
		}
		out.Polling.Interval = d
	}
	if v := strings.TrimSpace(os.Getenv(EnvRequestTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, &ValidationError{Field: "server.timeout", Value: v, Message: "not a duration", Err: ErrInvalidDuration}
		}
		out.Server.Timeout = d
	}
	return &out, nil
}

// GetBaseURL returns the configured backend URL or the local default.
func (c *GlobalConfig) GetBaseURL() string {
	if c != nil && c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return DefaultBaseURL
}

// GetLogLevel returns the configured log level or the default.
func (c *GlobalConfig) GetLogLevel() string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// GetPollInterval returns the planning poll interval or the default.
func (c *GlobalConfig) GetPollInterval() time.Duration {
	if c != nil && c.Polling.Interval > 0 {
		return c.Polling.Interval
	}
	return DefaultPollInterval
}

// GetRequestTimeout returns the per-request HTTP timeout or the default.
func (c *GlobalConfig) GetRequestTimeout() time.Duration {
	if c != nil && c.Server.Timeout > 0 {
		return c.Server.Timeout
	}
	return DefaultRequestTimeout
}

// GetProgressMessages returns the planning progress sequence or the default.
func (c *GlobalConfig) GetProgressMessages() []string {
	if c != nil && len(c.Polling.ProgressMessages) > 0 {
		return c.Polling.ProgressMessages
	}
	return DefaultProgressMessages
}

// GetTicketMarker returns the document detection marker or the default.
func (c *GlobalConfig) GetTicketMarker() string {
	if c != nil && c.Document.TicketMarker != "" {
		return c.Document.TicketMarker
	}
	return DefaultTicketMarker
}

// GetRepo returns the default repository reference, which may be empty.
func (c *GlobalConfig) GetRepo() string {
	if c == nil {
		return ""
	}
	return c.Repo
}
