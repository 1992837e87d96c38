package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	var nilCfg *GlobalConfig

	if got := nilCfg.GetBaseURL(); got != DefaultBaseURL {
		t.Errorf("nil GetBaseURL() = %q, want %q", got, DefaultBaseURL)
	}
	if got := nilCfg.GetPollInterval(); got != DefaultPollInterval {
		t.Errorf("nil GetPollInterval() = %v, want %v", got, DefaultPollInterval)
	}
	if got := nilCfg.GetRequestTimeout(); got != DefaultRequestTimeout {
		t.Errorf("nil GetRequestTimeout() = %v, want %v", got, DefaultRequestTimeout)
	}
	if got := nilCfg.GetTicketMarker(); got != DefaultTicketMarker {
		t.Errorf("nil GetTicketMarker() = %q, want %q", got, DefaultTicketMarker)
	}
	if got := nilCfg.GetProgressMessages(); len(got) != len(DefaultProgressMessages) {
		t.Errorf("nil GetProgressMessages() = %v", got)
	}
	if got := nilCfg.GetRepo(); got != "" {
		t.Errorf("nil GetRepo() = %q, want empty", got)
	}

	cfg := &GlobalConfig{
		LogLevel: "debug",
		Server:   ServerConfig{BaseURL: "https://plan.example.com/", Timeout: 5 * time.Second},
		Polling:  PollingConfig{Interval: 500 * time.Millisecond, ProgressMessages: []string{"one"}},
		Document: DocumentConfig{TicketMarker: "## Tickets"},
	}
	if got := cfg.GetBaseURL(); got != "https://plan.example.com" {
		t.Errorf("GetBaseURL() = %q, trailing slash should be trimmed", got)
	}
	if got := cfg.GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q", got)
	}
	if got := cfg.GetPollInterval(); got != 500*time.Millisecond {
		t.Errorf("GetPollInterval() = %v", got)
	}
	if got := cfg.GetRequestTimeout(); got != 5*time.Second {
		t.Errorf("GetRequestTimeout() = %v", got)
	}
	if got := cfg.GetTicketMarker(); got != "## Tickets" {
		t.Errorf("GetTicketMarker() = %q", got)
	}
}

func TestLoadGlobalConfigFromPath(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		cfg, err := LoadGlobalConfigFromPath(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg != nil {
			t.Errorf("expected nil config, got %+v", cfg)
		}
	})

	t.Run("decodes all sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
log_level = "warn"
repo = "org/repo"

[server]
base_url = "http://10.0.0.5:8000"
timeout = "10s"

[polling]
interval = "1s"
progress_messages = ["Cloning...", "Thinking..."]

[document]
ticket_marker = "## Ticket"
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadGlobalConfigFromPath(path)
		if err != nil {
			t.Fatalf("LoadGlobalConfigFromPath() error = %v", err)
		}
		if cfg.GetBaseURL() != "http://10.0.0.5:8000" {
			t.Errorf("base_url = %q", cfg.GetBaseURL())
		}
		if cfg.GetRequestTimeout() != 10*time.Second {
			t.Errorf("timeout = %v", cfg.GetRequestTimeout())
		}
		if cfg.GetPollInterval() != time.Second {
			t.Errorf("interval = %v", cfg.GetPollInterval())
		}
		if got := cfg.GetProgressMessages(); len(got) != 2 || got[1] != "Thinking..." {
			t.Errorf("progress_messages = %v", got)
		}
		if cfg.GetTicketMarker() != "## Ticket" {
			t.Errorf("ticket_marker = %q", cfg.GetTicketMarker())
		}
		if cfg.GetRepo() != "org/repo" || cfg.GetLogLevel() != "warn" {
			t.Errorf("repo/log_level = %q/%q", cfg.GetRepo(), cfg.GetLogLevel())
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("invalid toml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("log_level = "), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadGlobalConfigFromPath(path); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestWithEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://override:9000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvPollInterval, "250ms")
	t.Setenv(EnvRequestTimeout, "")
	t.Setenv(EnvRepo, "")

	base := &GlobalConfig{
		Server:  ServerConfig{BaseURL: "http://file:8000", Timeout: 3 * time.Second},
		Polling: PollingConfig{ProgressMessages: []string{"a"}},
	}
	cfg, err := base.WithEnv()
	if err != nil {
		t.Fatalf("WithEnv() error = %v", err)
	}

	if cfg.GetBaseURL() != "http://override:9000" {
		t.Errorf("base url = %q, env should win", cfg.GetBaseURL())
	}
	if cfg.GetPollInterval() != 250*time.Millisecond {
		t.Errorf("interval = %v", cfg.GetPollInterval())
	}
	if cfg.GetRequestTimeout() != 3*time.Second {
		t.Errorf("timeout = %v, file value should survive", cfg.GetRequestTimeout())
	}
	if base.Server.BaseURL != "http://file:8000" {
		t.Error("WithEnv mutated its receiver")
	}

	var nilCfg *GlobalConfig
	cfg, err = nilCfg.WithEnv()
	if err != nil || cfg == nil {
		t.Fatalf("nil WithEnv() = %v, %v", cfg, err)
	}
	if cfg.GetLogLevel() != "debug" {
		t.Errorf("log level = %q", cfg.GetLogLevel())
	}
}

func TestWithEnv_BadDuration(t *testing.T) {
	t.Setenv(EnvPollInterval, "soon")

	_, err := (&GlobalConfig{}).WithEnv()
	if err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	if err := LoadEnvFile(filepath.Join(dir, ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PRDCHAT_BASE_URL=http://from-dotenv:8000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvBaseURL, "")
	os.Unsetenv(EnvBaseURL)

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv(EnvBaseURL); got != "http://from-dotenv:8000" {
		t.Errorf("%s = %q", EnvBaseURL, got)
	}
}
