package config

import (
	"errors"
	"testing"
	"time"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"http localhost", "http://localhost:8000", nil},
		{"https host", "https://plan.example.com", nil},
		{"with path", "https://example.com/api", nil},
		{"empty", "", ErrEmptyBaseURL},
		{"whitespace", "   ", ErrEmptyBaseURL},
		{"no scheme", "localhost:8000", ErrInvalidBaseURL},
		{"ftp scheme", "ftp://example.com", ErrInvalidBaseURL},
		{"no host", "http://", ErrInvalidBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateBaseURL(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBaseURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRepo(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr error
	}{
		{"owner/name", "org/repo", nil},
		{"dotted name", "my-org/my.repo", nil},
		{"https url", "https://github.com/org/repo", nil},
		{"ssh url", "git@github.com:org/repo.git", nil},
		{"empty", "", ErrEmptyRepo},
		{"bare name", "repo", ErrInvalidRepo},
		{"too many segments", "a/b/c", ErrInvalidRepo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepo(tt.repo)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRepo(%q) = %v, want nil", tt.repo, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRepo(%q) = %v, want %v", tt.repo, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDurations(t *testing.T) {
	if err := ValidatePollInterval(2 * time.Second); err != nil {
		t.Errorf("2s interval: %v", err)
	}
	if err := ValidatePollInterval(10 * time.Millisecond); !errors.Is(err, ErrPollIntervalRange) {
		t.Errorf("10ms interval: got %v", err)
	}
	if err := ValidatePollInterval(2 * time.Minute); !errors.Is(err, ErrPollIntervalRange) {
		t.Errorf("2m interval: got %v", err)
	}
	if err := ValidateRequestTimeout(30 * time.Second); err != nil {
		t.Errorf("30s timeout: %v", err)
	}
	if err := ValidateRequestTimeout(time.Hour); !errors.Is(err, ErrTimeoutRange) {
		t.Errorf("1h timeout: got %v", err)
	}
}

func TestValidate(t *testing.T) {
	var nilCfg *GlobalConfig
	if err := nilCfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	tests := []struct {
		name    string
		cfg     *GlobalConfig
		wantErr error
	}{
		{"bad url", &GlobalConfig{Server: ServerConfig{BaseURL: "nope"}}, ErrInvalidBaseURL},
		{"fast poll", &GlobalConfig{Polling: PollingConfig{Interval: time.Millisecond}}, ErrPollIntervalRange},
		{"blank progress", &GlobalConfig{Polling: PollingConfig{ProgressMessages: []string{"ok", " "}}}, ErrEmptyProgressEntry},
		{"blank marker", &GlobalConfig{Document: DocumentConfig{TicketMarker: "  "}}, ErrEmptyTicketMarker},
		{"bad repo", &GlobalConfig{Repo: "not a repo"}, ErrInvalidRepo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Validate() error is not a *ValidationError: %T", err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "repo", Value: "x", Message: "bad"}
	if err.Error() != `repo: bad (got "x")` {
		t.Errorf("Error() = %q", err.Error())
	}
	err = &ValidationError{Field: "repo", Message: "cannot be empty"}
	if err.Error() != "repo: cannot be empty" {
		t.Errorf("Error() = %q", err.Error())
	}
}
