package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyBaseURL       = errors.New("base URL cannot be empty")
	ErrInvalidBaseURL     = errors.New("base URL must be an absolute http(s) URL")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrPollIntervalRange  = errors.New("poll interval out of range")
	ErrTimeoutRange       = errors.New("request timeout out of range")
	ErrEmptyTicketMarker  = errors.New("ticket marker cannot be empty")
	ErrEmptyProgressEntry = errors.New("progress messages contain an empty entry")
	ErrEmptyRepo          = errors.New("repository cannot be empty")
	ErrInvalidRepo        = errors.New("repository is not owner/name or a git URL")
)

// Poll interval bounds.
const (
	MinPollInterval = 100 * time.Millisecond
	MaxPollInterval = time.Minute
)

// MaxRequestTimeout bounds server.timeout.
const MaxRequestTimeout = 10 * time.Minute

// nwoRegex matches GitHub-style owner/name references.
var nwoRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*/[A-Za-z0-9._-]+$`)

// gitHTTPSRegex matches HTTPS git URLs.
var gitHTTPSRegex = regexp.MustCompile(`^https?://[^/]+/[^/]+/.+`)

// gitSSHRegex matches SSH git URLs.
var gitSSHRegex = regexp.MustCompile(`^git@[^:]+:.+/.+`)

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateBaseURL validates the backend base URL.
func ValidateBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ValidationError{
			Field:   "server.base_url",
			Message: "cannot be empty",
			Err:     ErrEmptyBaseURL,
		}
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:   "server.base_url",
			Value:   raw,
			Message: "must be an absolute http:// or https:// URL",
			Err:     ErrInvalidBaseURL,
		}
	}
	return nil
}

// ValidatePollInterval validates the planning poll interval.
func ValidatePollInterval(d time.Duration) error {
	if d < MinPollInterval || d > MaxPollInterval {
		return &ValidationError{
			Field:   "polling.interval",
			Value:   d.String(),
			Message: fmt.Sprintf("must be between %s and %s", MinPollInterval, MaxPollInterval),
			Err:     ErrPollIntervalRange,
		}
	}
	return nil
}

// ValidateRequestTimeout validates the per-request timeout.
func ValidateRequestTimeout(d time.Duration) error {
	if d <= 0 || d > MaxRequestTimeout {
		return &ValidationError{
			Field:   "server.timeout",
			Value:   d.String(),
			Message: fmt.Sprintf("must be positive and at most %s", MaxRequestTimeout),
			Err:     ErrTimeoutRange,
		}
	}
	return nil
}

// ValidateProgressMessages validates the progress message sequence.
func ValidateProgressMessages(msgs []string) error {
	for i, m := range msgs {
		if strings.TrimSpace(m) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("polling.progress_messages[%d]", i),
				Message: "cannot be empty",
				Err:     ErrEmptyProgressEntry,
			}
		}
	}
	return nil
}

// ValidateRepo validates a repository reference: owner/name or a git URL.
func ValidateRepo(repo string) error {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return &ValidationError{
			Field:   "repo",
			Message: "cannot be empty",
			Err:     ErrEmptyRepo,
		}
	}

	if nwoRegex.MatchString(repo) || gitHTTPSRegex.MatchString(repo) || gitSSHRegex.MatchString(repo) {
		return nil
	}

	return &ValidationError{
		Field:   "repo",
		Value:   repo,
		Message: "must be owner/name, https://, or git@ URL",
		Err:     ErrInvalidRepo,
	}
}

// Validate checks the effective values of c (after defaults).
func (c *GlobalConfig) Validate() error {
	if err := ValidateBaseURL(c.GetBaseURL()); err != nil {
		return err
	}
	if err := ValidatePollInterval(c.GetPollInterval()); err != nil {
		return err
	}
	if err := ValidateRequestTimeout(c.GetRequestTimeout()); err != nil {
		return err
	}
	if err := ValidateProgressMessages(c.GetProgressMessages()); err != nil {
		return err
	}
	if strings.TrimSpace(c.GetTicketMarker()) == "" {
		return &ValidationError{
			Field:   "document.ticket_marker",
			Message: "cannot be empty",
			Err:     ErrEmptyTicketMarker,
		}
	}
	if repo := c.GetRepo(); repo != "" {
		return ValidateRepo(repo)
	}
	return nil
}
