// Package transport is the HTTP/JSON client for the PRD planning backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// Operation names used in errors and logs.
const (
	OpStartPlanning  = "start planning"
	OpPlanningStatus = "planning status"
	OpChat           = "chat"
	OpCreateTickets  = "create tickets"
)

// Planning statuses with special meaning. Any other value means the
// backend is still working.
const (
	StatusReady = "ready"
	StatusError = "error"
)

// StartResult is the response to a start planning request.
type StartResult struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// PlanningState is one observation of the backend's planning progress.
type PlanningState struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
}

// Terminal reports whether polling should stop after this state.
func (s PlanningState) Terminal() bool {
	return s.Status == StatusReady || s.Status == StatusError
}

// ChatReply is the response to a chat turn.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type startRequest struct {
	FeatureDescription string `json:"feature_description"`
	RepoURL            string `json:"repo_url"`
}

type chatRequest struct {
	Text      string  `json:"text"`
	SessionID *string `json:"session_id"`
}

type ticketsRequest struct {
	PRD  string `json:"prd"`
	Repo string `json:"repo"`
}

type ticketsResponse struct {
	TicketURLs []string `json:"ticket_urls"`
}

// Client talks to the planning backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StartPlanning asks the backend to analyze repo for the given feature.
func (c *Client) StartPlanning(ctx context.Context, feature, repo string) (*StartResult, error) {
	var out StartResult
	body := startRequest{FeatureDescription: feature, RepoURL: repo}
	if err := c.do(ctx, OpStartPlanning, http.MethodPost, "/start_planning", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlanningStatus fetches the current planning state for a session.
func (c *Client) PlanningStatus(ctx context.Context, sessionID string) (*PlanningState, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	var out PlanningState
	path := "/planning_status/" + url.PathEscape(sessionID)
	if err := c.do(ctx, OpPlanningStatus, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one chat turn. An empty sessionID is sent as null so the
// backend creates a new session.
func (c *Client) Chat(ctx context.Context, text, sessionID string) (*ChatReply, error) {
	req := chatRequest{Text: text}
	if sessionID != "" {
		req.SessionID = &sessionID
	}
	var out ChatReply
	if err := c.do(ctx, OpChat, http.MethodPost, "/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTickets asks the backend to file tickets for prd against repo and
// returns the created ticket URLs.
func (c *Client) CreateTickets(ctx context.Context, prd, repo string) ([]string, error) {
	var out ticketsResponse
	if err := c.do(ctx, OpCreateTickets, http.MethodPost, "/create_tickets", ticketsRequest{PRD: prd, Repo: repo}, &out); err != nil {
		return nil, err
	}
	return out.TicketURLs, nil
}

// do performs a JSON request and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("backend request failed", "op", op, "request_id", requestID, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	slog.Debug("backend request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}
