// Package fakebackend is an in-process stand-in for the planning service.
// It serves the same JSON routes with canned behavior so the client can be
// exercised end to end without the real backend.
package fakebackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultPlanningPolls is how many status polls report in_progress before
// a session becomes ready.
const DefaultPlanningPolls = 2

// Options configure a Server.
type Options struct {
	// PlanningPolls status polls report in_progress before ready.
	PlanningPolls int
	// FailPlanning makes every session report status error once planning
	// completes.
	FailPlanning bool
	// TicketBaseURL prefixes the fake issue URLs returned by create_tickets.
	TicketBaseURL string
}

type fakeSession struct {
	feature string
	repo    string
	polls   int
	turns   int
}

// Server implements the planning routes in memory.
type Server struct {
	opts   Options
	router *chi.Mux

	mu       sync.Mutex
	sessions map[string]*fakeSession
	tickets  int

	requests atomic.Int64
}

// New creates a server.
func New(opts Options) *Server {
	if opts.PlanningPolls < 0 {
		opts.PlanningPolls = 0
	}
	if opts.TicketBaseURL == "" {
		opts.TicketBaseURL = "https://github.com"
	}

	s := &Server{
		opts:     opts,
		sessions: make(map[string]*fakeSession),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/start_planning", s.startPlanning)
	r.Get("/planning_status/{sessionID}", s.planningStatus)
	r.Post("/chat", s.chat)
	r.Post("/create_tickets", s.createTickets)
	r.Get("/health", s.health)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Requests returns how many requests have been served.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("fake backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("fake backend request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
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

func (s *Server) startPlanning(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}
	feature := strings.TrimSpace(req.FeatureDescription)
	repo := strings.TrimSpace(req.RepoURL)
	if feature == "" || repo == "" {
		writeError(w, http.StatusUnprocessableEntity, "feature_description and repo_url are required")
		return
	}

	id := s.newSession(feature, repo)
	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": id,
		"response":   fmt.Sprintf("Started planning %q against %s.", feature, repo),
	})
}

func (s *Server) planningStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	sess, ok := s.sessions[id]
	var polls int
	if ok {
		sess.polls++
		polls = sess.polls
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown session "+id)
		return
	}

	switch {
	case polls <= s.opts.PlanningPolls:
		writeJSON(w, http.StatusOK, map[string]string{"status": "in_progress"})
	case s.opts.FailPlanning:
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "response": "repository analysis failed"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ready",
			"response": planFor(sess.feature, sess.repo),
		})
	}
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}

	var id string
	if req.SessionID != nil {
		id = *req.SessionID
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		if id != "" {
			s.mu.Unlock()
			writeError(w, http.StatusNotFound, "unknown session "+id)
			return
		}
		id = uuid.NewString()
		sess = &fakeSession{feature: text}
		s.sessions[id] = sess
	}
	sess.turns++
	feature := sess.feature
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": id,
		"response":   replyTo(text, feature),
	})
}

func (s *Server) createTickets(w http.ResponseWriter, r *http.Request) {
	var req ticketsRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PRD) == "" || strings.TrimSpace(req.Repo) == "" {
		writeError(w, http.StatusUnprocessableEntity, "prd and repo are required")
		return
	}

	count := strings.Count(req.PRD, "\n## ") + 1
	repo := strings.TrimSuffix(strings.TrimPrefix(req.Repo, "https://github.com/"), ".git")

	s.mu.Lock()
	urls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s.tickets++
		urls = append(urls, fmt.Sprintf("%s/%s/issues/%d", s.opts.TicketBaseURL, repo, s.tickets))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string][]string{"ticket_urls": urls})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) newSession(feature, repo string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &fakeSession{feature: feature, repo: repo}
	s.mu.Unlock()
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("fake backend: encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
