// Package session implements the client-side state machine for a PRD
// planning conversation.
//
// A Session is a plain value mutated only through Handle. Each Event maps to
// one transition and yields the Effects the driver must carry out. Drivers
// (the TUI, or Runner for headless use) apply events from a single
// goroutine, so Session itself does no locking.
package session

import (
	"strings"
	"time"

	"github.com/tessro/prdchat/internal/config"
	"github.com/tessro/prdchat/internal/document"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusPlanning        Status = "planning"
	StatusChatting        Status = "chatting"
	StatusReadyForTickets Status = "ready_for_tickets"
	StatusError           Status = "error"
)

// Author identifies who wrote a transcript message.
type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

// Message is one transcript entry.
type Message struct {
	Text   string
	Author Author
}

// errorPrefix starts every bot message that reports a failure.
const errorPrefix = "Error: "

// Options tune a Session. Zero values fall back to the config defaults.
type Options struct {
	PollInterval     time.Duration
	ProgressMessages []string
	TicketMarker     string
}

// OptionsFromConfig builds Options from the effective configuration.
func OptionsFromConfig(cfg *config.GlobalConfig) Options {
	return Options{
		PollInterval:     cfg.GetPollInterval(),
		ProgressMessages: cfg.GetProgressMessages(),
		TicketMarker:     cfg.GetTicketMarker(),
	}
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = config.DefaultPollInterval
	}
	if o.ProgressMessages == nil {
		o.ProgressMessages = config.DefaultProgressMessages
	}
	if o.TicketMarker == "" {
		o.TicketMarker = config.DefaultTicketMarker
	}
	return o
}

// pollState tracks the planning poller.
type pollState struct {
	active bool
	// gen identifies the current poll loop; ticks and results from other
	// generations are stale.
	gen int
	// next is the index of the next progress message to show.
	next int
	// lastStatus is the most recent backend status string.
	lastStatus string
}

// Session is the state of one planning conversation.
type Session struct {
	opts Options

	id      string
	status  Status
	feature string
	repo    string

	transcript []Message

	document    string
	hasDocument bool

	chatInFlight bool
	poll         pollState
	closed       bool
}

// New creates an idle session.
func New(opts Options) *Session {
	return &Session{
		opts:   opts.withDefaults(),
		status: StatusIdle,
	}
}

// ID returns the backend session id, empty until assigned.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Repo returns the repository reference the session was started with.
func (s *Session) Repo() string { return s.repo }

// Feature returns the feature description the session was started with.
func (s *Session) Feature() string { return s.feature }

// Transcript returns a copy of the message sequence.
func (s *Session) Transcript() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the number of transcript messages.
func (s *Session) Len() int { return len(s.transcript) }

// Document returns the detected requirements document.
func (s *Session) Document() (string, bool) { return s.document, s.hasDocument }

// ChatInFlight reports whether a chat turn is awaiting its reply.
func (s *Session) ChatInFlight() bool { return s.chatInFlight }

// Polling reports whether the planning poller is active.
func (s *Session) Polling() bool { return s.poll.active }

// PlanningStatus returns the last status string reported by the backend.
func (s *Session) PlanningStatus() string { return s.poll.lastStatus }

// Closed reports whether Teardown has been applied.
func (s *Session) Closed() bool { return s.closed }

// CanChat reports whether a chat turn would currently be accepted
// (ignoring the text itself).
func (s *Session) CanChat() bool {
	return !s.closed && !s.chatInFlight && s.status != StatusPlanning
}

// CanStart reports whether StartRequested would currently be accepted
// (ignoring its inputs).
func (s *Session) CanStart() bool {
	if s.closed || s.chatInFlight {
		return false
	}
	return s.status == StatusIdle || (s.status == StatusError && s.id == "")
}

// Snapshot returns an immutable copy of the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:             s.id,
		Status:         s.status,
		Feature:        s.feature,
		Repo:           s.repo,
		Transcript:     s.Transcript(),
		Document:       s.document,
		HasDocument:    s.hasDocument,
		ChatInFlight:   s.chatInFlight,
		Polling:        s.poll.active,
		PlanningStatus: s.poll.lastStatus,
		Closed:         s.closed,
	}
}

// Snapshot is a point-in-time copy of a Session, safe to share across
// goroutines.
type Snapshot struct {
	ID             string
	Status         Status
	Feature        string
	Repo           string
	Transcript     []Message
	Document       string
	HasDocument    bool
	ChatInFlight   bool
	Polling        bool
	PlanningStatus string
	Closed         bool
}

// TicketRequest returns the inputs for ticket creation. It fails with
// ErrNoDocument before a document has been detected, so no request is
// ever issued without one.
func (s Snapshot) TicketRequest() (prd, repo string, err error) {
	if !s.HasDocument || strings.TrimSpace(s.Document) == "" {
		return "", "", ErrNoDocument
	}
	if strings.TrimSpace(s.Repo) == "" {
		return "", "", ErrEmptyRepo
	}
	return s.Document, s.Repo, nil
}

// Export returns the detected document ready to be written to disk.
func (s Snapshot) Export(now time.Time) (document.Export, error) {
	if !s.HasDocument {
		return document.Export{}, ErrNoDocument
	}
	return document.Export{
		SessionID:  s.ID,
		Repo:       s.Repo,
		Feature:    s.Feature,
		ExportedAt: now,
		Body:       s.Document,
	}, nil
}

// TicketRequest is Snapshot().TicketRequest() without the copy.
func (s *Session) TicketRequest() (prd, repo string, err error) {
	return Snapshot{Document: s.document, HasDocument: s.hasDocument, Repo: s.repo}.TicketRequest()
}
