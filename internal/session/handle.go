package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tessro/prdchat/internal/document"
	"github.com/tessro/prdchat/internal/transport"
)

// Handle applies one event and returns the effects the driver must carry
// out. A non-nil error means the request was rejected and the session is
// unchanged. Completions that are no longer relevant (stale poll
// generations, results after Teardown) are dropped silently.
func (s *Session) Handle(ev Event) ([]Effect, error) {
	switch ev := ev.(type) {
	case StartRequested:
		return s.handleStartRequested(ev)
	case StartSucceeded:
		return s.handleStartSucceeded(ev), nil
	case StartFailed:
		return s.handleStartFailed(ev), nil
	case PollTick:
		return s.handlePollTick(ev), nil
	case PollSucceeded:
		return s.handlePollSucceeded(ev), nil
	case PollFailed:
		return s.handlePollFailed(ev), nil
	case ChatRequested:
		return s.handleChatRequested(ev)
	case ChatSucceeded:
		return s.handleChatSucceeded(ev), nil
	case ChatFailed:
		return s.handleChatFailed(ev), nil
	case Teardown:
		return s.handleTeardown(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

func (s *Session) handleStartRequested(ev StartRequested) ([]Effect, error) {
	feature := strings.TrimSpace(ev.Feature)
	repo := strings.TrimSpace(ev.Repo)
	switch {
	case s.closed:
		return nil, ErrClosed
	case feature == "":
		return nil, ErrEmptyFeature
	case repo == "":
		return nil, ErrEmptyRepo
	case !s.CanStart():
		return nil, ErrAlreadyStarted
	}

	s.feature = feature
	s.repo = repo
	s.appendBot(fmt.Sprintf("Analyzing %s for: %s", repo, feature))
	s.setStatus(StatusPlanning)

	return []Effect{StartPlanning{Feature: feature, Repo: repo}}, nil
}

func (s *Session) handleStartSucceeded(ev StartSucceeded) []Effect {
	if s.closed || s.status != StatusPlanning {
		return nil
	}

	s.setID(ev.SessionID)
	if strings.TrimSpace(ev.Response) != "" {
		s.appendBot(ev.Response)
	}

	if s.id == "" {
		s.appendBot(errorPrefix + "the server did not return a session id")
		s.setStatus(StatusError)
		return nil
	}

	s.poll = pollState{active: true, gen: s.poll.gen + 1}
	slog.Info("planning started", "session_id", s.id, "repo", s.repo)
	return []Effect{SchedulePoll{Gen: s.poll.gen, After: s.opts.PollInterval}}
}

func (s *Session) handleStartFailed(ev StartFailed) []Effect {
	if s.closed || s.status != StatusPlanning {
		return nil
	}
	s.appendBot(errorPrefix + describe(ev.Err))
	s.setStatus(StatusError)
	return nil
}

// pollRelevant reports whether a tick or result for gen may be applied.
// Polling only ever applies while the session is still planning.
func (s *Session) pollRelevant(gen int) bool {
	return !s.closed && s.poll.active && s.poll.gen == gen && s.status == StatusPlanning
}

func (s *Session) handlePollTick(ev PollTick) []Effect {
	if !s.pollRelevant(ev.Gen) {
		return nil
	}
	return []Effect{FetchStatus{Gen: ev.Gen, SessionID: s.id}}
}

func (s *Session) handlePollSucceeded(ev PollSucceeded) []Effect {
	if !s.pollRelevant(ev.Gen) {
		return nil
	}
	s.poll.lastStatus = ev.State.Status

	switch ev.State.Status {
	case transport.StatusReady:
		if strings.TrimSpace(ev.State.Response) != "" {
			s.appendBot(ev.State.Response)
		}
		s.setStatus(StatusChatting)
		return s.stopPolling()

	case transport.StatusError:
		detail := strings.TrimSpace(ev.State.Response)
		if detail == "" {
			detail = "planning failed"
		}
		s.appendBot(errorPrefix + detail)
		s.setStatus(StatusError)
		return s.stopPolling()

	default:
		s.appendProgress()
		return []Effect{SchedulePoll{Gen: s.poll.gen, After: s.opts.PollInterval}}
	}
}

func (s *Session) handlePollFailed(ev PollFailed) []Effect {
	if !s.pollRelevant(ev.Gen) {
		return nil
	}
	s.appendBot(errorPrefix + describe(ev.Err))
	s.setStatus(StatusError)
	return s.stopPolling()
}

// appendProgress shows the next progress message. The last message is
// held once the sequence is exhausted, and a message equal to the latest
// transcript entry is never appended again.
func (s *Session) appendProgress() {
	msgs := s.opts.ProgressMessages
	if len(msgs) == 0 {
		return
	}
	idx := s.poll.next
	if idx >= len(msgs) {
		idx = len(msgs) - 1
	} else {
		s.poll.next++
	}
	text := msgs[idx]
	if n := len(s.transcript); n > 0 && s.transcript[n-1].Text == text {
		return
	}
	s.appendBot(text)
}

func (s *Session) stopPolling() []Effect {
	if !s.poll.active {
		return nil
	}
	s.poll.active = false
	slog.Debug("planning poller stopped", "session_id", s.id, "status", s.status)
	return []Effect{CancelPoll{}}
}

func (s *Session) handleChatRequested(ev ChatRequested) ([]Effect, error) {
	text := strings.TrimSpace(ev.Text)
	switch {
	case s.closed:
		return nil, ErrClosed
	case text == "":
		return nil, ErrEmptyMessage
	case s.chatInFlight:
		return nil, ErrTurnInFlight
	case s.status == StatusPlanning:
		return nil, ErrPlanningInProgress
	}

	s.appendUser(text)
	s.chatInFlight = true
	return []Effect{SendChat{Text: text, SessionID: s.id}}, nil
}

func (s *Session) handleChatSucceeded(ev ChatSucceeded) []Effect {
	if s.closed || !s.chatInFlight {
		return nil
	}
	s.chatInFlight = false
	s.appendBot(ev.Response)
	s.setID(ev.SessionID)

	if !s.hasDocument {
		if doc, ok := document.Extract(s.entries(), s.opts.TicketMarker); ok {
			s.document = doc
			s.hasDocument = true
			slog.Info("requirements document detected", "session_id", s.id, "length", len(doc))
		}
	}

	if s.hasDocument {
		s.setStatus(StatusReadyForTickets)
	} else {
		s.setStatus(StatusChatting)
	}
	return nil
}

func (s *Session) handleChatFailed(ev ChatFailed) []Effect {
	if s.closed || !s.chatInFlight {
		return nil
	}
	s.chatInFlight = false
	s.appendBot(errorPrefix + describe(ev.Err))
	// ready_for_tickets is sticky: the document already exists.
	if !s.hasDocument {
		s.setStatus(StatusError)
	}
	return nil
}

func (s *Session) handleTeardown() []Effect {
	if s.closed {
		return nil
	}
	effects := s.stopPolling()
	s.closed = true
	slog.Debug("session torn down", "session_id", s.id)
	return effects
}

// setID stores the latest id the backend returned. Empty ids are ignored.
func (s *Session) setID(id string) {
	if id == "" || id == s.id {
		return
	}
	if s.id != "" {
		slog.Debug("session id rotated", "old", s.id, "new", id)
	}
	s.id = id
}

func (s *Session) setStatus(st Status) {
	if s.status == st {
		return
	}
	slog.Debug("session status", "session_id", s.id, "from", s.status, "to", st)
	s.status = st
}

func (s *Session) appendBot(text string) {
	s.transcript = append(s.transcript, Message{Text: text, Author: AuthorBot})
}

func (s *Session) appendUser(text string) {
	s.transcript = append(s.transcript, Message{Text: text, Author: AuthorUser})
}

func (s *Session) entries() []document.Entry {
	out := make([]document.Entry, len(s.transcript))
	for i, m := range s.transcript {
		out[i] = document.Entry{Text: m.Text, FromBot: m.Author == AuthorBot}
	}
	return out
}

func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	return transport.Describe(err)
}
