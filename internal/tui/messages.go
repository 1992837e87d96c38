package tui

import (
	"time"

	"github.com/tessro/prdchat/internal/session"
)

// eventMsg carries a session event into the update loop: a user action,
// a poll tick or a network completion.
type eventMsg struct {
	ev session.Event
}

// ticketsMsg is the result of a create tickets request.
type ticketsMsg struct {
	URLs []string
	Err  error
}

// exportMsg is the result of writing the document to disk.
type exportMsg struct {
	Path string
	Err  error
}

// tickMsg drives the spinner animation.
type tickMsg time.Time

// clearNoticeMsg clears the help bar notice or error.
type clearNoticeMsg struct{}
