package session

import (
	"time"

	"github.com/tessro/prdchat/internal/transport"
)

// Event is an external trigger applied to a Session: a user action, a
// timer tick, or a network completion.
type Event interface {
	isEvent()
}

// StartRequested asks to begin planning a feature against a repository.
type StartRequested struct {
	Feature string
	Repo    string
}

// StartSucceeded carries the start planning response.
type StartSucceeded struct {
	SessionID string
	Response  string
}

// StartFailed carries a start planning failure.
type StartFailed struct {
	Err error
}

// PollTick fires when the poll interval for generation Gen elapses.
type PollTick struct {
	Gen int
}

// PollSucceeded carries one planning status observation.
type PollSucceeded struct {
	Gen   int
	State transport.PlanningState
}

// PollFailed carries a planning status request failure.
type PollFailed struct {
	Gen int
	Err error
}

// ChatRequested asks to send one chat turn.
type ChatRequested struct {
	Text string
}

// ChatSucceeded carries the bot reply to a chat turn.
type ChatSucceeded struct {
	Response  string
	SessionID string
}

// ChatFailed carries a chat turn failure.
type ChatFailed struct {
	Err error
}

// Teardown ends the session. Polling stops and later results are ignored.
type Teardown struct{}

func (StartRequested) isEvent() {}
func (StartSucceeded) isEvent() {}
func (StartFailed) isEvent()    {}
func (PollTick) isEvent()       {}
func (PollSucceeded) isEvent()  {}
func (PollFailed) isEvent()     {}
func (ChatRequested) isEvent()  {}
func (ChatSucceeded) isEvent()  {}
func (ChatFailed) isEvent()     {}
func (Teardown) isEvent()       {}

// Effect is work a Session asks its driver to perform. Network effects are
// carried out by Execute; timer effects are the driver's own business.
type Effect interface {
	isEffect()
}

// StartPlanning issues the start planning request.
type StartPlanning struct {
	Feature string
	Repo    string
}

// SchedulePoll arms the poll timer for generation Gen.
type SchedulePoll struct {
	Gen   int
	After time.Duration
}

// CancelPoll disarms the poll timer.
type CancelPoll struct{}

// FetchStatus issues one planning status request.
type FetchStatus struct {
	Gen       int
	SessionID string
}

// SendChat issues one chat turn request.
type SendChat struct {
	Text      string
	SessionID string
}

func (StartPlanning) isEffect() {}
func (SchedulePoll) isEffect()  {}
func (CancelPoll) isEffect()    {}
func (FetchStatus) isEffect()   {}
func (SendChat) isEffect()      {}
