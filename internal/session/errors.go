package session

import "errors"

// Errors returned by Session.Handle when a request is rejected. Nothing is
// appended and no effect is issued when one of these is returned.
var (
	ErrEmptyFeature       = errors.New("feature description cannot be empty")
	ErrEmptyRepo          = errors.New("repository cannot be empty")
	ErrEmptyMessage       = errors.New("message cannot be empty")
	ErrAlreadyStarted     = errors.New("session already started")
	ErrTurnInFlight       = errors.New("a chat turn is already in progress")
	ErrPlanningInProgress = errors.New("planning is still in progress")
	ErrNoDocument         = errors.New("no requirements document has been detected yet")
	ErrClosed             = errors.New("session is closed")
	ErrUnknownEvent       = errors.New("unknown event")
)
