package session

import (
	"context"

	"github.com/tessro/prdchat/internal/transport"
)

// Backend is the planning service as seen by a session.
// *transport.Client implements it.
type Backend interface {
	StartPlanning(ctx context.Context, feature, repo string) (*transport.StartResult, error)
	PlanningStatus(ctx context.Context, sessionID string) (*transport.PlanningState, error)
	Chat(ctx context.Context, text, sessionID string) (*transport.ChatReply, error)
	CreateTickets(ctx context.Context, prd, repo string) ([]string, error)
}

var _ Backend = (*transport.Client)(nil)

// Execute performs a network effect and returns the completion event to
// feed back into Handle. Timer effects (SchedulePoll, CancelPoll) are not
// network work; Execute returns nil for them.
func Execute(ctx context.Context, b Backend, eff Effect) Event {
	switch eff := eff.(type) {
	case StartPlanning:
		res, err := b.StartPlanning(ctx, eff.Feature, eff.Repo)
		if err != nil {
			return StartFailed{Err: err}
		}
		return StartSucceeded{SessionID: res.SessionID, Response: res.Response}

	case FetchStatus:
		state, err := b.PlanningStatus(ctx, eff.SessionID)
		if err != nil {
			return PollFailed{Gen: eff.Gen, Err: err}
		}
		return PollSucceeded{Gen: eff.Gen, State: *state}

	case SendChat:
		reply, err := b.Chat(ctx, eff.Text, eff.SessionID)
		if err != nil {
			return ChatFailed{Err: err}
		}
		return ChatSucceeded{Response: reply.Response, SessionID: reply.SessionID}

	default:
		return nil
	}
}

// CreateTickets files tickets for the session's document. It fails with
// ErrNoDocument, without contacting the backend, when no document exists.
// The session itself is not modified.
func CreateTickets(ctx context.Context, b Backend, snap Snapshot) ([]string, error) {
	prd, repo, err := snap.TicketRequest()
	if err != nil {
		return nil, err
	}
	return b.CreateTickets(ctx, prd, repo)
}
