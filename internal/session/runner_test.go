package session

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/prdchat/internal/fakebackend"
	"github.com/tessro/prdchat/internal/transport"
)

// countingBackend scripts planning status replies and counts requests.
type countingBackend struct {
	statuses []transport.PlanningState

	mu       sync.Mutex
	polls    int
	chats    int
	tickets  int
	requests atomic.Int64
}

func (b *countingBackend) StartPlanning(ctx context.Context, feature, repo string) (*transport.StartResult, error) {
	b.requests.Add(1)
	return &transport.StartResult{SessionID: "s1", Response: "ok"}, nil
}

func (b *countingBackend) PlanningStatus(ctx context.Context, sessionID string) (*transport.PlanningState, error) {
	b.requests.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.polls
	b.polls++
	if i >= len(b.statuses) {
		i = len(b.statuses) - 1
	}
	st := b.statuses[i]
	return &st, nil
}

func (b *countingBackend) Chat(ctx context.Context, text, sessionID string) (*transport.ChatReply, error) {
	b.requests.Add(1)
	b.mu.Lock()
	b.chats++
	b.mu.Unlock()
	return &transport.ChatReply{Response: "re: " + text, SessionID: sessionID}, nil
}

func (b *countingBackend) CreateTickets(ctx context.Context, prd, repo string) ([]string, error) {
	b.requests.Add(1)
	b.mu.Lock()
	b.tickets++
	b.mu.Unlock()
	return []string{"https://example.test/1"}, nil
}

func startRunner(t *testing.T, b Backend, hooks Hooks) (*Runner, context.CancelFunc, <-chan error) {
	t.Helper()
	r := NewRunner(New(Options{PollInterval: 5 * time.Millisecond}), b, hooks)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-r.Done()
	})
	return r, cancel, done
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunner_StopsPollingOnReady(t *testing.T) {
	b := &countingBackend{statuses: []transport.PlanningState{
		{Status: "in_progress"},
		{Status: "in_progress"},
		{Status: "ready", Response: "Plan ready"},
	}}
	r, _, _ := startRunner(t, b, Hooks{})
	ctx := waitCtx(t)

	require.NoError(t, r.Submit(ctx, StartRequested{Feature: "add login", Repo: "org/repo"}))
	snap, err := r.WaitFor(ctx, func(s Snapshot) bool { return s.Status == StatusChatting })
	require.NoError(t, err)
	assert.False(t, snap.Polling)
	assert.Equal(t, "Plan ready", snap.Transcript[len(snap.Transcript)-1].Text)

	settled := b.requests.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, b.requests.Load(), "requests issued after planning finished")
}

func TestRunner_StopsPollingOnError(t *testing.T) {
	b := &countingBackend{statuses: []transport.PlanningState{{Status: "error", Response: "clone failed"}}}
	r, _, _ := startRunner(t, b, Hooks{})
	ctx := waitCtx(t)

	require.NoError(t, r.Submit(ctx, StartRequested{Feature: "add login", Repo: "org/repo"}))
	snap, err := r.WaitFor(ctx, func(s Snapshot) bool { return s.Status == StatusError })
	require.NoError(t, err)
	assert.Equal(t, "Error: clone failed", snap.Transcript[len(snap.Transcript)-1].Text)

	settled := b.requests.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, b.requests.Load())
}

func TestRunner_StopsPollingOnTeardown(t *testing.T) {
	b := &countingBackend{statuses: []transport.PlanningState{{Status: "in_progress"}}}
	r, cancel, done := startRunner(t, b, Hooks{})
	ctx := waitCtx(t)

	require.NoError(t, r.Submit(ctx, StartRequested{Feature: "add login", Repo: "org/repo"}))
	_, err := r.WaitFor(ctx, func(s Snapshot) bool { return len(s.Transcript) >= 3 })
	require.NoError(t, err)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	settled := b.requests.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, b.requests.Load(), "requests issued after teardown")

	assert.ErrorIs(t, r.Submit(ctx, ChatRequested{Text: "hi"}), ErrClosed)
}

func TestRunner_Hooks(t *testing.T) {
	var (
		mu       sync.Mutex
		messages []Message
		statuses []Status
	)
	hooks := Hooks{
		OnMessage: func(m Message) {
			mu.Lock()
			messages = append(messages, m)
			mu.Unlock()
		},
		OnStatus: func(_, to Status) {
			mu.Lock()
			statuses = append(statuses, to)
			mu.Unlock()
		},
	}
	b := &countingBackend{statuses: []transport.PlanningState{{Status: "ready", Response: "Plan ready"}}}
	r, _, _ := startRunner(t, b, hooks)
	ctx := waitCtx(t)

	require.NoError(t, r.Submit(ctx, StartRequested{Feature: "add login", Repo: "org/repo"}))
	_, err := r.WaitFor(ctx, func(s Snapshot) bool { return s.Status == StatusChatting })
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusPlanning, StatusChatting}, statuses)
	require.Len(t, messages, 3)
	assert.Equal(t, "Analyzing org/repo for: add login", messages[0].Text)
	assert.Equal(t, "ok", messages[1].Text)
	assert.Equal(t, "Plan ready", messages[2].Text)
}

func TestRunner_SubmitReturnsRejection(t *testing.T) {
	b := &countingBackend{statuses: []transport.PlanningState{{Status: "in_progress"}}}
	r, _, _ := startRunner(t, b, Hooks{})
	ctx := waitCtx(t)

	assert.ErrorIs(t, r.Submit(ctx, StartRequested{Repo: "org/repo"}), ErrEmptyFeature)
	require.NoError(t, r.Submit(ctx, StartRequested{Feature: "x", Repo: "org/repo"}))
	assert.ErrorIs(t, r.Submit(ctx, ChatRequested{Text: "hi"}), ErrPlanningInProgress)
}

func TestRunner_CreateTicketsWithoutDocument(t *testing.T) {
	b := &countingBackend{statuses: []transport.PlanningState{{Status: "ready"}}}
	r, _, _ := startRunner(t, b, Hooks{})
	ctx := waitCtx(t)

	_, err := r.CreateTickets(ctx)
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.Zero(t, b.requests.Load())
}

func TestExecute(t *testing.T) {
	b := &countingBackend{statuses: []transport.PlanningState{{Status: "ready", Response: "Plan ready"}}}
	ctx := context.Background()

	assert.Equal(t, StartSucceeded{SessionID: "s1", Response: "ok"},
		Execute(ctx, b, StartPlanning{Feature: "f", Repo: "r"}))
	assert.Equal(t, PollSucceeded{Gen: 3, State: transport.PlanningState{Status: "ready", Response: "Plan ready"}},
		Execute(ctx, b, FetchStatus{Gen: 3, SessionID: "s1"}))
	assert.Equal(t, ChatSucceeded{Response: "re: hi", SessionID: "s1"},
		Execute(ctx, b, SendChat{Text: "hi", SessionID: "s1"}))
	assert.Nil(t, Execute(ctx, b, SchedulePoll{Gen: 1}))
	assert.Nil(t, Execute(ctx, b, CancelPoll{}))
}

func TestRunner_EndToEnd(t *testing.T) {
	fb := fakebackend.New(fakebackend.Options{PlanningPolls: 1})
	srv := httptest.NewServer(fb.Handler())
	defer srv.Close()

	r, _, _ := startRunner(t, transport.New(srv.URL), Hooks{})
	ctx := waitCtx(t)

	require.NoError(t, r.Submit(ctx, StartRequested{Feature: "add login", Repo: "org/repo"}))
	_, err := r.WaitFor(ctx, func(s Snapshot) bool { return s.Status == StatusChatting })
	require.NoError(t, err)

	require.NoError(t, r.Submit(ctx, ChatRequested{Text: "write the document"}))
	_, err = r.WaitFor(ctx, func(s Snapshot) bool { return !s.ChatInFlight })
	require.NoError(t, err)

	require.NoError(t, r.Submit(ctx, ChatRequested{Text: "now the tickets"}))
	snap, err := r.WaitFor(ctx, func(s Snapshot) bool { return !s.ChatInFlight })
	require.NoError(t, err)

	require.True(t, snap.HasDocument)
	assert.Equal(t, StatusReadyForTickets, snap.Status)
	assert.Contains(t, snap.Document, "## Requirements")

	urls, err := r.CreateTickets(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, urls)
}
