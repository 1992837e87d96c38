package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tessro/prdchat/internal/logging"
)

// Hooks observe a Runner. They are called on the runner's loop goroutine
// and must not block.
type Hooks struct {
	// OnMessage is called for every message appended to the transcript.
	OnMessage func(Message)
	// OnStatus is called whenever the session status changes.
	OnStatus func(from, to Status)
}

type waiter struct {
	cond func(Snapshot) bool
	ch   chan Snapshot
}

// Runner drives a Session without a UI. It owns a single event loop:
// every event, timer tick and network completion is applied on the loop
// goroutine, in arrival order.
type Runner struct {
	sess    *Session
	backend Backend
	hooks   Hooks

	inbox   chan func()
	done    chan struct{}
	stopped chan struct{}
	wg      sync.WaitGroup

	// Owned by the loop goroutine.
	ctx     context.Context
	timer   *time.Timer
	waiters []waiter
}

// NewRunner creates a runner for sess. Call Run to start the loop.
func NewRunner(sess *Session, b Backend, hooks Hooks) *Runner {
	return &Runner{
		sess:    sess,
		backend: b,
		hooks:   hooks,
		inbox:   make(chan func(), 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then tears the session
// down, stops the poll timer and waits for outstanding requests to return.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)
	defer logging.LogPanic("session-runner", nil)

	r.ctx = ctx
	err := r.loop(ctx)

	r.apply(Teardown{})
	r.stopTimer()
	close(r.done)
	r.wg.Wait()
	return err
}

func (r *Runner) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.inbox:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (r *Runner) Done() <-chan struct{} {
	return r.stopped
}

// Submit applies ev on the loop and returns Handle's error.
func (r *Runner) Submit(ctx context.Context, ev Event) error {
	reply := make(chan error, 1)
	if !r.post(func() { reply <- r.apply(ev) }) {
		return ErrClosed
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrClosed
	}
}

// Snapshot returns the current session state.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	return r.WaitFor(ctx, func(Snapshot) bool { return true })
}

// WaitFor blocks until cond holds for the session state and returns that
// state. cond is evaluated on the loop after every event.
func (r *Runner) WaitFor(ctx context.Context, cond func(Snapshot) bool) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	if !r.post(func() {
		r.waiters = append(r.waiters, waiter{cond: cond, ch: ch})
		r.checkWaiters()
	}) {
		return Snapshot{}, ErrClosed
	}
	select {
	case snap := <-ch:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrClosed
	}
}

// CreateTickets files tickets for the detected document. The session is
// not modified.
func (r *Runner) CreateTickets(ctx context.Context) ([]string, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return CreateTickets(ctx, r.backend, snap)
}

// post queues fn for the loop. It reports false once the loop has exited.
func (r *Runner) post(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.inbox <- fn:
		return true
	case <-r.done:
		return false
	}
}

// apply runs one transition and dispatches its effects. Loop goroutine only.
func (r *Runner) apply(ev Event) error {
	before := r.sess.Len()
	prev := r.sess.Status()

	effects, err := r.sess.Handle(ev)
	if err != nil {
		return err
	}

	if r.hooks.OnMessage != nil {
		transcript := r.sess.Transcript()
		for _, m := range transcript[before:] {
			r.hooks.OnMessage(m)
		}
	}
	if cur := r.sess.Status(); cur != prev && r.hooks.OnStatus != nil {
		r.hooks.OnStatus(prev, cur)
	}

	for _, eff := range effects {
		r.dispatch(eff)
	}
	r.checkWaiters()
	return nil
}

func (r *Runner) dispatch(eff Effect) {
	switch eff := eff.(type) {
	case SchedulePoll:
		r.stopTimer()
		gen := eff.Gen
		r.timer = time.AfterFunc(eff.After, func() {
			r.post(func() { _ = r.apply(PollTick{Gen: gen}) })
		})

	case CancelPoll:
		r.stopTimer()

	default:
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			defer logging.LogPanic("session-request", nil)

			ev := Execute(r.ctx, r.backend, eff)
			if ev == nil {
				slog.Warn("effect produced no event", "effect", eff)
				return
			}
			r.post(func() { _ = r.apply(ev) })
		}()
	}
}

func (r *Runner) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Runner) checkWaiters() {
	if len(r.waiters) == 0 {
		return
	}
	snap := r.sess.Snapshot()
	kept := r.waiters[:0]
	for _, w := range r.waiters {
		if w.cond(snap) {
			w.ch <- snap
			continue
		}
		kept = append(kept, w)
	}
	r.waiters = kept
}
