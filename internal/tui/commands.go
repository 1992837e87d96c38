package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/prdchat/internal/document"
	"github.com/tessro/prdchat/internal/session"
)

// noticeDuration is how long a notice or error stays in the help bar.
const noticeDuration = 5 * time.Second

// tickCmd returns a command that sends a tick message after a delay.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// clearNoticeCmd returns a command that clears the help bar after a delay.
func clearNoticeCmd() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

// sendEvent returns a command that feeds ev back into Update.
func sendEvent(ev session.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg{ev: ev}
	}
}

// effectCmd turns one session effect into a command. Poll timers become
// tea.Tick; a stale tick is dropped by the session's generation check, so
// CancelPoll needs no command.
func effectCmd(ctx context.Context, b session.Backend, eff session.Effect) tea.Cmd {
	switch eff := eff.(type) {
	case session.SchedulePoll:
		gen := eff.Gen
		return tea.Tick(eff.After, func(time.Time) tea.Msg {
			return eventMsg{ev: session.PollTick{Gen: gen}}
		})
	case session.CancelPoll:
		return nil
	default:
		return func() tea.Msg {
			return eventMsg{ev: session.Execute(ctx, b, eff)}
		}
	}
}

// createTicketsCmd files tickets for the snapshot's document.
func createTicketsCmd(ctx context.Context, b session.Backend, snap session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		urls, err := session.CreateTickets(ctx, b, snap)
		return ticketsMsg{URLs: urls, Err: err}
	}
}

// exportCmd writes the document to dir.
func exportCmd(dir string, exp document.Export, format document.Format) tea.Cmd {
	return func() tea.Msg {
		path, err := document.Write(dir, exp, format)
		return exportMsg{Path: path, Err: err}
	}
}
