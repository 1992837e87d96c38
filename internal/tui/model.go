// Package tui is the interactive terminal front end for a planning session.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/prdchat/internal/document"
	"github.com/tessro/prdchat/internal/session"
)

// Options configure the TUI.
type Options struct {
	Backend session.Backend
	Session session.Options

	// Repo is the repository planned against. The first message typed
	// becomes the feature description.
	Repo string
	// Feature starts planning immediately when set together with Repo.
	Feature string

	ExportDir    string
	ExportFormat document.Format

	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model driving one session.
type Model struct {
	ctx  context.Context
	opts Options
	sess *session.Session

	width  int
	height int
	ready  bool

	header    Header
	chatView  ChatView
	inputLine InputLine
	helpBar   HelpBar
	keys      KeyBindings

	spinnerFrame    int
	creatingTickets bool
	tickets         []string
}

// NewModel creates a model with an idle session.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = document.FormatMarkdown
	}
	m := Model{
		ctx:       ctx,
		opts:      opts,
		sess:      session.New(opts.Session),
		header:    NewHeader(),
		chatView:  NewChatView(),
		inputLine: NewInputLine(),
		helpBar:   NewHelpBar(),
		keys:      DefaultKeyBindings(),
	}
	m.sync()
	return m
}

// Session returns the session snapshot.
func (m Model) Session() session.Snapshot {
	return m.sess.Snapshot()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.inputLine.input.Cursor.BlinkCmd(), tickCmd()}
	if strings.TrimSpace(m.opts.Feature) != "" && strings.TrimSpace(m.opts.Repo) != "" {
		cmds = append(cmds, sendEvent(session.StartRequested{Feature: m.opts.Feature, Repo: m.opts.Repo}))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.ready = true

	case eventMsg:
		if msg.ev != nil {
			cmds = append(cmds, m.apply(msg.ev))
		}

	case ticketsMsg:
		m.creatingTickets = false
		if msg.Err != nil {
			slog.Warn("create tickets failed", "session_id", m.sess.ID(), "error", msg.Err)
			cmds = append(cmds, m.setError(msg.Err))
			break
		}
		m.tickets = msg.URLs
		slog.Info("tickets created", "session_id", m.sess.ID(), "count", len(msg.URLs))
		cmds = append(cmds, m.setNotice(fmt.Sprintf("Created %d ticket(s): %s", len(msg.URLs), strings.Join(msg.URLs, " "))))

	case exportMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.setError(msg.Err))
			break
		}
		cmds = append(cmds, m.setNotice("Document saved to "+msg.Path))

	case tickMsg:
		m.spinnerFrame++
		m.header.SetSpinnerFrame(m.spinnerFrame)
		cmds = append(cmds, tickCmd())

	case clearNoticeMsg:
		m.helpBar.Clear()

	default:
		cmds = append(cmds, m.inputLine.Update(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.apply(session.Teardown{})
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tickets):
		return m, m.createTickets()

	case key.Matches(msg, m.keys.Export):
		return m, m.export()

	case key.Matches(msg, m.keys.PageUp):
		m.chatView.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.chatView.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.chatView.ScrollToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.chatView.ScrollToBottom()

	case key.Matches(msg, m.keys.HistoryPrev):
		m.inputLine.HistoryUp()
	case key.Matches(msg, m.keys.HistoryNext):
		m.inputLine.HistoryDown()

	case key.Matches(msg, m.keys.Cancel):
		m.inputLine.Clear()

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	default:
		cmd := m.inputLine.Update(msg)
		if m.ready {
			m.updateLayout()
		}
		return m, cmd
	}
	return m, nil
}

// submit sends the input. Before planning has started it is the feature
// description; afterwards it is a chat turn.
func (m *Model) submit() tea.Cmd {
	if !m.inputLine.Enabled() {
		return nil
	}
	text := strings.TrimSpace(m.inputLine.Value())
	if text == "" {
		return nil
	}

	var ev session.Event = session.ChatRequested{Text: text}
	if m.sess.CanStart() {
		ev = session.StartRequested{Feature: text, Repo: m.opts.Repo}
	}

	effects, err := m.sess.Handle(ev)
	if err != nil {
		return m.setError(err)
	}
	m.inputLine.Commit()
	m.helpBar.Clear()
	return m.dispatch(effects)
}

// apply feeds ev to the session and returns the commands for its effects.
func (m *Model) apply(ev session.Event) tea.Cmd {
	effects, err := m.sess.Handle(ev)
	if err != nil {
		slog.Debug("event rejected", "event", fmt.Sprintf("%T", ev), "error", err)
		return m.setError(err)
	}
	return m.dispatch(effects)
}

func (m *Model) dispatch(effects []session.Effect) tea.Cmd {
	m.sync()
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		cmds = append(cmds, effectCmd(m.ctx, m.opts.Backend, eff))
	}
	return tea.Batch(cmds...)
}

func (m *Model) createTickets() tea.Cmd {
	if m.creatingTickets {
		return nil
	}
	snap := m.sess.Snapshot()
	if _, _, err := snap.TicketRequest(); err != nil {
		return m.setError(err)
	}
	m.creatingTickets = true
	m.helpBar.SetNotice("Creating tickets...")
	return createTicketsCmd(m.ctx, m.opts.Backend, snap)
}

func (m *Model) export() tea.Cmd {
	exp, err := m.sess.Snapshot().Export(m.opts.Now())
	if err != nil {
		return m.setError(err)
	}
	return exportCmd(m.opts.ExportDir, exp, m.opts.ExportFormat)
}

// sync copies session state into the components.
func (m *Model) sync() {
	snap := m.sess.Snapshot()
	m.chatView.SetMessages(snap.Transcript)
	m.header.SetSession(snap)
	m.helpBar.SetContext(snap.Status, snap.HasDocument)

	switch {
	case snap.Closed:
		m.inputLine.SetEnabled(false)
	case m.sess.CanStart():
		m.inputLine.SetEnabled(true)
		m.inputLine.SetPlaceholder("Describe the feature to plan...")
	case snap.Status == session.StatusPlanning:
		m.inputLine.SetEnabled(false)
		m.inputLine.SetPlaceholder("Planning in progress...")
	case snap.ChatInFlight:
		m.inputLine.SetEnabled(false)
		m.inputLine.SetPlaceholder("Waiting for reply...")
	default:
		m.inputLine.SetEnabled(true)
		m.inputLine.SetPlaceholder("Type a message...")
	}
}

func (m *Model) setError(err error) tea.Cmd {
	m.helpBar.SetError(err.Error())
	return clearNoticeCmd()
}

func (m *Model) setNotice(s string) tea.Cmd {
	m.helpBar.SetNotice(s)
	return clearNoticeCmd()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var banner string
	if doc, ok := m.sess.Document(); ok {
		title := firstLine(doc)
		banner = documentBannerStyle.Width(m.width).Render("✓ Document ready: " + title)
	}

	parts := []string{m.header.View()}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, m.chatView.View(), m.inputLine.View(), m.helpBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// updateLayout recalculates component dimensions.
func (m *Model) updateLayout() {
	m.header.SetWidth(m.width)
	m.helpBar.SetWidth(m.width)
	m.inputLine.SetWidth(m.width)

	// header + banner + input (content plus border) + help bar
	chatHeight := m.height - 1 - 1 - (m.inputLine.ContentHeight() + 2) - 1
	m.chatView.SetSize(m.width, max(chatHeight, 3))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	line = strings.TrimLeft(line, "# ")
	const maxLen = 60
	if r := []rune(line); len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return line
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		NewModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		// Quitting applies Teardown; this covers a cancelled context.
		_, _ = m.sess.Handle(session.Teardown{})
	}
	return err
}
