package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/prdchat/internal/session"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Header displays branding, the session status and the session id.
type Header struct {
	width int

	status    session.Status
	sessionID string
	repo      string
	busy      bool
	frame     int
}

// NewHeader creates a new header component.
func NewHeader() Header {
	return Header{status: session.StatusIdle}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSession updates the session details shown.
func (h *Header) SetSession(snap session.Snapshot) {
	h.status = snap.Status
	h.sessionID = snap.ID
	h.repo = snap.Repo
	h.busy = snap.Status == session.StatusPlanning || snap.ChatInFlight
}

// SetSpinnerFrame updates the current spinner animation frame.
func (h *Header) SetSpinnerFrame(frame int) {
	h.frame = frame
}

// View renders the header.
func (h Header) View() string {
	brand := headerBrandStyle.Render("prdchat")

	badge := " " + statusLabel(h.status)
	if h.busy {
		badge += " " + spinnerFrames[h.frame%len(spinnerFrames)]
	}
	status := statusBadgeStyle(h.status).Render(badge)

	var parts []string
	if h.repo != "" {
		parts = append(parts, h.repo)
	}
	if h.sessionID != "" {
		parts = append(parts, "session "+h.sessionID)
	}
	var info string
	if len(parts) > 0 {
		info = headerInfoStyle.Render(strings.Join(parts, "  •  "))
	}

	spacerWidth := max(h.width-lipgloss.Width(brand)-lipgloss.Width(status)-lipgloss.Width(info), 0)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	content := lipgloss.JoinHorizontal(lipgloss.Top, brand, status, spacer, info)
	return headerContainerStyle.Width(h.width).Render(content)
}

func statusLabel(st session.Status) string {
	switch st {
	case session.StatusPlanning:
		return "planning"
	case session.StatusChatting:
		return "chatting"
	case session.StatusReadyForTickets:
		return "ready for tickets"
	case session.StatusError:
		return "error"
	default:
		return "idle"
	}
}

func statusBadgeStyle(st session.Status) lipgloss.Style {
	switch st {
	case session.StatusPlanning:
		return statusPlanningStyle
	case session.StatusChatting:
		return statusChattingStyle
	case session.StatusReadyForTickets:
		return statusReadyStyle
	case session.StatusError:
		return statusErrorStyle
	default:
		return statusIdleStyle
	}
}
