package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/tessro/prdchat/internal/session"
)

// HelpBar displays shortcuts for the current session state, or a notice or
// error when one is set.
type HelpBar struct {
	width int
	keys  KeyBindings

	status      session.Status
	hasDocument bool

	notice   string
	errorMsg string
}

// NewHelpBar creates a new help bar component.
func NewHelpBar() HelpBar {
	return HelpBar{
		keys: DefaultKeyBindings(),
	}
}

// SetWidth updates the help bar width.
func (h *HelpBar) SetWidth(width int) {
	h.width = width
}

// SetContext updates the state used to pick shortcuts.
func (h *HelpBar) SetContext(status session.Status, hasDocument bool) {
	h.status = status
	h.hasDocument = hasDocument
}

// SetError sets the error message to display. It replaces any notice.
func (h *HelpBar) SetError(msg string) {
	h.errorMsg = msg
	h.notice = ""
}

// SetNotice sets an informational message to display.
func (h *HelpBar) SetNotice(msg string) {
	h.notice = msg
	h.errorMsg = ""
}

// Clear removes any notice or error.
func (h *HelpBar) Clear() {
	h.notice = ""
	h.errorMsg = ""
}

// Error returns the error being displayed, if any.
func (h HelpBar) Error() string {
	return h.errorMsg
}

// Notice returns the notice being displayed, if any.
func (h HelpBar) Notice() string {
	return h.notice
}

// View renders the help bar.
func (h HelpBar) View() string {
	if h.errorMsg != "" {
		return errorBarStyle.Width(h.width).Render("Error: " + h.errorMsg)
	}
	if h.notice != "" {
		return noticeBarStyle.Width(h.width).Render(h.notice)
	}

	var bindings []key.Binding
	switch h.status {
	case session.StatusPlanning:
		bindings = []key.Binding{h.keys.PageUp, h.keys.PageDown, h.keys.Quit}
	default:
		bindings = []key.Binding{h.keys.Submit, h.keys.HistoryPrev, h.keys.PageUp}
		if h.hasDocument {
			bindings = append(bindings, h.keys.Tickets, h.keys.Export)
		}
		bindings = append(bindings, h.keys.Quit)
	}
	return statusStyle.Width(h.width).Render(formatHelp(bindings))
}

// formatHelp formats a list of key bindings as help text.
func formatHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, help.Key+": "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
