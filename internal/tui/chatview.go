package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tessro/prdchat/internal/session"
)

const (
	botLabel   = "Planner: "
	userLabel  = "You: "
	errorLabel = "Error: "
)

// ChatView displays the session transcript.
type ChatView struct {
	messages []session.Message
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// NewChatView creates a new chat view component.
func NewChatView() ChatView {
	return ChatView{}
}

// SetSize updates the component dimensions.
func (v *ChatView) SetSize(width, height int) {
	v.width = width
	v.height = height

	// Account for border (1 line/column on each side)
	contentWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	if !v.ready {
		v.viewport = viewport.New(contentWidth, contentHeight)
		v.ready = true
	} else {
		v.viewport.Width = contentWidth
		v.viewport.Height = contentHeight
	}

	v.updateContent()
}

// SetMessages replaces the transcript. The view follows the bottom unless
// the user has scrolled away from it.
func (v *ChatView) SetMessages(messages []session.Message) {
	follow := !v.ready || v.viewport.AtBottom()
	grew := len(messages) != len(v.messages)
	v.messages = messages
	v.updateContent()
	if follow || (grew && v.nearBottom()) {
		v.viewport.GotoBottom()
	}
}

// Len returns the number of messages shown.
func (v *ChatView) Len() int {
	return len(v.messages)
}

func (v *ChatView) nearBottom() bool {
	return v.viewport.YOffset >= v.viewport.TotalLineCount()-v.viewport.Height-5
}

// PageUp scrolls up by one page.
func (v *ChatView) PageUp() {
	v.viewport.ViewUp()
}

// PageDown scrolls down by one page.
func (v *ChatView) PageDown() {
	v.viewport.ViewDown()
}

// ScrollToTop scrolls to the top.
func (v *ChatView) ScrollToTop() {
	v.viewport.GotoTop()
}

// ScrollToBottom scrolls to the bottom.
func (v *ChatView) ScrollToBottom() {
	v.viewport.GotoBottom()
}

// updateContent refreshes the viewport content from messages.
func (v *ChatView) updateContent() {
	if !v.ready {
		return
	}

	lines := make([]string, 0, len(v.messages))
	for _, m := range v.messages {
		lines = append(lines, v.renderMessage(m))
	}
	v.viewport.SetContent(strings.Join(lines, "\n\n"))
}

// renderMessage renders one transcript entry, wrapped to the view width.
func (v *ChatView) renderMessage(m session.Message) string {
	var label string
	switch m.Author {
	case session.AuthorUser:
		label = chatUserStyle.Render(userLabel)
	default:
		label = chatBotStyle.Render(botLabel)
	}

	text := m.Text
	if v.viewport.Width > 0 {
		text = wordwrap.String(text, v.viewport.Width)
	}
	if m.Author == session.AuthorBot && strings.HasPrefix(m.Text, errorLabel) {
		text = chatErrorStyle.Render(text)
	}
	return label + "\n" + text
}

// View renders the chat view.
func (v ChatView) View() string {
	var content string
	if len(v.messages) == 0 {
		content = chatEmptyStyle.Width(v.width - 2).Height(v.height - 2).
			Render("Describe the feature you want to plan and press enter.")
	} else {
		content = v.viewport.View()
	}
	return chatViewBorderStyle.Width(v.width - 2).Height(v.height - 2).Render(content)
}
