package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// maxInputHeight limits how tall the input can grow (in lines of content).
const maxInputHeight = 6

// InputLine is the message composer docked under the transcript.
type InputLine struct {
	width   int
	enabled bool
	input   textarea.Model
	history inputHistory
}

// NewInputLine creates a new, enabled input line.
func NewInputLine() InputLine {
	ta := textarea.New()
	ta.CharLimit = 8192
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	// Enter submits; the model handles it.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return InputLine{
		enabled: true,
		input:   ta,
		history: newInputHistory(),
	}
}

// SetWidth updates the component width.
func (i *InputLine) SetWidth(width int) {
	i.width = width
	// Border (2), padding (2) and prompt (2)
	i.input.SetWidth(max(width-6, 1))
}

// SetEnabled toggles whether the input accepts keystrokes. A disabled input
// keeps its contents.
func (i *InputLine) SetEnabled(enabled bool) {
	i.enabled = enabled
	if enabled {
		i.input.Focus()
	} else {
		i.input.Blur()
	}
}

// Enabled reports whether the input accepts keystrokes.
func (i *InputLine) Enabled() bool {
	return i.enabled
}

// SetPlaceholder sets the placeholder text.
func (i *InputLine) SetPlaceholder(text string) {
	i.input.Placeholder = text
}

// Update forwards a message to the textarea.
func (i *InputLine) Update(msg tea.Msg) tea.Cmd {
	if !i.enabled {
		return nil
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		i.history.reset()
	}
	i.updateHeight()
	return cmd
}

// Value returns the current input value.
func (i *InputLine) Value() string {
	return i.input.Value()
}

// SetValue replaces the input value.
func (i *InputLine) SetValue(s string) {
	i.input.SetValue(s)
	i.input.CursorEnd()
	i.updateHeight()
}

// Clear resets the input value.
func (i *InputLine) Clear() {
	i.input.SetValue("")
	i.input.SetHeight(1)
}

// Commit records the current value in history and clears the input.
func (i *InputLine) Commit() string {
	v := i.input.Value()
	i.history.push(v)
	i.Clear()
	return v
}

// HistoryUp recalls the previous entry. Returns true if the input changed.
func (i *InputLine) HistoryUp() bool {
	v, ok := i.history.prev(i.input.Value())
	if ok {
		i.SetValue(v)
	}
	return ok
}

// HistoryDown recalls the next entry, restoring the draft past the newest
// one. Returns true if the input changed.
func (i *InputLine) HistoryDown() bool {
	v, ok := i.history.next()
	if ok {
		i.SetValue(v)
	}
	return ok
}

// InsertNewline inserts a newline at the cursor position.
func (i *InputLine) InsertNewline() {
	i.input.InsertString("\n")
	i.updateHeight()
}

// ContentHeight returns the height needed to display the current content,
// between 1 and maxInputHeight.
func (i *InputLine) ContentHeight() int {
	return min(max(i.input.LineCount(), 1), maxInputHeight)
}

func (i *InputLine) updateHeight() {
	i.input.SetHeight(i.ContentHeight())
}

// View renders the input line.
func (i InputLine) View() string {
	style := inputLineStyle
	if i.enabled {
		style = inputLineFocusedStyle
	}
	return style.Width(max(i.width-2, 1)).Render(i.input.View())
}
