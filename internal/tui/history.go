package tui

// maxHistorySize limits the number of entries stored in history.
const maxHistorySize = 100

// inputHistory holds previously sent messages for up/down recall.
type inputHistory struct {
	entries []string
	// index is -1 when not browsing, otherwise an index into entries.
	index int
	// draft is the unsent input saved when browsing starts.
	draft string
}

func newInputHistory() inputHistory {
	return inputHistory{index: -1}
}

// push appends s unless it is empty or repeats the newest entry.
func (h *inputHistory) push(s string) {
	h.reset()
	if s == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == s {
		return
	}
	h.entries = append(h.entries, s)
	if len(h.entries) > maxHistorySize {
		h.entries = h.entries[len(h.entries)-maxHistorySize:]
	}
}

// prev moves to the next older entry. current is saved as the draft when
// browsing starts.
func (h *inputHistory) prev(current string) (string, bool) {
	switch {
	case len(h.entries) == 0:
		return "", false
	case h.index == -1:
		h.draft = current
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	default:
		return "", false
	}
	return h.entries[h.index], true
}

// next moves to the next newer entry, returning the draft once past the
// newest.
func (h *inputHistory) next() (string, bool) {
	switch {
	case h.index == -1:
		return "", false
	case h.index < len(h.entries)-1:
		h.index++
		return h.entries[h.index], true
	default:
		draft := h.draft
		h.reset()
		return draft, true
	}
}

func (h *inputHistory) reset() {
	h.index = -1
	h.draft = ""
}
