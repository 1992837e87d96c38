// Package document detects the requirements document in a chat transcript
// and exports it.
//
// The backend does not tag its output. The document is inferred instead:
// once a bot reply itemizes tickets, the bot reply before it is taken to be
// the finished document.
package document

import "strings"

// DefaultMarker is the section heading that introduces an itemized ticket list.
const DefaultMarker = "### Ticket"

// Entry is the transcript view the extractor needs.
type Entry struct {
	Text    string
	FromBot bool
}

// HasTicketMarker reports whether text contains marker. An empty marker
// falls back to DefaultMarker.
func HasTicketMarker(text, marker string) bool {
	if marker == "" {
		marker = DefaultMarker
	}
	return strings.Contains(text, marker)
}

// Extract returns the document when the latest bot entry carries the
// ticket marker. The document is the most recent bot entry before it.
// ok is false when the marker is absent or no earlier bot entry exists.
func Extract(entries []Entry, marker string) (doc string, ok bool) {
	last := lastBot(entries, len(entries))
	if last < 0 || !HasTicketMarker(entries[last].Text, marker) {
		return "", false
	}
	prior := lastBot(entries, last)
	if prior < 0 {
		return "", false
	}
	return entries[prior].Text, true
}

// lastBot returns the index of the last bot entry before end, or -1.
func lastBot(entries []Entry, end int) int {
	for i := end - 1; i >= 0; i-- {
		if entries[i].FromBot {
			return i
		}
	}
	return -1
}
