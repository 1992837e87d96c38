package fakebackend

import (
	"fmt"
	"strings"
)

func planFor(feature, repo string) string {
	return fmt.Sprintf("Plan ready for %q in %s.\n\n"+
		"1. Review the existing code paths touched by the feature.\n"+
		"2. Draft the requirements document.\n"+
		"3. Split the document into tickets.\n\n"+
		"Ask me to write the document when you are ready.", feature, repo)
}

// replyTo picks a canned reply. Asking for tickets yields an itemized
// ticket list; asking for the document yields a requirements document;
// anything else is echoed.
func replyTo(text, feature string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "ticket"):
		return fmt.Sprintf("### Ticket 1: Scaffold %s\nSet up the module layout.\n\n"+
			"### Ticket 2: Implement %s\nWrite the core logic and tests.\n", feature, feature)
	case strings.Contains(lower, "document"), strings.Contains(lower, "prd"):
		return fmt.Sprintf("# %s\n\n## Goals\n- Deliver %s.\n\n## Requirements\n- It works.\n- It is tested.\n", feature, feature)
	default:
		return "You said: " + text
	}
}
