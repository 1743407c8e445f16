package report

import (
	"fmt"
	"strings"
)

// maxChatMessage keeps report replies under the chat platforms' hard
// message limit, with headroom for the menu footer.
const maxChatMessage = 3500

// FormatEntries renders archive rows for a chat reply, truncated with
// a trailing count when the full listing would not fit.
func FormatEntries(entries []Entry) string {
	if len(entries) == 0 {
		return "No documents found."
	}

	var b strings.Builder
	shown := 0
	for _, e := range entries {
		line := fmt.Sprintf("#%d  %s  %s  %s\n", e.Number, e.DocType, e.Status, e.Summary)
		if b.Len()+len(line) > maxChatMessage {
			break
		}
		b.WriteString(line)
		shown++
	}
	if shown < len(entries) {
		fmt.Fprintf(&b, "... and %d more", len(entries)-shown)
	}
	return strings.TrimRight(b.String(), "\n")
}
