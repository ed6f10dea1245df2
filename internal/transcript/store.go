// Package transcript persists conversation history as an append-only log of
// formatted entries keyed by conversation id.
package transcript

import (
	"context"
	"strings"
)

// Store is the conversation transcript contract. Append adds one formatted
// entry to the end of the log; Load returns the full history, oldest first,
// one entry per line. A missing conversation loads as an empty history.
type Store interface {
	Append(ctx context.Context, conversationID, entry string) error
	Load(ctx context.Context, conversationID string) (string, error)
}

// RecentWindow returns the last n non-empty lines of a history, used as the
// short conversation context passed to the oracle.
func RecentWindow(history string, n int) string {
	var lines []string
	for _, line := range strings.Split(history, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
