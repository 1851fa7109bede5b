package repetition

import (
	"strings"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
)

const (
	// minHistory is the transcript length below which nothing counts as a repeat.
	minHistory = 3
	// window is how many trailing transcript entries are compared.
	window = 10
)

// IsRepetitive reports whether candidate exactly matches, ignoring case and
// surrounding whitespace, one of the user messages among the last window
// transcript entries.
func IsRepetitive(transcript []chat.Message, candidate string) bool {
	if len(transcript) < minHistory {
		return false
	}

	start := len(transcript) - window
	if start < 0 {
		start = 0
	}

	normalized := normalize(candidate)
	for _, msg := range transcript[start:] {
		if msg.Role != chat.RoleUser {
			continue
		}
		if normalize(msg.Content) == normalized {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
