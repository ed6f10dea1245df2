package models

import (
	"fmt"
	"strings"
)

// ChatRole identifies which side of the platform sent a message.
type ChatRole string

const (
	RoleOwner  ChatRole = "owner"
	RoleTenant ChatRole = "tenant"
	// RoleAssistant only appears in transcripts; it is not a valid sender.
	RoleAssistant ChatRole = "assistant"
)

// ParseChatRole validates a wire-level role string.
func ParseChatRole(raw string) (ChatRole, error) {
	switch ChatRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleTenant:
		return RoleTenant, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// TranscriptEntry formats a message the way it is stored in the conversation
// transcript, e.g. "[TENANT] is the fridge new?".
func TranscriptEntry(role ChatRole, message string) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(role)), message)
}

// ConversationID derives the transcript key for a platform user.
func ConversationID(userID string) string {
	return "conv-" + userID
}
