package ai

import (
	"fmt"
	"strings"
)

// Role is the canonical author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single conversation entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ParseRole maps a provider role label onto a canonical Role. Gemini calls the assistant "model".
func ParseRole(label string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "user", "human":
		return RoleUser, nil
	case "assistant", "model", "ai":
		return RoleAssistant, nil
	case "system":
		return RoleSystem, nil
	default:
		return "", fmt.Errorf("unknown message role %q", label)
	}
}

// Conversational drops system messages from msgs.
func Conversational(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}
