// Package llm provides the conversation and HTTP wire representations shared by
// the sparky gateway, its HTTP surface and the CLI.
package llm

import "fmt"

// Role identifies the sender of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`       // "system", "user", "assistant"
	Content string `json:"content" yaml:"content"` // The message content
}

// Validate reports whether the message carries a known role.
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("unknown message role %q", m.Role)
	}
}

// ValidateAll checks every message in order and reports the first invalid one.
func ValidateAll(messages []Message) error {
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}
