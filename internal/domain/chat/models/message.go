package models

// Message roles understood by the chat completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged turn in a conversation
type Message struct {
	Role    string `json:"role" validate:"omitempty,oneof=system user assistant"`
	Content string `json:"content"`
}

// Valid reports whether the message carries a known role
func (m Message) Valid() bool {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// SystemMessage returns a system message with the given content
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user message with the given content
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage returns an assistant message with the given content
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
