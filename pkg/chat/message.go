package chat

import "github.com/segmentio/ksuid"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single chat turn. Messages are appended, never mutated,
// except when the active system message is explicitly replaced.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func New(role Role, content string) Message {
	return Message{
		ID:      ksuid.New().String(),
		Role:    role,
		Content: content,
	}
}

func System(content string) Message    { return New(RoleSystem, content) }
func User(content string) Message      { return New(RoleUser, content) }
func Assistant(content string) Message { return New(RoleAssistant, content) }

// LastUser returns the most recent user message content.
func LastUser(msgs []Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content, true
		}
	}
	return "", false
}
