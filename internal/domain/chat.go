package domain

import "time"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one chat turn. Messages live only in memory for the
// duration of a visitor session.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidRole reports whether role is one the chat accepts.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
