package models

import "time"

// Роли сообщений внутри диалога.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation — диалог одного аккаунта с одним персонажем.
// На пару (аккаунт, персонаж) поддерживается один диалог.
type Conversation struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	CharacterID string    `json:"character_id"`
	PersonaID   *string   `json:"persona_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message — одно сообщение диалога.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
