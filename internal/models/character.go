package models

import "time"

// Возможные значения видимости персонажа.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Character описывает персонажа для ролевого чата.
type Character struct {
	ID              string    `json:"id"`
	CreatorID       string    `json:"creator_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Scenario        string    `json:"scenario"`
	Greeting        string    `json:"greeting"`
	ExampleDialogue string    `json:"example_dialogue"`
	IsNSFW          bool      `json:"is_nsfw"`
	Visibility      string    `json:"visibility"`
	AvatarURL       string    `json:"avatar_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// Persona описывает персону пользователя, подставляемую в промпт чата.
type Persona struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
