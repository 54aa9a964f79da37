// Package models содержит структуры данных предметной области:
// аккаунты пользователей, персонажи, персоны и сообщения чата.
package models

import "time"

// Возможные значения тарифного плана аккаунта.
const (
	// PlanFree — бесплатный тариф, действует дневной лимит сообщений.
	PlanFree = "free"
	// PlanPremium — платный тариф без лимитов.
	PlanPremium = "premium"
)

// Account описывает аккаунт пользователя и поля, от которых зависит
// доступ к премиум-функциям. Создаётся при регистрации, изменяется
// только апгрейдом после оплаты либо административным действием.
type Account struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Plan        string     `json:"plan"`
	IsAdmin     bool       `json:"is_admin"`
	TrialUntil  *time.Time `json:"trial_until,omitempty"` // Срок действия триала; nil — триала нет
	NSFWEnabled bool       `json:"nsfw_enabled"`
	IsOver18    bool       `json:"is_over_18"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AccountPatch — частичное административное обновление аккаунта.
// Указатели отличают «не менять» от «установить в нулевое значение».
type AccountPatch struct {
	Plan        *string    `json:"plan,omitempty" validate:"omitempty,oneof=free premium"`
	IsAdmin     *bool      `json:"is_admin,omitempty"`
	TrialUntil  *time.Time `json:"trial_until,omitempty"`
	ClearTrial  bool       `json:"clear_trial,omitempty"`
	NSFWEnabled *bool      `json:"nsfw_enabled,omitempty"`
	IsOver18    *bool      `json:"is_over_18,omitempty"`
}
