package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и разбора JWT-токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен для аккаунта.
	GenerateToken(accountID string) (string, error)
	// ParseToken возвращает *SessionClaims, если токен валиден.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker на секретном ключе HS256 и времени жизни токена.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
