// Package images содержит бизнес-логику генерации изображений —
// премиум-функции без дневного лимита.
package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/entitlement"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// ErrPremiumRequired — генерация изображений доступна только премиум-аккаунтам.
var ErrPremiumRequired = errors.New("premium feature")

// AccountRepository читает аккаунты для проверки доступа.
type AccountRepository interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// Generator — клиент провайдера генерации изображений.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Service реализует премиум-генерацию изображений.
type Service struct {
	repo AccountRepository
	gen  Generator
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый Service.
func New(repo AccountRepository, gen Generator, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		gen:  gen,
		log:  log,
		now:  time.Now,
	}
}

// Generate проверяет премиум-доступ по свежей записи аккаунта и вызывает
// провайдера. Возвращает изображение в base64.
func (s *Service) Generate(ctx context.Context, accountID, prompt string) (string, error) {
	const op = "images.Generate"

	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !entitlement.IsPremiumLike(acc, s.now()) {
		return "", ErrPremiumRequired
	}

	image, err := s.gen.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return image, nil
}
