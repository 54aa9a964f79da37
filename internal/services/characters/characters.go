// Package characters содержит бизнес-логику создания персонажей и персон.
// Персоны доступны только аккаунтам с премиум-доступом; у персонажей
// для бесплатного тарифа действует лимит в одного публичного персонажа.
package characters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/entitlement"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// ErrPremiumRequired — операция доступна только премиум-аккаунтам.
var ErrPremiumRequired = errors.New("premium feature")

// FreeCharacterLimit — сколько персонажей может создать бесплатный аккаунт.
const FreeCharacterLimit = 1

// Repository определяет методы хранилища для создания контента.
type Repository interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	CreateCharacter(ctx context.Context, ch models.Character) (string, error)
	CountCharacters(ctx context.Context, creatorID string) (int, error)
	CreatePersona(ctx context.Context, p models.Persona) (string, error)
}

// Service реализует создание персонажей и персон.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// CreateCharacter создает персонажа от имени аккаунта.
//
// Премиум-доступ не обязателен: бесплатный тариф может завести одного
// персонажа, но только публичного. Сверх лимита — ErrPremiumRequired.
// Ошибка подсчёта лимита трактуется как запрет.
func (s *Service) CreateCharacter(ctx context.Context, accountID string, ch models.Character) (string, error) {
	const op = "characters.CreateCharacter"

	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !entitlement.IsPremiumLike(acc, s.now()) {
		count, err := s.repo.CountCharacters(ctx, accountID)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if count >= FreeCharacterLimit {
			return "", ErrPremiumRequired
		}
		ch.Visibility = models.VisibilityPublic
	}

	ch.CreatorID = accountID
	if ch.Visibility == "" {
		ch.Visibility = models.VisibilityPublic
	}

	id, err := s.repo.CreateCharacter(ctx, ch)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("character created",
		slog.String("op", op),
		slog.String("character_id", id),
		slog.String("account_id", accountID))
	return id, nil
}

// CreatePersona создает персону пользователя.
func (s *Service) CreatePersona(ctx context.Context, accountID string, p models.Persona) (string, error) {
	const op = "characters.CreatePersona"

	if err := s.requirePremium(ctx, accountID); err != nil {
		return "", err
	}

	p.AccountID = accountID
	id, err := s.repo.CreatePersona(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// requirePremium перечитывает аккаунт и проверяет премиум-доступ.
// Любая неопределённость (ошибка чтения) трактуется как отсутствие доступа.
func (s *Service) requirePremium(ctx context.Context, accountID string) error {
	const op = "characters.requirePremium"

	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !entitlement.IsPremiumLike(acc, s.now()) {
		return ErrPremiumRequired
	}
	return nil
}
