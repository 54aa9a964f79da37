// Package quota реализует дневной лимит сообщений для бесплатных аккаунтов.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/metrics"
)

// DailyMessageLimit — потолок сообщений в календарные сутки (UTC)
// для аккаунта без премиум-доступа.
const DailyMessageLimit = 30

// Repository определяет атомарный условный инкремент счётчика.
type Repository interface {
	TryConsumeQuota(ctx context.Context, accountID string, day time.Time, limit int) (bool, error)
}

// Service — шлюз дневного лимита. Вызывается только для аккаунтов без
// премиум-доступа; премиальные проходят мимо, не трогая счётчик.
type Service struct {
	repo  Repository
	limit int
	now   func() time.Time
	log   *slog.Logger
}

// New создает новый Service с лимитом по умолчанию.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		limit: DailyMessageLimit,
		now:   time.Now,
		log:   log,
	}
}

// TryConsume пытается занять единицу лимита на текущие сутки.
// Ошибка хранилища возвращается как есть: отказ инфраструктуры лимита
// трактуется как запрет, а не как разрешение.
func (s *Service) TryConsume(ctx context.Context, accountID string) (bool, error) {
	const op = "quota.TryConsume"

	day := s.now().UTC().Truncate(24 * time.Hour)
	allowed, err := s.repo.TryConsumeQuota(ctx, accountID, day, s.limit)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if allowed {
		metrics.QuotaDecisions.WithLabelValues("allowed").Inc()
	} else {
		metrics.QuotaDecisions.WithLabelValues("denied").Inc()
		s.log.Info("daily message limit reached", slog.String("account_id", accountID))
	}
	return allowed, nil
}
