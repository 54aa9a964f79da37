// Package billing содержит бизнес-логику биллинга: построение платёжного
// запроса и идемпотентное применение подтверждённого платежа к аккаунту.
package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/metrics"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
)

// AccountRepository определяет методы работы с аккаунтами в хранилище.
type AccountRepository interface {
	// GetAccount возвращает аккаунт по id.
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// ApplyUpgrade переводит аккаунт на премиум; возвращает число затронутых строк.
	ApplyUpgrade(ctx context.Context, accountID string) (int64, error)
	// UpdateAccount применяет административный патч; возвращает число затронутых строк.
	UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (int64, error)
	// ListAccounts возвращает страницу аккаунтов.
	ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error)
}

// UpgradePublisher публикует событие об апгрейде аккаунта.
type UpgradePublisher interface {
	PublishUpgraded(event UpgradedEvent) error
}

// UpgradedEvent — событие для сервиса нотификаций: аккаунт стал премиальным.
type UpgradedEvent struct {
	AccountID string `json:"account_id"`
	Reference string `json:"reference"`
}

// Service реализует операции биллинга.
type Service struct {
	repo      AccountRepository
	cfg       payfast.Config
	publisher UpgradePublisher // nil — события не публикуются
	log       *slog.Logger
}

// New создает новый Service.
func New(repo AccountRepository, cfg payfast.Config, publisher UpgradePublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cfg:       cfg,
		publisher: publisher,
		log:       log,
	}
}

// Configured сообщает, заданы ли учётные данные мерчанта.
func (s *Service) Configured() bool {
	return s.cfg.MerchantID != "" && s.cfg.MerchantKey != ""
}

// BuildCheckout собирает подписанный платёжный запрос для аккаунта.
func (s *Service) BuildCheckout(ctx context.Context, accountID string) (*payfast.Checkout, error) {
	const op = "billing.BuildCheckout"

	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	checkout, err := payfast.BuildCheckout(s.cfg, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return checkout, nil
}

// ApplyUpgrade применяет подтверждённый платёж: plan=premium, триал
// снимается. Идемпотентен — повторная доставка того же уведомления
// приводит аккаунт в то же состояние и не считается ошибкой.
func (s *Service) ApplyUpgrade(ctx context.Context, accountID, reference string) error {
	const op = "billing.ApplyUpgrade"
	log := s.log.With(slog.String("op", op), slog.String("account_id", accountID))

	rows, err := s.repo.ApplyUpgrade(ctx, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		// Аккаунт не найден: уведомление устарело либо id чужой.
		// Отвечаем успехом, чтобы провайдер не ретраил его вечно.
		log.Warn("upgrade matched no account")
		return nil
	}

	metrics.UpgradesApplied.Inc()
	log.Info("account upgraded to premium", slog.String("reference", reference))

	if s.publisher != nil {
		event := UpgradedEvent{AccountID: accountID, Reference: reference}
		if err := s.publisher.PublishUpgraded(event); err != nil {
			// Событие вторично: апгрейд уже применён, ошибку только логируем.
			log.Error("failed to publish upgrade event", sl.Err(err))
		}
	}
	return nil
}

// GetAccount возвращает аккаунт по id.
func (s *Service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// ListAccounts возвращает страницу аккаунтов для административного
// списка пользователей.
func (s *Service) ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error) {
	const op = "billing.ListAccounts"

	accounts, err := s.repo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return accounts, nil
}

// UpdateAccount применяет административный патч (в том числе выдачу
// и снятие триала). Возвращает ErrNotFound-совместимую ошибку хранилища,
// если аккаунта нет.
func (s *Service) UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (int64, error) {
	const op = "billing.UpdateAccount"

	rows, err := s.repo.UpdateAccount(ctx, id, patch)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
