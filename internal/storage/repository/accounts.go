package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// GetAccount возвращает аккаунт по id.
func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccount"

	var acc models.Account
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, email, plan, is_admin, trial_until, nsfw_enabled, is_over_18, created_at
		 FROM accounts WHERE id = $1`, id).
		Scan(&acc.ID, &acc.Email, &acc.Plan, &acc.IsAdmin, &acc.TrialUntil,
			&acc.NSFWEnabled, &acc.IsOver18, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &acc, nil
}

// ListAccounts возвращает страницу аккаунтов, отсортированных по дате
// регистрации от новых к старым.
func (s *Storage) ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error) {
	const op = "storage.ListAccounts"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, email, plan, is_admin, trial_until, nsfw_enabled, is_over_18, created_at
		 FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.ID, &acc.Email, &acc.Plan, &acc.IsAdmin, &acc.TrialUntil,
			&acc.NSFWEnabled, &acc.IsOver18, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return accounts, nil
}

// ApplyUpgrade переводит аккаунт на премиум и снимает триал одним
// UPDATE. Повторное применение даёт то же конечное состояние, поэтому
// повторная доставка уведомления провайдером безопасна. Возвращает
// количество затронутых строк: 0 — аккаунта с таким id нет.
func (s *Storage) ApplyUpgrade(ctx context.Context, accountID string) (int64, error) {
	const op = "storage.ApplyUpgrade"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE accounts SET plan = $1, trial_until = NULL WHERE id = $2`,
		models.PlanPremium, accountID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// UpdateAccount применяет административный частичный апдейт аккаунта.
// Собирается только из явно переданных полей патча.
func (s *Storage) UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (int64, error) {
	const op = "storage.UpdateAccount"

	set := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Plan != nil {
		add("plan", *patch.Plan)
	}
	if patch.IsAdmin != nil {
		add("is_admin", *patch.IsAdmin)
	}
	if patch.ClearTrial {
		set = append(set, "trial_until = NULL")
	} else if patch.TrialUntil != nil {
		add("trial_until", *patch.TrialUntil)
	}
	if patch.NSFWEnabled != nil {
		add("nsfw_enabled", *patch.NSFWEnabled)
	}
	if patch.IsOver18 != nil {
		add("is_over_18", *patch.IsOver18)
	}

	if len(set) == 0 {
		return 0, nil
	}

	args = append(args, id)
	query := "UPDATE accounts SET " + strings.Join(set, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
