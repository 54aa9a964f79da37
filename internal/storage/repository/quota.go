package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TryConsumeQuota атомарно занимает одну единицу дневного лимита
// сообщений. Условный UPSERT инкрементирует счётчик только пока он
// ниже потолка; если условие не выполнено, строка не возвращается и
// попытка считается отклонённой. Два конкурентных запроса не могут
// оба увидеть «под лимитом» — решение принимает сама БД.
func (s *Storage) TryConsumeQuota(ctx context.Context, accountID string, day time.Time, limit int) (bool, error) {
	const op = "storage.TryConsumeQuota"

	var used int
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO message_quota (account_id, day, used)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (account_id, day)
		 DO UPDATE SET used = message_quota.used + 1
		 WHERE message_quota.used < $3
		 RETURNING used`,
		accountID, day.Format("2006-01-02"), limit).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return used <= limit, nil
}
