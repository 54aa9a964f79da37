package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetOrCreateConversation находит диалог пары (аккаунт, персонаж) или
// создаёт новый. На пару поддерживается один диалог.
func (s *Storage) GetOrCreateConversation(ctx context.Context, accountID, characterID string) (string, error) {
	const op = "storage.GetOrCreateConversation"

	var id string
	err := s.DB.QueryRowContext(ctx,
		`SELECT id FROM conversations WHERE account_id = $1 AND character_id = $2`,
		accountID, characterID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Конкурентная вставка той же пары упрётся в UNIQUE; в этом случае
	// забираем уже созданный диалог.
	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO conversations (account_id, character_id)
		 VALUES ($1, $2)
		 ON CONFLICT (account_id, character_id) DO UPDATE SET account_id = EXCLUDED.account_id
		 RETURNING id`,
		accountID, characterID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// SaveMessage сохраняет сообщение диалога и возвращает его id.
func (s *Storage) SaveMessage(ctx context.Context, conversationID, role, content string) (string, error) {
	const op = "storage.SaveMessage"

	var id string
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO messages (conversation_id, role, content)
		 VALUES ($1, $2, $3) RETURNING id`,
		conversationID, role, content).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
