package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// CreateCharacter добавляет персонажа и возвращает его id.
func (s *Storage) CreateCharacter(ctx context.Context, ch models.Character) (string, error) {
	const op = "storage.CreateCharacter"

	var id string
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO characters
		 (creator_id, name, description, scenario, greeting, example_dialogue, is_nsfw, visibility, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		ch.CreatorID, ch.Name, ch.Description, ch.Scenario, ch.Greeting,
		ch.ExampleDialogue, ch.IsNSFW, ch.Visibility, ch.AvatarURL).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// CountCharacters возвращает число персонажей, созданных аккаунтом.
func (s *Storage) CountCharacters(ctx context.Context, creatorID string) (int, error) {
	const op = "storage.CountCharacters"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM characters WHERE creator_id = $1`, creatorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// GetCharacter возвращает персонажа по id.
func (s *Storage) GetCharacter(ctx context.Context, id string) (*models.Character, error) {
	const op = "storage.GetCharacter"

	var ch models.Character
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, creator_id, name, description, scenario, greeting,
		        example_dialogue, is_nsfw, visibility, avatar_url, created_at
		 FROM characters WHERE id = $1`, id).
		Scan(&ch.ID, &ch.CreatorID, &ch.Name, &ch.Description, &ch.Scenario,
			&ch.Greeting, &ch.ExampleDialogue, &ch.IsNSFW, &ch.Visibility,
			&ch.AvatarURL, &ch.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ch, nil
}

// CreatePersona добавляет персону пользователя и возвращает её id.
func (s *Storage) CreatePersona(ctx context.Context, p models.Persona) (string, error) {
	const op = "storage.CreatePersona"

	var id string
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO personas (account_id, name, description)
		 VALUES ($1, $2, $3) RETURNING id`,
		p.AccountID, p.Name, p.Description).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetPersona возвращает персону по id, но только принадлежащую аккаунту.
func (s *Storage) GetPersona(ctx context.Context, id, accountID string) (*models.Persona, error) {
	const op = "storage.GetPersona"

	var p models.Persona
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, account_id, name, description, created_at
		 FROM personas WHERE id = $1 AND account_id = $2`, id, accountID).
		Scan(&p.ID, &p.AccountID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
