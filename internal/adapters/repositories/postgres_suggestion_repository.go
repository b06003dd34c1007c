package repositories

import (
	"context"
	"fmt"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/ports"
)

// Postgres-backed implementation of the SuggestionRepository port.
type PostgresSuggestionRepository struct {
	db Database
}

func NewPostgresSuggestionRepository(db Database) *PostgresSuggestionRepository {
	return &PostgresSuggestionRepository{db: db}
}

func (r *PostgresSuggestionRepository) Create(ctx context.Context, s *domain.ProactiveSuggestion) error {
	query := `
	INSERT INTO proactive_suggestions (
		id, user_id, suggestion_type, title, message, suggested_action, reasoning, confidence, expires_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.UserID, s.SuggestionType, s.Title, s.Message,
		s.SuggestedAction, s.Reasoning, s.Confidence, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create suggestion: %w", err)
	}
	return nil
}

// Active returns undismissed, unexpired suggestions, highest confidence first.
func (r *PostgresSuggestionRepository) Active(ctx context.Context, userID string, limit int) ([]*domain.ProactiveSuggestion, error) {
	query := `
	SELECT id, user_id, suggestion_type, title, message, suggested_action, reasoning,
		confidence, expires_at, shown_at, user_action, created_at
	FROM proactive_suggestions
	WHERE
		user_id = $1
		AND (expires_at IS NULL OR expires_at > now())
		AND (user_action IS NULL OR user_action = 'shown')
	ORDER BY confidence DESC, created_at DESC
	LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("active suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []*domain.ProactiveSuggestion
	for rows.Next() {
		var s domain.ProactiveSuggestion
		var action *string

		err := rows.Scan(&s.ID, &s.UserID, &s.SuggestionType, &s.Title, &s.Message,
			&s.SuggestedAction, &s.Reasoning, &s.Confidence, &s.ExpiresAt, &s.ShownAt,
			&action, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("active suggestions: scan row: %w", err)
		}

		if action != nil {
			s.UserAction = *action
		}
		suggestions = append(suggestions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("active suggestions: row iteration: %w", err)
	}

	return suggestions, nil
}

func (r *PostgresSuggestionRepository) MarkShown(ctx context.Context, id, action string) error {
	query := `
	UPDATE proactive_suggestions
	SET user_action = $1, shown_at = COALESCE(shown_at, now())
	WHERE id = $2;
	`

	tag, err := r.db.Exec(ctx, query, action, id)
	if err != nil {
		return fmt.Errorf("mark suggestion shown: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}
