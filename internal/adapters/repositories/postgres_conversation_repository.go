package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"task-companion-service/internal/domain"
)

// Postgres-backed implementation of the ConversationRepository port.
type PostgresConversationRepository struct {
	db Database
}

func NewPostgresConversationRepository(db Database) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	var state []byte
	if conv.EmotionalState != nil {
		raw, err := json.Marshal(conv.EmotionalState)
		if err != nil {
			return fmt.Errorf("create conversation: encode emotional state: %w", err)
		}
		state = raw
	}

	taskIDs, err := json.Marshal(conv.ExtractedTasks)
	if err != nil {
		return fmt.Errorf("create conversation: encode task ids: %w", err)
	}

	query := `
	INSERT INTO conversations (
		id, user_id, session_id, user_input, ai_response, transcript, emotional_state, extracted_tasks
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err = r.db.Exec(ctx, query,
		conv.ID, conv.UserID, conv.SessionID, conv.UserInput, conv.AIResponse,
		conv.Transcript, state, taskIDs,
	)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *PostgresConversationRepository) Recent(ctx context.Context, userID, sessionID string, limit int) ([]*domain.Conversation, error) {
	query := `
	SELECT id, user_id, session_id, user_input, ai_response, transcript, emotional_state, extracted_tasks, created_at
	FROM conversations
	WHERE user_id = $1 AND ($2 = '' OR session_id = $2)
	ORDER BY created_at DESC
	LIMIT $3;
	`

	rows, err := r.db.Query(ctx, query, userID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent conversations: %w", err)
	}
	defer rows.Close()

	var convs []*domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		var state, taskIDs []byte

		err := rows.Scan(&c.ID, &c.UserID, &c.SessionID, &c.UserInput, &c.AIResponse,
			&c.Transcript, &state, &taskIDs, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("recent conversations: scan row: %w", err)
		}

		if len(state) > 0 {
			if err := json.Unmarshal(state, &c.EmotionalState); err != nil {
				return nil, fmt.Errorf("recent conversations: decode emotional state: %w", err)
			}
		}
		if len(taskIDs) > 0 {
			if err := json.Unmarshal(taskIDs, &c.ExtractedTasks); err != nil {
				return nil, fmt.Errorf("recent conversations: decode task ids: %w", err)
			}
		}
		convs = append(convs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent conversations: row iteration: %w", err)
	}

	return convs, nil
}
