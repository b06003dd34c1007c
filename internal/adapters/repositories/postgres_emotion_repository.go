package repositories

import (
	"context"
	"fmt"

	"task-companion-service/internal/domain"
)

// Postgres-backed implementation of the EmotionRepository port.
type PostgresEmotionRepository struct {
	db Database
}

func NewPostgresEmotionRepository(db Database) *PostgresEmotionRepository {
	return &PostgresEmotionRepository{db: db}
}

func (r *PostgresEmotionRepository) Create(ctx context.Context, snap *domain.EmotionSnapshot) error {
	query := `
	INSERT INTO emotion_snapshots (
		id, user_id, primary_emotion, energy_level, stress_level, confidence, transcript_text, task_count
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := r.db.Exec(ctx, query,
		snap.ID, snap.UserID, snap.PrimaryEmotion, snap.EnergyLevel, snap.StressLevel,
		snap.Confidence, snap.TranscriptText, snap.TaskCount,
	)
	if err != nil {
		return fmt.Errorf("create emotion snapshot: %w", err)
	}
	return nil
}
