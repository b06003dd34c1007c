package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"task-companion-service/internal/domain"
)

// Postgres-backed implementation of the PatternRepository port.
type PostgresPatternRepository struct {
	db Database
}

func NewPostgresPatternRepository(db Database) *PostgresPatternRepository {
	return &PostgresPatternRepository{db: db}
}

const patternColumns = `id, user_id, pattern_type, pattern_key, pattern_value,
	confidence, frequency, time_of_day, day_of_week, last_observed, created_at`

// Upsert inserts a new observation or reinforces an existing one: confidence
// grows by 0.1 per repeat observation, capped at 1.0. Callers hand in
// patterns without an ID; one is assigned here so the insert always carries
// a unique primary key even when the conflict target does not match.
func (r *PostgresPatternRepository) Upsert(ctx context.Context, pattern *domain.BehaviorPattern) (*domain.BehaviorPattern, error) {
	value, err := json.Marshal(pattern.PatternValue)
	if err != nil {
		return nil, fmt.Errorf("upsert pattern: encode value: %w", err)
	}

	id := pattern.ID
	if id == "" {
		id = domain.NewID("pattern")
	}

	query := `
	INSERT INTO behavior_patterns (
		id, user_id, pattern_type, pattern_key, pattern_value, confidence, frequency, time_of_day, day_of_week
	)
	VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
	ON CONFLICT (user_id, pattern_type, pattern_key) DO UPDATE SET
		pattern_value = EXCLUDED.pattern_value,
		confidence = LEAST(behavior_patterns.confidence + 0.1, 1.0),
		frequency = behavior_patterns.frequency + 1,
		time_of_day = EXCLUDED.time_of_day,
		day_of_week = EXCLUDED.day_of_week,
		last_observed = now()
	RETURNING ` + patternColumns + `;`

	row := r.db.QueryRow(ctx, query,
		id, pattern.UserID, pattern.PatternType, pattern.PatternKey, value,
		pattern.Confidence, pattern.TimeOfDay, pattern.DayOfWeek,
	)

	stored, err := scanPattern(row)
	if err != nil {
		return nil, fmt.Errorf("upsert pattern: %w", err)
	}
	return stored, nil
}

func (r *PostgresPatternRepository) List(ctx context.Context, userID, patternType string, minConfidence float64) ([]*domain.BehaviorPattern, error) {
	query := `
	SELECT ` + patternColumns + `
	FROM behavior_patterns
	WHERE user_id = $1 AND ($2 = '' OR pattern_type = $2) AND confidence >= $3
	ORDER BY confidence DESC, last_observed DESC;
	`

	rows, err := r.db.Query(ctx, query, userID, patternType, minConfidence)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*domain.BehaviorPattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("list patterns: scan row: %w", err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patterns: row iteration: %w", err)
	}

	return patterns, nil
}

func scanPattern(row pgx.Row) (*domain.BehaviorPattern, error) {
	var p domain.BehaviorPattern
	var value []byte

	err := row.Scan(&p.ID, &p.UserID, &p.PatternType, &p.PatternKey, &value,
		&p.Confidence, &p.Frequency, &p.TimeOfDay, &p.DayOfWeek, &p.LastObserved, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(value) > 0 {
		if err := json.Unmarshal(value, &p.PatternValue); err != nil {
			return nil, fmt.Errorf("decode pattern value: %w", err)
		}
	}
	return &p, nil
}
