package repositories

import (
	"context"
	"fmt"
)

// InitSchema creates the service's tables and indexes if they do not exist.
func InitSchema(ctx context.Context, db Database) error {
	createTasksQuery := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		original_text TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		priority_score INTEGER NOT NULL DEFAULT 0,
		estimated_energy_cost TEXT NOT NULL DEFAULT '',
		emotional_context TEXT NOT NULL DEFAULT '',
		category_type TEXT NOT NULL DEFAULT 'personal',
		location TEXT NOT NULL DEFAULT '',
		location_coordinates JSONB,
		due_date TIMESTAMPTZ,
		suggested_time TIMESTAMPTZ,
		reminder_time TIMESTAMPTZ,
		estimated_duration_minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		completed_at TIMESTAMPTZ,
		user_id TEXT NOT NULL DEFAULT '',
		geocoding_attempts INTEGER NOT NULL DEFAULT 0,
		geocoding_error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createConversationsQuery := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL DEFAULT '',
		user_input TEXT NOT NULL DEFAULT '',
		ai_response TEXT NOT NULL DEFAULT '',
		transcript TEXT NOT NULL DEFAULT '',
		emotional_state JSONB,
		extracted_tasks JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createPatternsQuery := `
	CREATE TABLE IF NOT EXISTS behavior_patterns (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		pattern_type TEXT NOT NULL,
		pattern_key TEXT NOT NULL,
		pattern_value JSONB,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		frequency INTEGER NOT NULL DEFAULT 1,
		time_of_day TEXT NOT NULL DEFAULT '',
		day_of_week TEXT NOT NULL DEFAULT '',
		last_observed TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, pattern_type, pattern_key)
	);
	`

	createSuggestionsQuery := `
	CREATE TABLE IF NOT EXISTS proactive_suggestions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		suggestion_type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		suggested_action TEXT NOT NULL DEFAULT '',
		reasoning TEXT NOT NULL DEFAULT '',
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		expires_at TIMESTAMPTZ,
		shown_at TIMESTAMPTZ,
		user_action TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createEmotionsQuery := `
	CREATE TABLE IF NOT EXISTS emotion_snapshots (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		primary_emotion TEXT NOT NULL DEFAULT '',
		energy_level DOUBLE PRECISION NOT NULL DEFAULT 0,
		stress_level DOUBLE PRECISION NOT NULL DEFAULT 0,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		transcript_text TEXT NOT NULL DEFAULT '',
		task_count INTEGER NOT NULL DEFAULT 0,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexesQuery := `
	CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_conversations_user_created ON conversations(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_suggestions_user_expires ON proactive_suggestions(user_id, expires_at);
	`

	statements := []string{
		createTasksQuery,
		createConversationsQuery,
		createPatternsQuery,
		createSuggestionsQuery,
		createEmotionsQuery,
		createIndexesQuery,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}
