package domain

import "time"

// Proactive suggestion types.
const (
	SuggestionHabit            = "habit_suggestion"
	SuggestionEnergyMatch      = "energy_match"
	SuggestionTaskReminder     = "task_reminder"
	SuggestionTimeOptimization = "time_optimization"
)

// ProactiveSuggestion is advice generated before the user asks, derived from
// learned patterns and the current task list. Suggestions expire so stale
// advice does not linger.
type ProactiveSuggestion struct {
	ID              string
	UserID          string
	SuggestionType  string
	Title           string
	Message         string
	SuggestedAction string
	Reasoning       string
	Confidence      float64
	ExpiresAt       *time.Time
	ShownAt         *time.Time
	UserAction      string
	CreatedAt       time.Time
}
