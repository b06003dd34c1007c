package domain

import "time"

// Known behavior pattern types.
const (
	PatternTimePreference = "time_preference"
	PatternEnergy         = "energy_pattern"
	PatternTaskCategory   = "task_category"
)

// BehaviorPattern is a learned observation about the user, e.g. "mentions
// errands in the morning". Confidence grows with repeated observations and
// is capped at 1.0.
type BehaviorPattern struct {
	ID           string
	UserID       string
	PatternType  string
	PatternKey   string
	PatternValue map[string]any
	Confidence   float64
	Frequency    int
	TimeOfDay    string
	DayOfWeek    string
	LastObserved time.Time
	CreatedAt    time.Time
}
