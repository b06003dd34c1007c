package domain

import "time"

// Task priority levels, highest first.
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

// ParsePriority maps a string onto a TaskPriority, defaulting to medium.
func ParsePriority(s string) TaskPriority {
	switch TaskPriority(s) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return TaskPriority(s)
	default:
		return PriorityMedium
	}
}

// Task lifecycle states.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// ValidStatus reports whether s names a known task status.
func ValidStatus(s string) bool {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Estimated energy cost of completing a task. Used by the assistant to avoid
// piling draining tasks onto an exhausted user.
type EnergyCost string

const (
	EnergyLow    EnergyCost = "low"
	EnergyMedium EnergyCost = "medium"
	EnergyHigh   EnergyCost = "high"
)

// Task is the core entity of the companion. It is more than a checkbox:
// energy cost and emotional context let the assistant tailor suggestions to
// the user's current state.
type Task struct {
	ID           string
	Title        string
	Description  string
	OriginalText string

	Priority      TaskPriority
	PriorityScore int

	EstimatedEnergyCost EnergyCost
	EmotionalContext    string

	CategoryType        string
	Location            string
	LocationCoordinates map[string]any

	DueDate                  *time.Time
	SuggestedTime            *time.Time
	ReminderTime             *time.Time
	EstimatedDurationMinutes int

	Status      TaskStatus
	CompletedAt *time.Time

	UserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoutingView projects the task into the shape the route planner consumes.
// Tasks without an explicit duration fall back to the planner default there.
func (t *Task) RoutingView() LocationTask {
	return LocationTask{
		ID:                       t.ID,
		Title:                    t.Title,
		Location:                 t.Location,
		Coordinates:              t.LocationCoordinates,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		Priority:                 string(t.Priority),
	}
}
