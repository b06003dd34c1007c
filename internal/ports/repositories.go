package ports

import (
	"context"
	"errors"
	"time"

	"task-companion-service/internal/domain"
)

// ErrNotFound is returned by repositories when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// TaskFilter narrows task listings. Zero values mean "no filter".
type TaskFilter struct {
	UserID   string
	Status   domain.TaskStatus
	Priority domain.TaskPriority
	Limit    int
}

// TaskUpdate carries the mutable task fields for partial updates.
// Nil pointers leave the stored value untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *domain.TaskPriority
	Status       *domain.TaskStatus
	ReminderTime *time.Time
}

// Port: a boundary for persisting and retrieving Task entities.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	MarkComplete(ctx context.Context, id string) (*domain.Task, error)

	// Coordinate enrichment support: tasks with a free-text location but no
	// coordinates yet, bounded by a per-task attempt budget.
	FetchForGeocoding(ctx context.Context, limit int) ([]*domain.Task, error)
	UpdateCoordinates(ctx context.Context, id string, coords domain.Coordinates) error
	IncrementGeocodeFailure(ctx context.Context, id string, errMsg string) error
}

// Port: recorded exchanges between the user and the assistant.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	Recent(ctx context.Context, userID, sessionID string, limit int) ([]*domain.Conversation, error)
}

// Port: learned user behavior patterns.
type PatternRepository interface {
	// Upsert stores a new pattern or bumps an existing one (confidence +0.1
	// capped at 1.0, frequency +1, last observed refreshed).
	Upsert(ctx context.Context, pattern *domain.BehaviorPattern) (*domain.BehaviorPattern, error)
	List(ctx context.Context, userID, patternType string, minConfidence float64) ([]*domain.BehaviorPattern, error)
}

// Port: proactive suggestions persisted for later delivery.
type SuggestionRepository interface {
	Create(ctx context.Context, s *domain.ProactiveSuggestion) error
	Active(ctx context.Context, userID string, limit int) ([]*domain.ProactiveSuggestion, error)
	MarkShown(ctx context.Context, id, action string) error
}

// Port: persisted emotional state observations.
type EmotionRepository interface {
	Create(ctx context.Context, snap *domain.EmotionSnapshot) error
}
