package ports

import (
	"context"
	"time"

	"task-companion-service/internal/domain"
)

// Port: short-lived cache for rendered proactive-suggestion sets, keyed by
// user. A cache miss returns (nil, nil): absence is not an error.
type SuggestionCache interface {
	Get(ctx context.Context, userID string) ([]*domain.ProactiveSuggestion, error)
	Set(ctx context.Context, userID string, suggestions []*domain.ProactiveSuggestion, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}
