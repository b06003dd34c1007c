package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"task-companion-service/internal/domain"
)

// RedisSuggestionCache stores rendered proactive-suggestion sets in Redis,
// keyed per user, with a TTL. A miss returns (nil, nil).
type RedisSuggestionCache struct {
	client *redis.Client
}

func NewRedisSuggestionCache(client *redis.Client) *RedisSuggestionCache {
	return &RedisSuggestionCache{client: client}
}

func suggestionKey(userID string) string {
	if userID == "" {
		userID = "default"
	}
	return "suggestions:" + userID
}

func (c *RedisSuggestionCache) Get(ctx context.Context, userID string) ([]*domain.ProactiveSuggestion, error) {
	raw, err := c.client.Get(ctx, suggestionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("suggestion cache get: %w", err)
	}

	var suggestions []*domain.ProactiveSuggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		// A corrupt entry is treated as a miss so it gets rewritten.
		return nil, nil
	}
	return suggestions, nil
}

func (c *RedisSuggestionCache) Set(ctx context.Context, userID string, suggestions []*domain.ProactiveSuggestion, ttl time.Duration) error {
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("suggestion cache set: marshal: %w", err)
	}
	if err := c.client.Set(ctx, suggestionKey(userID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("suggestion cache set: %w", err)
	}
	return nil
}

func (c *RedisSuggestionCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, suggestionKey(userID)).Err(); err != nil {
		return fmt.Errorf("suggestion cache invalidate: %w", err)
	}
	return nil
}
