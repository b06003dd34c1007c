package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/metrics"
	"task-companion-service/internal/ports"
)

const (
	maxProactiveSuggestions = 3
	activeSuggestionLimit   = 5
	proactiveMinConfidence  = 0.4
	suggestionExpiry        = 24 * time.Hour
)

// ErrInvalidAction is returned when a suggestion reaction is not one of
// shown, dismissed, or acted_on.
var ErrInvalidAction = errors.New("invalid action")

var validSuggestionActions = map[string]bool{
	"shown":     true,
	"dismissed": true,
	"acted_on":  true,
}

// ProactiveService anticipates user needs from learned patterns and the
// current task list, before the user asks.
type ProactiveService struct {
	log         *slog.Logger
	tasks       ports.TaskRepository
	patterns    ports.PatternRepository
	suggestions ports.SuggestionRepository
	cache       ports.SuggestionCache
	metrics     *metrics.Metrics
	cacheTTL    time.Duration
}

func NewProactiveService(
	log *slog.Logger,
	tasks ports.TaskRepository,
	patterns ports.PatternRepository,
	suggestions ports.SuggestionRepository,
	cache ports.SuggestionCache,
	m *metrics.Metrics,
	cacheTTL time.Duration,
) *ProactiveService {
	return &ProactiveService{
		log:         log,
		tasks:       tasks,
		patterns:    patterns,
		suggestions: suggestions,
		cache:       cache,
		metrics:     m,
		cacheTTL:    cacheTTL,
	}
}

// Suggestions returns the active suggestions for a user, optionally
// regenerating them first. Reads prefer the cache; generation always goes to
// the database and refreshes the cache.
func (ps *ProactiveService) Suggestions(ctx context.Context, userID string, generateNew bool) ([]*domain.ProactiveSuggestion, error) {
	if !generateNew && ps.cache != nil {
		cached, err := ps.cache.Get(ctx, userID)
		if err != nil {
			ps.log.WarnContext(ctx, "suggestion cache read failed", "error", err)
		} else if cached != nil {
			ps.metrics.SuggestionsServed.WithLabelValues("hit").Inc()
			return cached, nil
		}
	}

	if generateNew {
		if err := ps.generate(ctx, userID); err != nil {
			// Generation failure should not hide existing suggestions.
			ps.log.WarnContext(ctx, "failed to generate proactive suggestions", "error", err)
		}
	}

	active, err := ps.suggestions.Active(ctx, userID, activeSuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("proactive suggestions: %w", err)
	}

	if ps.cache != nil {
		if err := ps.cache.Set(ctx, userID, active, ps.cacheTTL); err != nil {
			ps.log.WarnContext(ctx, "suggestion cache write failed", "error", err)
		}
	}

	ps.metrics.SuggestionsServed.WithLabelValues("miss").Inc()
	return active, nil
}

// MarkShown records the user's reaction to a suggestion and drops the cached
// set so the next read reflects it.
func (ps *ProactiveService) MarkShown(ctx context.Context, id, action, userID string) error {
	if !validSuggestionActions[action] {
		return fmt.Errorf("mark suggestion %q: %w", action, ErrInvalidAction)
	}

	if err := ps.suggestions.MarkShown(ctx, id, action); err != nil {
		return fmt.Errorf("mark suggestion: %w", err)
	}

	if ps.cache != nil {
		if err := ps.cache.Invalidate(ctx, userID); err != nil {
			ps.log.WarnContext(ctx, "suggestion cache invalidation failed", "error", err)
		}
	}

	return nil
}

// generate derives up to three suggestions, highest confidence first, and
// persists them with an expiry so stale advice ages out on its own.
func (ps *ProactiveService) generate(ctx context.Context, userID string) error {
	patterns, err := ps.patterns.List(ctx, userID, "", proactiveMinConfidence)
	if err != nil {
		return fmt.Errorf("generate suggestions: list patterns: %w", err)
	}

	all, err := ps.tasks.List(ctx, ports.TaskFilter{UserID: userID})
	if err != nil {
		return fmt.Errorf("generate suggestions: list tasks: %w", err)
	}
	active := make([]*domain.Task, 0, len(all))
	for _, t := range all {
		if t.Status == domain.StatusPending || t.Status == domain.StatusInProgress {
			active = append(active, t)
		}
	}

	tc := NewTimeContext(time.Now())
	now := time.Now().UTC()

	var candidates []*domain.ProactiveSuggestion
	candidates = append(candidates, habitSuggestions(patterns, active, tc)...)
	candidates = append(candidates, energyMatchSuggestions(patterns, active, tc)...)
	if s := reminderSuggestion(active, now); s != nil {
		candidates = append(candidates, s)
	}
	if s := batchingSuggestion(active); s != nil {
		candidates = append(candidates, s)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > maxProactiveSuggestions {
		candidates = candidates[:maxProactiveSuggestions]
	}

	expires := now.Add(suggestionExpiry)
	for _, s := range candidates {
		s.ID = newID("suggestion")
		s.UserID = userID
		s.ExpiresAt = &expires
		if err := ps.suggestions.Create(ctx, s); err != nil {
			ps.log.WarnContext(ctx, "failed to save proactive suggestion", "type", s.SuggestionType, "error", err)
		}
	}

	ps.log.InfoContext(ctx, "generated proactive suggestions", "count", len(candidates))
	return nil
}

// habitSuggestions: the user typically handles a category around now, but has
// nothing of that category on the list.
func habitSuggestions(patterns []*domain.BehaviorPattern, active []*domain.Task, tc TimeContext) []*domain.ProactiveSuggestion {
	byCategory := make(map[string]int)
	for _, t := range active {
		byCategory[t.CategoryType]++
	}

	var out []*domain.ProactiveSuggestion
	for _, p := range patterns {
		if p.PatternType != domain.PatternTimePreference || p.Confidence <= 0.5 {
			continue
		}
		preferred, _ := p.PatternValue["time_of_day"].(string)
		if preferred != tc.TimeOfDay || byCategory[p.PatternKey] > 0 {
			continue
		}

		out = append(out, &domain.ProactiveSuggestion{
			SuggestionType: domain.SuggestionHabit,
			Title:          fmt.Sprintf("Time for %s tasks?", p.PatternKey),
			Message: fmt.Sprintf(
				"Based on your routine, you typically handle %s tasks during %s. Would you like to add any?",
				p.PatternKey, tc.TimeOfDay),
			SuggestedAction: fmt.Sprintf("Add %s task", p.PatternKey),
			Reasoning: fmt.Sprintf(
				"You usually mention %s tasks around this time (confidence: %.1f)",
				p.PatternKey, p.Confidence),
			Confidence: p.Confidence,
		})
	}
	return out
}

// energyMatchSuggestions: the user's typical energy is high right now and
// there is important work to point them at.
func energyMatchSuggestions(patterns []*domain.BehaviorPattern, active []*domain.Task, tc TimeContext) []*domain.ProactiveSuggestion {
	var out []*domain.ProactiveSuggestion
	for _, p := range patterns {
		if p.PatternType != domain.PatternEnergy || p.PatternKey != tc.TimeOfDay || p.Confidence <= 0.5 {
			continue
		}
		energy, ok := toFloat(p.PatternValue["typical_energy"])
		if !ok || energy <= 0.7 {
			continue
		}

		for _, t := range active {
			if t.Priority != domain.PriorityHigh && t.Priority != domain.PriorityCritical {
				continue
			}
			out = append(out, &domain.ProactiveSuggestion{
				SuggestionType: domain.SuggestionEnergyMatch,
				Title:          "Good time for important tasks",
				Message: fmt.Sprintf(
					"You typically have high energy during %s. This might be a good time to tackle important tasks.",
					tc.TimeOfDay),
				SuggestedAction: "Focus on: " + truncate(t.Title, 50),
				Reasoning: fmt.Sprintf(
					"Your energy pattern shows high energy at this time (confidence: %.1f)", p.Confidence),
				Confidence: p.Confidence,
			})
			break
		}
	}
	return out
}

// reminderSuggestion: critical tasks or anything due within 24 hours.
func reminderSuggestion(active []*domain.Task, now time.Time) *domain.ProactiveSuggestion {
	for _, t := range active {
		dueSoon := t.DueDate != nil && t.DueDate.Before(now.Add(24*time.Hour))
		if t.Priority != domain.PriorityCritical && !dueSoon {
			continue
		}

		msg := fmt.Sprintf("'%s' is %s priority", t.Title, t.Priority)
		if dueSoon {
			msg += " and due soon"
		}
		return &domain.ProactiveSuggestion{
			SuggestionType:  domain.SuggestionTaskReminder,
			Title:           "Important task reminder",
			Message:         msg,
			SuggestedAction: t.Title,
			Reasoning:       "High priority or time-sensitive task",
			Confidence:      0.9,
		}
	}
	return nil
}

// batchingSuggestion: three or more active tasks of one category can be done
// together. At most one batching hint per generation.
func batchingSuggestion(active []*domain.Task) *domain.ProactiveSuggestion {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, t := range active {
		cat := t.CategoryType
		if cat == "" {
			cat = "other"
		}
		if counts[cat] == 0 {
			order = append(order, cat)
		}
		counts[cat]++
	}

	for _, cat := range order {
		if counts[cat] < 3 {
			continue
		}
		return &domain.ProactiveSuggestion{
			SuggestionType: domain.SuggestionTimeOptimization,
			Title:          fmt.Sprintf("Batch %s tasks?", cat),
			Message: fmt.Sprintf(
				"You have %d %s tasks. Consider doing them together to save time.", counts[cat], cat),
			SuggestedAction: fmt.Sprintf("Plan %s tasks", cat),
			Reasoning:       "Multiple tasks of the same category can be batched",
			Confidence:      0.7,
		}
	}
	return nil
}
