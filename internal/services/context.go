package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/ports"
)

const (
	recentConversationLimit = 5
	activeTaskLimit         = 10
	patternMinConfidence    = 0.3
)

// InteractionContext is the assembled background the assistant reasons over:
// what the user said recently, what it has learned about them, and what is
// already on their plate.
type InteractionContext struct {
	RecentConversations []*domain.Conversation
	Patterns            []*domain.BehaviorPattern
	ActiveTasks         []*domain.Task
	Time                TimeContext
}

// ContextService assembles interaction context and feeds observations back
// into the pattern store.
type ContextService struct {
	log           *slog.Logger
	tasks         ports.TaskRepository
	conversations ports.ConversationRepository
	patterns      ports.PatternRepository
}

func NewContextService(
	log *slog.Logger,
	tasks ports.TaskRepository,
	conversations ports.ConversationRepository,
	patterns ports.PatternRepository,
) *ContextService {
	return &ContextService{
		log:           log,
		tasks:         tasks,
		conversations: conversations,
		patterns:      patterns,
	}
}

// Build gathers recent history, learned patterns, and active tasks. Partial
// context is better than none: individual lookups that fail are logged and
// skipped rather than failing the interaction.
func (cs *ContextService) Build(ctx context.Context, userID, sessionID string) InteractionContext {
	ic := InteractionContext{Time: NewTimeContext(time.Now())}

	convos, err := cs.conversations.Recent(ctx, userID, sessionID, recentConversationLimit)
	if err != nil {
		cs.log.WarnContext(ctx, "failed to load recent conversations", "error", err)
	} else {
		ic.RecentConversations = convos
	}

	patterns, err := cs.patterns.List(ctx, userID, "", patternMinConfidence)
	if err != nil {
		cs.log.WarnContext(ctx, "failed to load behavior patterns", "error", err)
	} else {
		ic.Patterns = patterns
	}

	tasks, err := cs.tasks.List(ctx, ports.TaskFilter{UserID: userID})
	if err != nil {
		cs.log.WarnContext(ctx, "failed to load tasks for context", "error", err)
	} else {
		active := make([]*domain.Task, 0, activeTaskLimit)
		for _, t := range tasks {
			if t.Status == domain.StatusPending || t.Status == domain.StatusInProgress {
				active = append(active, t)
				if len(active) == activeTaskLimit {
					break
				}
			}
		}
		ic.ActiveTasks = active
	}

	return ic
}

// FormatForPrompt renders the context into a digestible block for the model.
func (ic InteractionContext) FormatForPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "TIME CONTEXT: It's %s (%s), hour %d.\n",
		ic.Time.TimeOfDay, ic.Time.DayOfWeek, ic.Time.Hour)

	if len(ic.RecentConversations) > 0 {
		b.WriteString("\nRECENT CONVERSATION HISTORY:\n")
		for i, conv := range ic.RecentConversations {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. User: %s\n", i+1, truncate(conv.UserInput, 200))
			if conv.AIResponse != "" {
				fmt.Fprintf(&b, "   AI: %s\n", truncate(conv.AIResponse, 200))
			}
		}
	}

	if len(ic.Patterns) > 0 {
		b.WriteString("\nLEARNED USER PATTERNS:\n")
		for i, p := range ic.Patterns {
			if i == 5 {
				break
			}
			switch p.PatternType {
			case domain.PatternTimePreference:
				fmt.Fprintf(&b, "- User typically mentions '%s' tasks during %s (confidence: %.1f)\n",
					p.PatternKey, p.TimeOfDay, p.Confidence)
			case domain.PatternEnergy:
				energy, _ := toFloat(p.PatternValue["typical_energy"])
				fmt.Fprintf(&b, "- User's typical energy at %s: %.1f (confidence: %.1f)\n",
					p.PatternKey, energy, p.Confidence)
			case domain.PatternTaskCategory:
				fmt.Fprintf(&b, "- User frequently mentions '%s' tasks (confidence: %.1f)\n",
					p.PatternKey, p.Confidence)
			}
		}
	}

	if len(ic.ActiveTasks) > 0 {
		fmt.Fprintf(&b, "\nCURRENT ACTIVE TASKS (%d):\n", len(ic.ActiveTasks))
		for i, t := range ic.ActiveTasks {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n", strings.ToUpper(string(t.Priority)), truncate(t.Title, 100))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// LearnPatterns upserts behavior observations after an interaction: which
// categories come up at this time of day, the user's typical energy, and
// category frequency. Called best-effort; failures are logged only.
func (cs *ContextService) LearnPatterns(
	ctx context.Context,
	userID string,
	tasks []*domain.Task,
	state domain.EmotionalState,
	tc TimeContext,
) {
	for _, task := range tasks {
		category := task.CategoryType
		if category == "" {
			category = "other"
		}
		_, err := cs.patterns.Upsert(ctx, &domain.BehaviorPattern{
			UserID:      userID,
			PatternType: domain.PatternTimePreference,
			PatternKey:  category,
			PatternValue: map[string]any{
				"time_of_day": tc.TimeOfDay,
				"hour":        tc.Hour,
				"day_of_week": tc.DayOfWeek,
			},
			Confidence: 0.4,
			TimeOfDay:  tc.TimeOfDay,
			DayOfWeek:  tc.DayOfWeek,
		})
		if err != nil {
			cs.log.WarnContext(ctx, "failed to learn time preference", "category", category, "error", err)
		}
	}

	_, err := cs.patterns.Upsert(ctx, &domain.BehaviorPattern{
		UserID:      userID,
		PatternType: domain.PatternEnergy,
		PatternKey:  tc.TimeOfDay,
		PatternValue: map[string]any{
			"typical_energy": state.EnergyLevel,
			"typical_stress": state.StressLevel,
			"time_of_day":    tc.TimeOfDay,
		},
		Confidence: 0.3,
		TimeOfDay:  tc.TimeOfDay,
		DayOfWeek:  tc.DayOfWeek,
	})
	if err != nil {
		cs.log.WarnContext(ctx, "failed to learn energy pattern", "error", err)
	}

	categories := make(map[string]int)
	for _, task := range tasks {
		cat := task.CategoryType
		if cat == "" {
			cat = "other"
		}
		categories[cat]++
	}
	for category, count := range categories {
		preference := "medium"
		if count > 2 {
			preference = "high"
		}
		_, err := cs.patterns.Upsert(ctx, &domain.BehaviorPattern{
			UserID:      userID,
			PatternType: domain.PatternTaskCategory,
			PatternKey:  category,
			PatternValue: map[string]any{
				"frequency":  count,
				"preference": preference,
			},
			Confidence: 0.3,
		})
		if err != nil {
			cs.log.WarnContext(ctx, "failed to learn category pattern", "category", category, "error", err)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
