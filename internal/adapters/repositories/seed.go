package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"task-companion-service/internal/domain"
)

// TaskSeed is one demo task loaded from a seed file.
type TaskSeed struct {
	UserID                   string `json:"user_id"`
	Title                    string `json:"title"`
	Category                 string `json:"category"`
	Priority                 string `json:"priority"`
	Location                 string `json:"location"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
}

// SeedTasksFromJSON loads demo tasks from jsonPath and inserts them through
// the task repository, so seeded rows carry the same ID format and defaults
// as API-created ones.
func SeedTasksFromJSON(ctx context.Context, repo *PostgresTaskRepository, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed tasks: read %q: %w", jsonPath, err)
	}

	var data []TaskSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed tasks: parse json: %w", err)
	}

	for i, item := range data {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return fmt.Errorf("seed tasks: item at index %d: title cannot be empty", i+1)
		}

		task := &domain.Task{
			ID:                       domain.NewID("task"),
			Title:                    title,
			OriginalText:             title,
			Priority:                 domain.ParsePriority(item.Priority),
			CategoryType:             item.Category,
			Location:                 item.Location,
			EstimatedDurationMinutes: item.EstimatedDurationMinutes,
			Status:                   domain.StatusPending,
			UserID:                   item.UserID,
		}
		if task.CategoryType == "" {
			task.CategoryType = "other"
		}

		if err := repo.Create(ctx, task); err != nil {
			return fmt.Errorf("seed tasks: insert %q: %w", title, err)
		}
	}

	return nil
}
