package dto

import (
	"time"

	"task-companion-service/internal/domain"
)

type TaskResponse struct {
	ID                       string         `json:"id"`
	Title                    string         `json:"title"`
	Description              string         `json:"description,omitempty"`
	OriginalText             string         `json:"original_text,omitempty"`
	Priority                 string         `json:"priority"`
	CategoryType             string         `json:"category_type"`
	Location                 string         `json:"location,omitempty"`
	LocationCoordinates      map[string]any `json:"location_coordinates,omitempty"`
	DueDate                  *time.Time     `json:"due_date,omitempty"`
	SuggestedTime            *time.Time     `json:"suggested_time,omitempty"`
	ReminderTime             *time.Time     `json:"reminder_time,omitempty"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
	Status                   string         `json:"status"`
	CompletedAt              *time.Time     `json:"completed_at,omitempty"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
}

type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

type CreateTaskRequest struct {
	UserID                   string     `json:"user_id"`
	Title                    string     `json:"title"`
	Description              string     `json:"description"`
	Priority                 string     `json:"priority"`
	CategoryType             string     `json:"category_type"`
	Location                 string     `json:"location"`
	DueDate                  *time.Time `json:"due_date"`
	ReminderTime             *time.Time `json:"reminder_time"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
}

type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority"`
	Status       *string    `json:"status"`
	ReminderTime *time.Time `json:"reminder_time"`
}

func TaskFromDomain(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:                       t.ID,
		Title:                    t.Title,
		Description:              t.Description,
		OriginalText:             t.OriginalText,
		Priority:                 string(t.Priority),
		CategoryType:             t.CategoryType,
		Location:                 t.Location,
		LocationCoordinates:      t.LocationCoordinates,
		DueDate:                  t.DueDate,
		SuggestedTime:            t.SuggestedTime,
		ReminderTime:             t.ReminderTime,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		Status:                   string(t.Status),
		CompletedAt:              t.CompletedAt,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}
