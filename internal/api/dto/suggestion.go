package dto

import (
	"time"

	"task-companion-service/internal/domain"
)

type ProactiveSuggestionResponse struct {
	ID              string     `json:"id"`
	SuggestionType  string     `json:"suggestion_type"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	SuggestedAction string     `json:"suggested_action,omitempty"`
	Reasoning       string     `json:"reasoning,omitempty"`
	Confidence      float64    `json:"confidence"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ListSuggestionsResponse struct {
	Suggestions []ProactiveSuggestionResponse `json:"suggestions"`
	Count       int                           `json:"count"`
}

type SuggestionActionRequest struct {
	Action string `json:"action"`
	UserID string `json:"user_id"`
}

func SuggestionFromDomain(s *domain.ProactiveSuggestion) ProactiveSuggestionResponse {
	return ProactiveSuggestionResponse{
		ID:              s.ID,
		SuggestionType:  s.SuggestionType,
		Title:           s.Title,
		Message:         s.Message,
		SuggestedAction: s.SuggestedAction,
		Reasoning:       s.Reasoning,
		Confidence:      s.Confidence,
		ExpiresAt:       s.ExpiresAt,
		CreatedAt:       s.CreatedAt,
	}
}
