package dto

type ProcessTextRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type EmotionalStateResponse struct {
	PrimaryEmotion string  `json:"primary_emotion"`
	EnergyLevel    float64 `json:"energy_level"`
	StressLevel    float64 `json:"stress_level"`
	Confidence     float64 `json:"confidence"`
}

type SuggestionResponse struct {
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
	Reasoning       string `json:"reasoning,omitempty"`
	Tone            string `json:"tone"`
}

type ProcessResponse struct {
	Transcript     string                 `json:"transcript"`
	EmotionalState EmotionalStateResponse `json:"emotional_state"`
	Tasks          []TaskResponse         `json:"tasks"`
	Suggestion     SuggestionResponse     `json:"suggestion"`
	Metadata       map[string]any         `json:"metadata"`
}
