package domain

import "time"

// Suggestion tones, matched to the user's emotional state.
const (
	ToneGentle     = "gentle"
	ToneSupportive = "supportive"
	ToneEnergetic  = "energetic"
	ToneCalm       = "calm"
)

// CompanionSuggestion is the assistant's guidance for one interaction.
// Reasoning is surfaced to the user for transparency.
type CompanionSuggestion struct {
	Message         string
	SuggestedAction string
	Reasoning       string
	Tone            string
}

// Conversation is one recorded exchange between the user and the assistant,
// kept so later interactions can reason over recent history.
type Conversation struct {
	ID             string
	UserID         string
	SessionID      string
	UserInput      string
	AIResponse     string
	Transcript     string
	EmotionalState *EmotionalState
	ExtractedTasks []string
	CreatedAt      time.Time
}
