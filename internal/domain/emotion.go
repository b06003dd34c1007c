package domain

import "time"

// EmotionalState is the detected emotional state for one user input.
// Levels are normalized to [0.0, 1.0].
type EmotionalState struct {
	PrimaryEmotion string
	EnergyLevel    float64
	StressLevel    float64
	Confidence     float64
}

// Overwhelmed reports whether the user is both highly stressed and low on
// energy. The assistant narrows its focus to a single task in that state.
func (e EmotionalState) Overwhelmed() bool {
	return e.StressLevel > 0.7 && e.EnergyLevel < 0.4
}

// EmotionSnapshot is a persisted emotional state observation, kept for
// learning energy patterns over time.
type EmotionSnapshot struct {
	ID             string
	UserID         string
	PrimaryEmotion string
	EnergyLevel    float64
	StressLevel    float64
	Confidence     float64
	TranscriptText string
	TaskCount      int
	RecordedAt     time.Time
}
