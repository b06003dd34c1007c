package services

import (
	"strings"

	"task-companion-service/internal/domain"
)

// Keyword groups for the heuristic emotion detector. A dedicated emotion API
// could replace this, but the keyword scan is deterministic and has no
// external dependency, which the processing pipeline relies on as a floor.
var (
	stressKeywords  = []string{"stressed", "worried", "anxious", "overwhelmed"}
	fatigueKeywords = []string{"tired", "exhausted", "drained"}
)

// DetectEmotion infers an emotional state from the transcript text using
// keyword heuristics. It always succeeds; the confidence value reflects how
// weak the signal is.
func DetectEmotion(transcript string) domain.EmotionalState {
	lower := strings.ToLower(transcript)

	if containsAny(lower, stressKeywords) {
		return domain.EmotionalState{
			PrimaryEmotion: "stressed",
			EnergyLevel:    0.3,
			StressLevel:    0.8,
			Confidence:     0.85,
		}
	}

	if containsAny(lower, fatigueKeywords) {
		return domain.EmotionalState{
			PrimaryEmotion: "tired",
			EnergyLevel:    0.2,
			StressLevel:    0.4,
			Confidence:     0.80,
		}
	}

	return domain.EmotionalState{
		PrimaryEmotion: "neutral",
		EnergyLevel:    0.6,
		StressLevel:    0.3,
		Confidence:     0.70,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
