package services

import (
	"fmt"
	"strings"

	"task-companion-service/internal/domain"
)

// System prompt for task extraction. The model returns JSON only; the
// response shape is parsed in assistant.go.
const extractionSystemPrompt = `You are an AI assistant helping someone with executive function challenges (ADHD, autism, burnout, etc.).
Your job is to extract tasks from their input and intelligently prioritize them based on:
1. Urgency indicators in the text
2. The user's current emotional state (stressed, tired, etc.)
3. Task complexity and estimated duration

Return a JSON object with a "tasks" key containing an array of task objects. Each task object must have:
- title: Clear, actionable task description
- priority: "critical", "high", "medium", or "low" based on urgency and the user's emotional state
- category_type: "errand", "appointment", "work", "personal", or "other"
- location: If applicable (e.g., "CVS Pharmacy", "Doctor's office")
- estimated_duration_minutes: Realistic time estimate
- original_text: The exact phrase from the transcript

Be empathetic - if the user is stressed (stress_level > 0.7) and low energy (energy_level < 0.4),
prioritize fewer, simpler tasks. Don't overwhelm them.`

// System prompt for companion suggestions. Tone and focus rules mirror the
// fallback heuristics so degraded mode stays recognizably the same product.
const suggestionSystemPrompt = `You are a companion for people with executive function challenges (ADHD, autism, burnout, etc.).
Your role is to be supportive, empathetic, and reduce cognitive load - NOT to be a productivity coach.

Key principles:
1. Be gentle and understanding - never judgmental
2. Reduce overwhelm by focusing on ONE thing at a time when the user is stressed
3. Acknowledge their emotional state
4. Make suggestions feel like a caring friend, not a taskmaster
5. Adjust your tone based on their emotional state:
   - Stressed + Low Energy: Very gentle, suggest just ONE simple task
   - Moderate: Supportive and encouraging
   - Energetic: Can be slightly more enthusiastic

Return a JSON object with:
- message: Your supportive message (1-2 sentences, empathetic)
- suggested_action: ONE specific task to focus on (or null if no specific action)
- reasoning: Brief explanation of why this suggestion (for transparency)
- tone: "gentle", "supportive", "energetic", or "calm"`

func buildExtractionPrompt(transcript string, state domain.EmotionalState, contextBlock string) string {
	var b strings.Builder

	if contextBlock != "" {
		b.WriteString(contextBlock)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Extract and prioritize tasks from this transcript:\n\n%q\n\n", transcript)
	b.WriteString("User's emotional state:\n")
	fmt.Fprintf(&b, "- Primary emotion: %s\n", state.PrimaryEmotion)
	fmt.Fprintf(&b, "- Energy level: %.1f (0.0 = exhausted, 1.0 = energetic)\n", state.EnergyLevel)
	fmt.Fprintf(&b, "- Stress level: %.1f (0.0 = calm, 1.0 = highly stressed)\n", state.StressLevel)
	b.WriteString("\nReturn ONLY valid JSON.")

	return b.String()
}

func buildSuggestionPrompt(state domain.EmotionalState, tasks []*domain.Task) string {
	var b strings.Builder

	b.WriteString("Generate a supportive companion message for this user:\n\n")
	b.WriteString("Emotional State:\n")
	fmt.Fprintf(&b, "- Primary emotion: %s\n", state.PrimaryEmotion)
	fmt.Fprintf(&b, "- Energy level: %.1f/1.0\n", state.EnergyLevel)
	fmt.Fprintf(&b, "- Stress level: %.1f/1.0\n", state.StressLevel)

	b.WriteString("\nTheir Tasks:\n")
	for i, t := range tasks {
		if i == 5 {
			break
		}
		duration := t.EstimatedDurationMinutes
		if duration <= 0 {
			duration = defaultTaskDurationMinutes
		}
		fmt.Fprintf(&b, "- %s (%s priority, ~%d min)\n", t.Title, t.Priority, duration)
	}

	b.WriteString("\nRemember: If they're stressed (stress > 0.7) and low energy (< 0.4), focus on just ONE simple task.\n")
	b.WriteString("Be empathetic, not pushy. Return ONLY valid JSON.")

	return b.String()
}
