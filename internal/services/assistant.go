package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/metrics"
	"task-companion-service/internal/ports"
)

const (
	maxExtractedTasks = 10
	maxHeuristicTasks = 5
	minPhraseLength   = 10

	extractionTemperature = 0.3
	suggestionTemperature = 0.7

	transcriptSnapshotLimit = 1000
)

// Demo transcript used when no transcriber is configured. Keeps the voice
// path exercisable in local runs without an API key.
const fallbackTranscript = "I need to buy milk, pick up prescriptions, " +
	"I'm stressed about that email to Bob, and the car is making a weird noise"

var taskSplitPattern = regexp.MustCompile(`[,;]|\band\b|I need to|I have to`)

// ProcessResult is the full outcome of one processed input.
type ProcessResult struct {
	Transcript     string
	EmotionalState domain.EmotionalState
	Tasks          []*domain.Task
	Suggestion     domain.CompanionSuggestion
	Metadata       map[string]any
}

// Assistant runs the input-processing pipeline: emotion detection, task
// extraction, companion suggestion, persistence, and pattern learning.
//
// The hosted model is optional at every step: a nil completer (or a failed
// call) degrades to deterministic heuristics instead of failing the request.
type Assistant struct {
	log           *slog.Logger
	tasks         ports.TaskRepository
	conversations ports.ConversationRepository
	emotions      ports.EmotionRepository
	contextSvc    *ContextService
	completer     ports.ChatCompleter
	transcriber   ports.Transcriber
	metrics       *metrics.Metrics
}

func NewAssistant(
	log *slog.Logger,
	tasks ports.TaskRepository,
	conversations ports.ConversationRepository,
	emotions ports.EmotionRepository,
	contextSvc *ContextService,
	completer ports.ChatCompleter,
	transcriber ports.Transcriber,
	m *metrics.Metrics,
) *Assistant {
	return &Assistant{
		log:           log,
		tasks:         tasks,
		conversations: conversations,
		emotions:      emotions,
		contextSvc:    contextSvc,
		completer:     completer,
		transcriber:   transcriber,
		metrics:       m,
	}
}

// ProcessText runs the pipeline on raw text input.
func (a *Assistant) ProcessText(ctx context.Context, text, userID, sessionID string) (*ProcessResult, error) {
	transcript := strings.TrimSpace(text)
	if transcript == "" {
		return nil, errors.New("process text: input must be non-empty")
	}

	return a.process(ctx, transcript, userID, sessionID, "text")
}

// ProcessVoice transcribes the audio first, then runs the same pipeline.
func (a *Assistant) ProcessVoice(ctx context.Context, audio []byte, contentType, userID, sessionID string) (*ProcessResult, error) {
	if len(audio) == 0 {
		return nil, errors.New("process voice: audio must be non-empty")
	}

	transcript := fallbackTranscript
	if a.transcriber != nil {
		t, err := a.transcriber.Transcribe(ctx, audio, contentType)
		if err != nil {
			a.log.ErrorContext(ctx, "transcription failed, using fallback transcript", "error", err)
			a.metrics.AIErrors.Inc()
		} else {
			transcript = strings.TrimSpace(t)
		}
	}
	if transcript == "" {
		return nil, errors.New("process voice: transcription produced empty text")
	}

	return a.process(ctx, transcript, userID, sessionID, "voice")
}

func (a *Assistant) process(ctx context.Context, transcript, userID, sessionID, source string) (*ProcessResult, error) {
	state := DetectEmotion(transcript)
	a.log.InfoContext(ctx, "detected emotional state",
		"emotion", state.PrimaryEmotion, "stress", state.StressLevel, "energy", state.EnergyLevel)

	ic := a.contextSvc.Build(ctx, userID, sessionID)

	tasks, mode := a.extractTasks(ctx, transcript, state, ic)
	a.log.InfoContext(ctx, "extracted tasks", "count", len(tasks), "mode", mode)

	suggestion := a.generateSuggestion(ctx, state, tasks)

	a.persist(ctx, transcript, userID, sessionID, state, tasks, suggestion)
	a.contextSvc.LearnPatterns(ctx, userID, tasks, state, ic.Time)

	a.metrics.InputsProcessed.WithLabelValues(source, mode).Inc()
	a.metrics.TasksExtracted.Add(float64(len(tasks)))

	return &ProcessResult{
		Transcript:     transcript,
		EmotionalState: state,
		Tasks:          tasks,
		Suggestion:     suggestion,
		Metadata: map[string]any{
			"processing_mode": mode,
			"input_type":      source,
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

type extractedTask struct {
	Title                    string `json:"title"`
	Priority                 string `json:"priority"`
	CategoryType             string `json:"category_type"`
	Location                 string `json:"location"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	OriginalText             string `json:"original_text"`
}

// extractTasks asks the model first and falls back to the keyword splitter.
// The returned mode labels which path produced the result ("ai" or "heuristic").
func (a *Assistant) extractTasks(
	ctx context.Context,
	transcript string,
	state domain.EmotionalState,
	ic InteractionContext,
) ([]*domain.Task, string) {
	if a.completer != nil {
		tasks, err := a.extractTasksAI(ctx, transcript, state, ic)
		if err == nil {
			return tasks, "ai"
		}
		a.log.ErrorContext(ctx, "model extraction failed, falling back to heuristics", "error", err)
		a.metrics.AIErrors.Inc()
	}

	return a.extractTasksHeuristic(transcript, state), "heuristic"
}

func (a *Assistant) extractTasksAI(
	ctx context.Context,
	transcript string,
	state domain.EmotionalState,
	ic InteractionContext,
) ([]*domain.Task, error) {
	start := time.Now()
	raw, err := a.completer.CompleteJSON(ctx, ports.ChatRequest{
		SystemPrompt: extractionSystemPrompt,
		UserPrompt:   buildExtractionPrompt(transcript, state, ic.FormatForPrompt()),
		Temperature:  extractionTemperature,
	})
	a.metrics.AIRequestSeconds.WithLabelValues("extract_tasks").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("extract tasks: %w", err)
	}

	var parsed struct {
		Tasks []extractedTask `json:"tasks"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("extract tasks: parse model response: %w", err)
	}

	now := time.Now().UTC()
	tasks := make([]*domain.Task, 0, len(parsed.Tasks))
	for _, et := range parsed.Tasks {
		if len(tasks) == maxExtractedTasks {
			break
		}
		if strings.TrimSpace(et.Title) == "" {
			continue
		}

		priority := domain.ParsePriority(strings.ToLower(et.Priority))
		duration := et.EstimatedDurationMinutes
		if duration <= 0 {
			duration = 30
		}
		original := et.OriginalText
		if original == "" {
			original = et.Title
		}
		category := et.CategoryType
		if category == "" {
			category = "personal"
		}

		task := &domain.Task{
			ID:                       newID("task"),
			Title:                    et.Title,
			OriginalText:             original,
			Priority:                 priority,
			CategoryType:             category,
			Location:                 et.Location,
			EstimatedDurationMinutes: duration,
			Status:                   domain.StatusPending,
		}
		if priority == domain.PriorityCritical || priority == domain.PriorityHigh {
			suggested := now.Add(2 * time.Hour)
			task.SuggestedTime = &suggested
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// extractTasksHeuristic splits the transcript on clause boundaries and
// classifies each phrase by keyword. Deliberately simple: it is the floor the
// pipeline can always stand on.
func (a *Assistant) extractTasksHeuristic(transcript string, state domain.EmotionalState) []*domain.Task {
	phrases := taskSplitPattern.Split(transcript, -1)
	now := time.Now().UTC()

	tasks := make([]*domain.Task, 0, maxHeuristicTasks)
	for _, phrase := range phrases {
		if len(tasks) == maxHeuristicTasks {
			break
		}

		phrase = strings.TrimSpace(phrase)
		if len(phrase) < minPhraseLength {
			continue
		}
		lower := strings.ToLower(phrase)

		priority := domain.PriorityMedium
		if state.StressLevel > 0.7 {
			priority = domain.PriorityHigh
		} else if strings.Contains(lower, "urgent") || strings.Contains(lower, "deadline") {
			priority = domain.PriorityCritical
		}

		categoryType := "personal"
		location := ""
		switch {
		case strings.Contains(lower, "prescription") || strings.Contains(lower, "pharmacy"):
			categoryType = "errand"
			location = "CVS Pharmacy"
		case strings.Contains(lower, "appointment") || strings.Contains(lower, "doctor"):
			categoryType = "appointment"
		case strings.Contains(lower, "email") || strings.Contains(lower, "meeting"):
			categoryType = "work"
		}

		duration := 30
		if categoryType == "errand" {
			duration = 15
		}

		task := &domain.Task{
			ID:                       newID("task"),
			Title:                    capitalize(phrase),
			OriginalText:             phrase,
			Priority:                 priority,
			CategoryType:             categoryType,
			Location:                 location,
			EstimatedDurationMinutes: duration,
			Status:                   domain.StatusPending,
		}
		if priority == domain.PriorityHigh {
			suggested := now.Add(2 * time.Hour)
			task.SuggestedTime = &suggested
		}
		tasks = append(tasks, task)
	}

	return tasks
}

func (a *Assistant) generateSuggestion(
	ctx context.Context,
	state domain.EmotionalState,
	tasks []*domain.Task,
) domain.CompanionSuggestion {
	if a.completer != nil {
		s, err := a.generateSuggestionAI(ctx, state, tasks)
		if err == nil {
			return s
		}
		a.log.ErrorContext(ctx, "model suggestion failed, falling back to heuristics", "error", err)
		a.metrics.AIErrors.Inc()
	}

	return fallbackSuggestion(state, tasks)
}

func (a *Assistant) generateSuggestionAI(
	ctx context.Context,
	state domain.EmotionalState,
	tasks []*domain.Task,
) (domain.CompanionSuggestion, error) {
	start := time.Now()
	raw, err := a.completer.CompleteJSON(ctx, ports.ChatRequest{
		SystemPrompt: suggestionSystemPrompt,
		UserPrompt:   buildSuggestionPrompt(state, tasks),
		Temperature:  suggestionTemperature,
	})
	a.metrics.AIRequestSeconds.WithLabelValues("generate_suggestion").Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.CompanionSuggestion{}, fmt.Errorf("generate suggestion: %w", err)
	}

	var parsed struct {
		Message         string `json:"message"`
		SuggestedAction string `json:"suggested_action"`
		Reasoning       string `json:"reasoning"`
		Tone            string `json:"tone"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.CompanionSuggestion{}, fmt.Errorf("generate suggestion: parse model response: %w", err)
	}

	if parsed.Message == "" {
		parsed.Message = "I've organized your tasks. Let's take them one at a time."
	}
	switch parsed.Tone {
	case domain.ToneGentle, domain.ToneSupportive, domain.ToneEnergetic, domain.ToneCalm:
	default:
		parsed.Tone = domain.ToneSupportive
	}

	// Pin a loosely-phrased action to an actual task title when possible.
	action := parsed.SuggestedAction
	if action != "" {
		for _, t := range tasks {
			al, tl := strings.ToLower(action), strings.ToLower(t.Title)
			if strings.Contains(tl, al) || strings.Contains(al, tl) {
				action = t.Title
				break
			}
		}
	}

	return domain.CompanionSuggestion{
		Message:         parsed.Message,
		SuggestedAction: action,
		Reasoning:       parsed.Reasoning,
		Tone:            parsed.Tone,
	}, nil
}

func fallbackSuggestion(state domain.EmotionalState, tasks []*domain.Task) domain.CompanionSuggestion {
	if state.Overwhelmed() {
		for _, t := range tasks {
			if t.Priority != domain.PriorityHigh {
				continue
			}
			return domain.CompanionSuggestion{
				Message: fmt.Sprintf(
					"I know you're feeling overwhelmed. Let's just focus on %s - it's quick and will help you feel accomplished.",
					strings.ToLower(t.Title)),
				SuggestedAction: t.Title,
				Reasoning: fmt.Sprintf(
					"User is stressed (%.1f) with low energy (%.1f). Focusing on a single, manageable task reduces cognitive load.",
					state.StressLevel, state.EnergyLevel),
				Tone: domain.ToneGentle,
			}
		}
	}

	return domain.CompanionSuggestion{
		Message:   "I've organized your tasks. Let's tackle them one at a time - you've got this!",
		Reasoning: "Standard supportive response for a moderate emotional state.",
		Tone:      domain.ToneSupportive,
	}
}

// persist stores the interaction. Failures here are logged, not surfaced:
// the user already has their result, and losing one history record is better
// than failing the request.
func (a *Assistant) persist(
	ctx context.Context,
	transcript, userID, sessionID string,
	state domain.EmotionalState,
	tasks []*domain.Task,
	suggestion domain.CompanionSuggestion,
) {
	if err := a.emotions.Create(ctx, &domain.EmotionSnapshot{
		ID:             newID("emotion"),
		UserID:         userID,
		PrimaryEmotion: state.PrimaryEmotion,
		EnergyLevel:    state.EnergyLevel,
		StressLevel:    state.StressLevel,
		Confidence:     state.Confidence,
		TranscriptText: truncate(transcript, transcriptSnapshotLimit),
		TaskCount:      len(tasks),
	}); err != nil {
		a.log.WarnContext(ctx, "failed to save emotion snapshot", "error", err)
	}

	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		t.UserID = userID
		if err := a.tasks.Create(ctx, t); err != nil {
			a.log.WarnContext(ctx, "failed to save extracted task", "task", t.ID, "error", err)
			continue
		}
		taskIDs = append(taskIDs, t.ID)
	}

	conv := &domain.Conversation{
		ID:             newID("conv"),
		UserID:         userID,
		SessionID:      sessionID,
		UserInput:      transcript,
		AIResponse:     suggestion.Message,
		Transcript:     transcript,
		EmotionalState: &state,
		ExtractedTasks: taskIDs,
	}
	if conv.SessionID == "" {
		conv.SessionID = conv.ID
	}
	if err := a.conversations.Create(ctx, conv); err != nil {
		a.log.WarnContext(ctx, "failed to save conversation record", "error", err)
	}
}

func newID(prefix string) string {
	return domain.NewID(prefix)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
