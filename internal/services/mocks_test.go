package services

import (
	"context"
	"sync"
	"time"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/ports"
)

// In-memory fakes shared by the service tests. They implement the ports with
// plain maps and slices, guarded for the concurrent tests.

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task

	geocodeBatch []*domain.Task
	coordsSet    map[string]domain.Coordinates
	failures     map[string]int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks:     make(map[string]*domain.Task),
		coordsSet: make(map[string]domain.Coordinates),
		failures:  make(map[string]int),
	}
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memTaskRepo) Update(_ context.Context, id string, update ports.TaskUpdate) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.ReminderTime != nil {
		t.ReminderTime = update.ReminderTime
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) MarkComplete(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	now := time.Now().UTC()
	t.Status = domain.StatusCompleted
	t.CompletedAt = &now
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) FetchForGeocoding(_ context.Context, _ int) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := r.geocodeBatch
	r.geocodeBatch = nil
	return batch, nil
}

func (r *memTaskRepo) UpdateCoordinates(_ context.Context, id string, coords domain.Coordinates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coordsSet[id] = coords
	return nil
}

func (r *memTaskRepo) IncrementGeocodeFailure(_ context.Context, id string, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[id]++
	return nil
}

type memConversationRepo struct {
	mu    sync.Mutex
	convs []*domain.Conversation
}

func (r *memConversationRepo) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *conv
	r.convs = append(r.convs, &cp)
	return nil
}

func (r *memConversationRepo) Recent(_ context.Context, userID, sessionID string, limit int) ([]*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Conversation
	for i := len(r.convs) - 1; i >= 0 && len(out) < limit; i-- {
		c := r.convs[i]
		if userID != "" && c.UserID != userID {
			continue
		}
		if sessionID != "" && c.SessionID != sessionID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type memPatternRepo struct {
	mu       sync.Mutex
	patterns map[string]*domain.BehaviorPattern
}

func newMemPatternRepo() *memPatternRepo {
	return &memPatternRepo{patterns: make(map[string]*domain.BehaviorPattern)}
}

func (r *memPatternRepo) Upsert(_ context.Context, p *domain.BehaviorPattern) (*domain.BehaviorPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := p.UserID + "|" + p.PatternType + "|" + p.PatternKey
	if existing, ok := r.patterns[key]; ok {
		existing.Confidence = min(existing.Confidence+0.1, 1.0)
		existing.Frequency++
		existing.LastObserved = time.Now().UTC()
		cp := *existing
		return &cp, nil
	}
	cp := *p
	r.patterns[key] = &cp
	out := cp
	return &out, nil
}

func (r *memPatternRepo) List(_ context.Context, userID, patternType string, minConfidence float64) ([]*domain.BehaviorPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.BehaviorPattern
	for _, p := range r.patterns {
		if userID != "" && p.UserID != userID {
			continue
		}
		if patternType != "" && p.PatternType != patternType {
			continue
		}
		if p.Confidence < minConfidence {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type memSuggestionRepo struct {
	mu          sync.Mutex
	suggestions []*domain.ProactiveSuggestion
	actions     map[string]string
}

func newMemSuggestionRepo() *memSuggestionRepo {
	return &memSuggestionRepo{actions: make(map[string]string)}
}

func (r *memSuggestionRepo) Create(_ context.Context, s *domain.ProactiveSuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.suggestions = append(r.suggestions, &cp)
	return nil
}

func (r *memSuggestionRepo) Active(_ context.Context, userID string, limit int) ([]*domain.ProactiveSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var out []*domain.ProactiveSuggestion
	for _, s := range r.suggestions {
		if len(out) >= limit {
			break
		}
		if userID != "" && s.UserID != userID {
			continue
		}
		if s.ExpiresAt != nil && s.ExpiresAt.Before(now) {
			continue
		}
		if r.actions[s.ID] == "dismissed" {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSuggestionRepo) MarkShown(_ context.Context, id, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[id] = action
	return nil
}

type memEmotionRepo struct {
	mu    sync.Mutex
	snaps []*domain.EmotionSnapshot
}

func (r *memEmotionRepo) Create(_ context.Context, snap *domain.EmotionSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *snap
	r.snaps = append(r.snaps, &cp)
	return nil
}

type memSuggestionCache struct {
	mu   sync.Mutex
	sets map[string][]*domain.ProactiveSuggestion

	gets, puts, invalidations int
}

func newMemSuggestionCache() *memSuggestionCache {
	return &memSuggestionCache{sets: make(map[string][]*domain.ProactiveSuggestion)}
}

func (c *memSuggestionCache) Get(_ context.Context, userID string) ([]*domain.ProactiveSuggestion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.sets[userID], nil
}

func (c *memSuggestionCache) Set(_ context.Context, userID string, suggestions []*domain.ProactiveSuggestion, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.sets[userID] = suggestions
	return nil
}

func (c *memSuggestionCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	delete(c.sets, userID)
	return nil
}

// stubCompleter returns canned JSON documents, or an error, per call.
type stubCompleter struct {
	mu        sync.Mutex
	responses [][]byte
	err       error
	requests  []ports.ChatRequest
}

func (s *stubCompleter) CompleteJSON(_ context.Context, req ports.ChatRequest) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return []byte(`{}`), nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

// stubGeocoder resolves addresses from a fixed table.
type stubGeocoder struct {
	mu     sync.Mutex
	coords map[string]domain.Coordinates
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return domain.Coordinates{}, g.err
	}
	c, ok := g.coords[address]
	if !ok {
		return domain.Coordinates{}, ports.ErrNotFound
	}
	return c, nil
}
