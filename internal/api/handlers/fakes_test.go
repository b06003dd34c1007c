package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/ports"
)

// Minimal port fakes for handler tests.

type fakeTaskRepo struct {
	tasks map[string]*domain.Task
	err   error
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	m := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return &fakeTaskRepo{tasks: m}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	if r.err != nil {
		return r.err
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Task
	for _, t := range r.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, id string, update ports.TaskUpdate) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	return t, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) MarkComplete(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	now := time.Now().UTC()
	t.Status = domain.StatusCompleted
	t.CompletedAt = &now
	return t, nil
}

func (r *fakeTaskRepo) FetchForGeocoding(_ context.Context, _ int) ([]*domain.Task, error) {
	return nil, nil
}

func (r *fakeTaskRepo) UpdateCoordinates(_ context.Context, _ string, _ domain.Coordinates) error {
	return nil
}

func (r *fakeTaskRepo) IncrementGeocodeFailure(_ context.Context, _ string, _ string) error {
	return nil
}

type fakeConversationRepo struct{}

func (fakeConversationRepo) Create(_ context.Context, _ *domain.Conversation) error { return nil }
func (fakeConversationRepo) Recent(_ context.Context, _, _ string, _ int) ([]*domain.Conversation, error) {
	return nil, nil
}

type fakePatternRepo struct{}

func (fakePatternRepo) Upsert(_ context.Context, p *domain.BehaviorPattern) (*domain.BehaviorPattern, error) {
	return p, nil
}
func (fakePatternRepo) List(_ context.Context, _, _ string, _ float64) ([]*domain.BehaviorPattern, error) {
	return nil, nil
}

type fakeEmotionRepo struct{}

func (fakeEmotionRepo) Create(_ context.Context, _ *domain.EmotionSnapshot) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
