package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/ports"
)

const maxGeocodeAttempts = 5

// Postgres-backed implementation of the TaskRepository port.
type PostgresTaskRepository struct {
	db Database
}

func NewPostgresTaskRepository(db Database) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = `id, title, description, original_text, priority, priority_score,
	estimated_energy_cost, emotional_context, category_type, location, location_coordinates,
	due_date, suggested_time, reminder_time, estimated_duration_minutes, status, completed_at,
	user_id, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var coords []byte
	var priority, status string

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.OriginalText, &priority, &t.PriorityScore,
		&t.EstimatedEnergyCost, &t.EmotionalContext, &t.CategoryType, &t.Location, &coords,
		&t.DueDate, &t.SuggestedTime, &t.ReminderTime, &t.EstimatedDurationMinutes, &status, &t.CompletedAt,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Priority = domain.TaskPriority(priority)
	t.Status = domain.TaskStatus(status)
	if len(coords) > 0 {
		if err := json.Unmarshal(coords, &t.LocationCoordinates); err != nil {
			return nil, fmt.Errorf("decode coordinates: %w", err)
		}
	}
	return &t, nil
}

func encodeCoordinates(coords map[string]any) ([]byte, error) {
	if coords == nil {
		return nil, nil
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	return raw, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	coords, err := encodeCoordinates(task.LocationCoordinates)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	query := `
	INSERT INTO tasks (
		id, title, description, original_text, priority, priority_score,
		estimated_energy_cost, emotional_context, category_type, location, location_coordinates,
		due_date, suggested_time, reminder_time, estimated_duration_minutes, status, user_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`

	_, err = r.db.Exec(ctx, query,
		task.ID, task.Title, task.Description, task.OriginalText, string(task.Priority), task.PriorityScore,
		string(task.EstimatedEnergyCost), task.EmotionalContext, task.CategoryType, task.Location, coords,
		task.DueDate, task.SuggestedTime, task.ReminderTime, task.EstimatedDurationMinutes,
		string(task.Status), task.UserID,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1;`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Priority != "" {
		add("priority = $%d", string(filter.Priority))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	query += ";"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: scan row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: row iteration: %w", err)
	}

	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, id string, update ports.TaskUpdate) (*domain.Task, error) {
	var priority, status *string
	if update.Priority != nil {
		p := string(*update.Priority)
		priority = &p
	}
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}

	query := `
	UPDATE tasks
	SET
		title = COALESCE($1, title),
		description = COALESCE($2, description),
		priority = COALESCE($3, priority),
		status = COALESCE($4, status),
		reminder_time = COALESCE($5, reminder_time),
		updated_at = now()
	WHERE id = $6
	RETURNING ` + taskColumns + `;`

	task, err := scanTask(r.db.QueryRow(ctx, query,
		update.Title, update.Description, priority, status, update.ReminderTime, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) MarkComplete(ctx context.Context, id string) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET status = 'completed', completed_at = now(), updated_at = now()
	WHERE id = $1
	RETURNING ` + taskColumns + `;`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	return task, nil
}

// FetchForGeocoding returns open tasks that carry a location string but no
// coordinates yet, skipping tasks that already burned their attempt budget.
func (r *PostgresTaskRepository) FetchForGeocoding(ctx context.Context, limit int) ([]*domain.Task, error) {
	query := `
	SELECT id, location
	FROM tasks
	WHERE
		location_coordinates IS NULL
		AND location <> ''
		AND status IN ('pending', 'in_progress')
		AND geocoding_attempts < $1
	ORDER BY created_at ASC
	LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, maxGeocodeAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks for geocoding: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Location); err != nil {
			return nil, fmt.Errorf("fetch tasks for geocoding: scan row: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch tasks for geocoding: row iteration: %w", err)
	}

	return tasks, nil
}

func (r *PostgresTaskRepository) UpdateCoordinates(ctx context.Context, id string, coords domain.Coordinates) error {
	raw, err := json.Marshal(map[string]any{"lat": coords.Lat, "lng": coords.Lng})
	if err != nil {
		return fmt.Errorf("update coordinates: encode: %w", err)
	}

	query := `
	UPDATE tasks
	SET location_coordinates = $1, geocoding_error = NULL, updated_at = now()
	WHERE id = $2;
	`
	if _, err := r.db.Exec(ctx, query, raw, id); err != nil {
		return fmt.Errorf("update coordinates: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) IncrementGeocodeFailure(ctx context.Context, id string, errMsg string) error {
	query := `
	UPDATE tasks
	SET geocoding_attempts = geocoding_attempts + 1, geocoding_error = $1
	WHERE id = $2;
	`
	if _, err := r.db.Exec(ctx, query, errMsg, id); err != nil {
		return fmt.Errorf("record geocode failure: %w", err)
	}
	return nil
}
