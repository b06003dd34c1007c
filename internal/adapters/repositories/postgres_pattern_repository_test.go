package repositories

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-companion-service/internal/domain"
)

func TestUpsertPattern(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresPatternRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO behavior_patterns`)).
		WithArgs("p1", "u1", domain.PatternTimePreference, "errand",
			[]byte(`{"time_of_day":"morning"}`), 0.4, "morning", "monday").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "pattern_type", "pattern_key", "pattern_value",
			"confidence", "frequency", "time_of_day", "day_of_week", "last_observed", "created_at",
		}).AddRow(
			"p1", "u1", domain.PatternTimePreference, "errand", []byte(`{"time_of_day":"morning"}`),
			0.5, 2, "morning", "monday", now, now,
		))

	stored, err := repo.Upsert(context.Background(), &domain.BehaviorPattern{
		ID:           "p1",
		UserID:       "u1",
		PatternType:  domain.PatternTimePreference,
		PatternKey:   "errand",
		PatternValue: map[string]any{"time_of_day": "morning"},
		Confidence:   0.4,
		TimeOfDay:    "morning",
		DayOfWeek:    "monday",
	})

	require.NoError(t, err)
	assert.InDelta(t, 0.5, stored.Confidence, 1e-9)
	assert.Equal(t, 2, stored.Frequency)
	assert.Equal(t, "morning", stored.PatternValue["time_of_day"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Matches generated pattern identifiers like "pattern_3f2a9c1b4d07".
type generatedPatternID struct{}

func (generatedPatternID) Match(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "pattern_") && len(s) > len("pattern_")
}

func TestUpsertPatternAssignsID(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresPatternRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO behavior_patterns`)).
		WithArgs(generatedPatternID{}, "u1", domain.PatternTaskCategory, "errand",
			[]byte(`{"frequency":1}`), 0.3, "morning", "monday").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "pattern_type", "pattern_key", "pattern_value",
			"confidence", "frequency", "time_of_day", "day_of_week", "last_observed", "created_at",
		}).AddRow(
			"pattern_3f2a9c1b4d07", "u1", domain.PatternTaskCategory, "errand", []byte(`{"frequency":1}`),
			0.3, 1, "morning", "monday", now, now,
		))

	stored, err := repo.Upsert(context.Background(), &domain.BehaviorPattern{
		UserID:       "u1",
		PatternType:  domain.PatternTaskCategory,
		PatternKey:   "errand",
		PatternValue: map[string]any{"frequency": 1},
		Confidence:   0.3,
		TimeOfDay:    "morning",
		DayOfWeek:    "monday",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPatternsFiltersByConfidence(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresPatternRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM behavior_patterns`)).
		WithArgs("u1", "", 0.3).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "pattern_type", "pattern_key", "pattern_value",
			"confidence", "frequency", "time_of_day", "day_of_week", "last_observed", "created_at",
		}).AddRow(
			"p1", "u1", domain.PatternEnergy, "morning", []byte(`{"typical_energy":0.8}`),
			0.6, 4, "morning", "monday", now, now,
		))

	patterns, err := repo.List(context.Background(), "u1", "", 0.3)

	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, domain.PatternEnergy, patterns[0].PatternType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
