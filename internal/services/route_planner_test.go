package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-companion-service/internal/domain"
)

func errandTask(id int, lat, lng float64) domain.LocationTask {
	return domain.LocationTask{
		ID:          fmt.Sprintf("task_%d", id),
		Title:       fmt.Sprintf("Errand %d", id),
		Location:    fmt.Sprintf("Stop %d", id),
		Coordinates: map[string]any{"lat": lat, "lng": lng},
	}
}

func TestHaversine(t *testing.T) {
	sf := domain.Coordinates{Lat: 37.7749, Lng: -122.4194}
	oakland := domain.Coordinates{Lat: 37.8044, Lng: -122.2712}
	berkeley := domain.Coordinates{Lat: 37.8716, Lng: -122.2728}

	t.Run("identity", func(t *testing.T) {
		assert.Zero(t, domain.Haversine(sf, sf))
	})

	t.Run("symmetry", func(t *testing.T) {
		assert.InDelta(t, domain.Haversine(sf, oakland), domain.Haversine(oakland, sf), 1e-12)
	})

	t.Run("triangle inequality", func(t *testing.T) {
		ac := domain.Haversine(sf, berkeley)
		ab := domain.Haversine(sf, oakland)
		bc := domain.Haversine(oakland, berkeley)
		assert.LessOrEqual(t, ac, ab+bc)
	})

	t.Run("known distance", func(t *testing.T) {
		// SF to Oakland is roughly 13 km as the crow flies.
		assert.InDelta(t, 13.4, domain.Haversine(sf, oakland), 0.5)
	})
}

func TestPlanRouteInsufficientLocations(t *testing.T) {
	cases := []struct {
		name  string
		tasks []domain.LocationTask
	}{
		{"no tasks", nil},
		{"one locatable task", []domain.LocationTask{errandTask(1, 37.7749, -122.4194)}},
		{
			"tasks without locations are excluded",
			[]domain.LocationTask{
				{ID: "task_1", Title: "Write report"},
				{ID: "task_2", Title: "Email Bob"},
				errandTask(3, 37.7749, -122.4194),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := PlanRoute(tc.tasks, nil)

			assert.False(t, result.Optimized)
			assert.Empty(t, result.Route)
			assert.Zero(t, result.TotalDistanceKm)
			assert.Zero(t, result.EstimatedTimeMinutes)
			assert.Equal(t, insufficientLocationsMessage, result.Message)
		})
	}
}

func TestPlanRouteNearestNeighborOrder(t *testing.T) {
	// Three stops heading northeast: the optimizer seeds with task 1 and must
	// pick task 2 (nearer) before task 3.
	tasks := []domain.LocationTask{
		errandTask(1, 37.7749, -122.4194),
		errandTask(2, 37.7849, -122.4094),
		errandTask(3, 37.8049, -122.3894),
	}

	result := PlanRoute(tasks, nil)

	require.True(t, result.Optimized)
	require.Len(t, result.Route, 3)
	assert.Equal(t, "task_1", result.Route[0].Task.ID)
	assert.Equal(t, "task_2", result.Route[1].Task.ID)
	assert.Equal(t, "task_3", result.Route[2].Task.ID)

	assert.Zero(t, result.Route[0].DistanceFromPrevKm)
	assert.LessOrEqual(t, result.Route[0].DistanceFromPrevKm, result.Route[1].DistanceFromPrevKm)
	assert.LessOrEqual(t, result.Route[1].DistanceFromPrevKm, result.Route[2].DistanceFromPrevKm)
}

func TestPlanRoutePermutation(t *testing.T) {
	tasks := []domain.LocationTask{
		errandTask(1, 37.7749, -122.4194),
		errandTask(2, 37.8049, -122.3894),
		errandTask(3, 37.7849, -122.4094),
		errandTask(4, 37.7649, -122.4294),
		errandTask(5, 37.7949, -122.3994),
	}

	result := PlanRoute(tasks, nil)

	require.True(t, result.Optimized)
	require.Len(t, result.Route, len(tasks))
	assert.Equal(t, len(tasks), result.TaskCount)

	seen := make(map[string]int)
	for _, p := range result.Route {
		seen[p.Task.ID]++
	}
	for _, task := range tasks {
		assert.Equal(t, 1, seen[task.ID], "task %s must appear exactly once", task.ID)
	}
}

func TestPlanRouteTotalEqualsHopSum(t *testing.T) {
	tasks := []domain.LocationTask{
		errandTask(1, 37.7749, -122.4194),
		errandTask(2, 37.7949, -122.3994),
		errandTask(3, 37.7849, -122.4094),
		errandTask(4, 37.8149, -122.3794),
	}

	result := PlanRoute(tasks, nil)
	require.True(t, result.Optimized)

	var sum float64
	for _, p := range result.Route {
		sum += p.DistanceFromPrevKm
	}
	assert.InDelta(t, sum, result.TotalDistanceKm, 1e-9)
}

func TestPlanRouteWithStartLocation(t *testing.T) {
	// With a start point every task stays in the remaining set; the stop
	// closest to the start leads the route and carries a nonzero hop.
	start := &domain.Coordinates{Lat: 37.8049, Lng: -122.3894}
	tasks := []domain.LocationTask{
		errandTask(1, 37.7749, -122.4194),
		errandTask(2, 37.7949, -122.3994),
	}

	result := PlanRoute(tasks, start)

	require.True(t, result.Optimized)
	require.Len(t, result.Route, 2)
	assert.Equal(t, "task_2", result.Route[0].Task.ID)
	assert.Greater(t, result.Route[0].DistanceFromPrevKm, 0.0)
}

func TestPlanRouteEquidistantTieBreak(t *testing.T) {
	// Both tasks sit the same latitude offset from the start; the scan keeps
	// the first strictly-smaller candidate, so earlier input order wins.
	start := &domain.Coordinates{Lat: 37.7749, Lng: -122.4194}
	tasks := []domain.LocationTask{
		errandTask(1, 37.7849, -122.4194),
		errandTask(2, 37.7649, -122.4194),
	}

	result := PlanRoute(tasks, start)

	require.True(t, result.Optimized)
	assert.Equal(t, "task_1", result.Route[0].Task.ID)
}

func TestResolveCoordinates(t *testing.T) {
	t.Run("alternate key spellings", func(t *testing.T) {
		for _, coords := range []map[string]any{
			{"lat": 37.7, "lng": -122.4},
			{"latitude": 37.7, "longitude": -122.4},
			{"lat": 37.7, "lon": -122.4},
		} {
			c := resolveCoordinates(domain.LocationTask{Coordinates: coords})
			assert.Equal(t, domain.Coordinates{Lat: 37.7, Lng: -122.4}, c)
		}
	})

	t.Run("string values are coerced", func(t *testing.T) {
		c := resolveCoordinates(domain.LocationTask{
			Coordinates: map[string]any{"lat": "37.7", "lng": "-122.4"},
		})
		assert.Equal(t, domain.Coordinates{Lat: 37.7, Lng: -122.4}, c)
	})

	t.Run("malformed values fall back to hash", func(t *testing.T) {
		c := resolveCoordinates(domain.LocationTask{
			Location:    "CVS Pharmacy",
			Coordinates: map[string]any{"lat": "not-a-number", "lng": -122.4},
		})
		assert.Equal(t, mockCoordinates("CVS Pharmacy"), c)
	})

	t.Run("hash fallback is deterministic", func(t *testing.T) {
		a := mockCoordinates("Trader Joe's")
		b := mockCoordinates("Trader Joe's")
		assert.Equal(t, a, b)

		// The label is hashed as supplied: casing changes the point.
		assert.NotEqual(t, a, mockCoordinates("trader joe's"))

		// Fallback points cluster inside the stand-in bounding box.
		assert.GreaterOrEqual(t, a.Lat, mockBaseLat)
		assert.Less(t, a.Lat, mockBaseLat+0.1)
		assert.GreaterOrEqual(t, a.Lng, mockBaseLng)
		assert.Less(t, a.Lng, mockBaseLng+0.1)
	})

	t.Run("identical labels route identically", func(t *testing.T) {
		tasks := []domain.LocationTask{
			{ID: "task_1", Title: "Drop off package", Location: "Post Office"},
			{ID: "task_2", Title: "Buy stamps", Location: "Post Office"},
		}

		result := PlanRoute(tasks, nil)

		require.True(t, result.Optimized)
		assert.Equal(t, result.Route[0].Coordinates, result.Route[1].Coordinates)
		assert.Zero(t, result.Route[1].DistanceFromPrevKm)
	})
}

func TestEstimateTotalTime(t *testing.T) {
	route := []domain.RoutePoint{
		{Task: domain.LocationTask{EstimatedDurationMinutes: 15}},
		{Task: domain.LocationTask{EstimatedDurationMinutes: 15}},
	}

	// (10/40)*60 travel + 30 task + 10 buffer = 55.
	assert.Equal(t, 55, estimateTotalTime(route, 10))

	t.Run("missing durations default to 15", func(t *testing.T) {
		route := []domain.RoutePoint{
			{Task: domain.LocationTask{}},
			{Task: domain.LocationTask{}},
		}
		assert.Equal(t, 55, estimateTotalTime(route, 10))
	})
}

func TestFormatRouteForDisplay(t *testing.T) {
	t.Run("not optimized returns message verbatim", func(t *testing.T) {
		result := domain.RouteResult{Optimized: false, Message: insufficientLocationsMessage}
		assert.Equal(t, insufficientLocationsMessage, FormatRouteForDisplay(result))
	})

	t.Run("numbered stops with hop distances", func(t *testing.T) {
		result := domain.RouteResult{
			Optimized:            true,
			TotalDistanceKm:      3.5,
			EstimatedTimeMinutes: 45,
			TaskCount:            2,
			Route: []domain.RoutePoint{
				{Task: domain.LocationTask{Title: "Pick up prescription", Location: "CVS Pharmacy"}},
				{
					Task:               domain.LocationTask{Title: "Buy groceries", Location: "Trader Joe's"},
					DistanceFromPrevKm: 3.5,
				},
			},
		}

		want := "📍 Optimized Route (2 stops)\n" +
			"Total distance: 3.5 km\n" +
			"Estimated time: 45 minutes\n" +
			"\n" +
			"Route order:\n" +
			"1. Pick up prescription - CVS Pharmacy\n" +
			"2. Buy groceries - Trader Joe's (3.5 km away)"
		assert.Equal(t, want, FormatRouteForDisplay(result))
	})
}
