package services

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"task-companion-service/internal/domain"
)

const (
	// Assumed average city-driving speed for travel time estimates.
	averageSpeedKmh = 40.0
	// Per-stop overhead for parking, walking, and transitions.
	perStopBufferMinutes = 5
	// Applied when a task carries no duration estimate.
	defaultTaskDurationMinutes = 15
)

// Base point for hash-derived fallback coordinates (San Francisco area).
const (
	mockBaseLat = 37.7749
	mockBaseLng = -122.4194
)

const insufficientLocationsMessage = "Need at least 2 tasks with locations to plan a route"

type taskPoint struct {
	task   domain.LocationTask
	coords domain.Coordinates
}

// PlanRoute orders location-bearing tasks into a visiting sequence using a
// greedy nearest-neighbor heuristic over haversine distances.
//
// The algorithm minimizes immediate travel distance at each step. It does not
// attempt global route optimization and can produce crossing paths.
//
// Tasks without location information are excluded before optimization. Fewer
// than two locatable tasks yields a structured not-optimized result rather
// than an error. The call is pure and stateless: safe for concurrent use.
func PlanRoute(tasks []domain.LocationTask, start *domain.Coordinates) domain.RouteResult {
	locatable := make([]domain.LocationTask, 0, len(tasks))
	for _, t := range tasks {
		if t.Locatable() {
			locatable = append(locatable, t)
		}
	}

	if len(locatable) < 2 {
		return domain.RouteResult{
			Optimized: false,
			Route:     []domain.RoutePoint{},
			TaskCount: len(locatable),
			Message:   insufficientLocationsMessage,
		}
	}

	points := make([]taskPoint, 0, len(locatable))
	for _, t := range locatable {
		points = append(points, taskPoint{task: t, coords: resolveCoordinates(t)})
	}

	route := optimizeRoute(points, start)

	var total float64
	for _, p := range route {
		total += p.DistanceFromPrevKm
	}
	totalDistance := round2(total)

	return domain.RouteResult{
		Optimized:            true,
		Route:                route,
		TotalDistanceKm:      totalDistance,
		EstimatedTimeMinutes: estimateTotalTime(route, totalDistance),
		TaskCount:            len(route),
		Message:              fmt.Sprintf("Optimized route for %d errands", len(route)),
	}
}

// resolveCoordinates uses the task's explicit coordinates when present and
// parseable, and otherwise derives deterministic pseudo-coordinates from the
// location label. Malformed coordinate values fall back the same way; a
// single bad task never aborts the whole plan.
func resolveCoordinates(t domain.LocationTask) domain.Coordinates {
	if c, ok := explicitCoordinates(t.Coordinates); ok {
		return c
	}
	return mockCoordinates(t.Location)
}

func explicitCoordinates(m map[string]any) (domain.Coordinates, bool) {
	if len(m) == 0 {
		return domain.Coordinates{}, false
	}

	lat, latOK := coordinateValue(m, "lat", "latitude")
	lng, lngOK := coordinateValue(m, "lng", "longitude", "lon")
	if !latOK || !lngOK {
		return domain.Coordinates{}, false
	}

	return domain.Coordinates{Lat: lat, Lng: lng}, true
}

// coordinateValue returns the first key whose value coerces to a float.
func coordinateValue(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// mockCoordinates generates fallback coordinates from the location label via
// FNV-1a, clustering them in a small bounding box near the base point.
//
// This is a known approximation, not geocoding: identical labels always
// resolve to identical coordinates within a process (which is what the
// planner's batching behavior relies on), but the points carry no real
// geographic meaning.
func mockCoordinates(label string) domain.Coordinates {
	h := fnv.New32a()
	h.Write([]byte(label))
	hashVal := h.Sum32() % 10000

	return domain.Coordinates{
		Lat: mockBaseLat + float64(hashVal%100)/1000,
		Lng: mockBaseLng + float64((hashVal/100)%100)/1000,
	}
}

// optimizeRoute runs the nearest-neighbor scan. When no start point is given,
// the first task in input order seeds the route with a zero hop distance.
// Ties keep the first-scanned candidate, which makes the result deterministic
// for a deterministic input ordering.
func optimizeRoute(points []taskPoint, start *domain.Coordinates) []domain.RoutePoint {
	if len(points) == 0 {
		return []domain.RoutePoint{}
	}

	var current domain.Coordinates
	var route []domain.RoutePoint
	var remaining []taskPoint

	if start != nil {
		current = *start
		remaining = append(remaining, points...)
	} else {
		current = points[0].coords
		route = append(route, domain.RoutePoint{
			Task:               points[0].task,
			Coordinates:        points[0].coords,
			DistanceFromPrevKm: 0.0,
		})
		remaining = append(remaining, points[1:]...)
	}

	for len(remaining) > 0 {
		nearestIdx := 0
		nearestDist := domain.Haversine(current, remaining[0].coords)

		for i := 1; i < len(remaining); i++ {
			// Strictly-smaller keeps the earlier candidate on equal distances.
			if d := domain.Haversine(current, remaining[i].coords); d < nearestDist {
				nearestDist = d
				nearestIdx = i
			}
		}

		next := remaining[nearestIdx]
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)

		route = append(route, domain.RoutePoint{
			Task:               next.task,
			Coordinates:        next.coords,
			DistanceFromPrevKm: round2(nearestDist),
		})
		current = next.coords
	}

	return route
}

// estimateTotalTime combines travel time at city speed, per-task durations,
// and a fixed per-stop buffer. The float sum is truncated, not rounded.
func estimateTotalTime(route []domain.RoutePoint, totalDistanceKm float64) int {
	travelMinutes := (totalDistanceKm / averageSpeedKmh) * 60

	taskMinutes := 0
	for _, p := range route {
		d := p.Task.EstimatedDurationMinutes
		if d <= 0 {
			d = defaultTaskDurationMinutes
		}
		taskMinutes += d
	}

	bufferMinutes := len(route) * perStopBufferMinutes

	return int(travelMinutes + float64(taskMinutes+bufferMinutes))
}

// FormatRouteForDisplay renders a RouteResult as a deterministic multi-line
// string. Not-optimized results return the planner's message as-is.
func FormatRouteForDisplay(result domain.RouteResult) string {
	if !result.Optimized {
		return result.Message
	}
	if len(result.Route) == 0 {
		return "No route generated"
	}

	lines := []string{
		fmt.Sprintf("📍 Optimized Route (%d stops)", len(result.Route)),
		fmt.Sprintf("Total distance: %s km", formatKm(result.TotalDistanceKm)),
		fmt.Sprintf("Estimated time: %d minutes", result.EstimatedTimeMinutes),
		"",
		"Route order:",
	}

	for i, p := range result.Route {
		title := p.Task.Title
		if title == "" {
			title = "Task"
		}
		location := p.Task.Location
		if location == "" {
			location = "Location"
		}

		if i == 0 {
			lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, title, location))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s - %s (%s km away)",
				i+1, title, location, formatKm(p.DistanceFromPrevKm)))
		}
	}

	return strings.Join(lines, "\n")
}

func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
