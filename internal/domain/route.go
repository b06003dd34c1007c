package domain

// LocationTask is the routing view of a task: just enough to place it on a map.
// Coordinates holds the raw coordinate mapping as supplied by the caller
// (key spellings vary: lat/lng, latitude/longitude, lat/lon) and is resolved
// by the planner; it may be nil when only a free-text location is known.
type LocationTask struct {
	ID                       string
	Title                    string
	Location                 string
	Coordinates              map[string]any
	EstimatedDurationMinutes int
	Priority                 string
}

// Locatable reports whether the task carries enough location information
// to participate in route planning.
func (t LocationTask) Locatable() bool {
	return t.Location != "" || len(t.Coordinates) > 0
}

// RoutePoint is a single stop in a planned route: the originating task, its
// resolved coordinates, and the distance traveled from the previous stop
// (0.0 for the first stop).
type RoutePoint struct {
	Task               LocationTask
	Coordinates        Coordinates
	DistanceFromPrevKm float64
}

// RouteResult is the output of a planning call. It is immutable planning data
// and describes the visiting order along with aggregate distance and time
// estimates. When fewer than two tasks are locatable, Optimized is false and
// Message explains why; this is a normal outcome, not an error.
type RouteResult struct {
	Optimized            bool
	Route                []RoutePoint
	TotalDistanceKm      float64
	EstimatedTimeMinutes int
	TaskCount            int
	Message              string
}
