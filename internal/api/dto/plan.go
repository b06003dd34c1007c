package dto

import "task-companion-service/internal/domain"

type StartLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PlanRouteRequest struct {
	UserID        string                `json:"user_id"`
	TaskIDs       []string              `json:"task_ids"`
	StartLocation *StartLocationRequest `json:"start_location"`
}

type RouteTaskResponse struct {
	ID                       string `json:"id"`
	Title                    string `json:"title"`
	Location                 string `json:"location"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	Priority                 string `json:"priority"`
}

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteStopResponse struct {
	Task               RouteTaskResponse   `json:"task"`
	Coordinates        CoordinatesResponse `json:"coordinates"`
	DistanceFromPrevKm float64             `json:"distance_from_previous_km"`
}

type PlanRouteResponse struct {
	Optimized            bool                `json:"optimized"`
	Route                []RouteStopResponse `json:"route"`
	TotalDistanceKm      float64             `json:"total_distance_km"`
	EstimatedTimeMinutes int                 `json:"estimated_time_minutes"`
	TaskCount            int                 `json:"task_count"`
	Message              string              `json:"message,omitempty"`
	Display              string              `json:"display"`
}

func PlanRouteFromDomain(result domain.RouteResult, display string) PlanRouteResponse {
	res := PlanRouteResponse{
		Optimized:            result.Optimized,
		Route:                make([]RouteStopResponse, 0, len(result.Route)),
		TotalDistanceKm:      result.TotalDistanceKm,
		EstimatedTimeMinutes: result.EstimatedTimeMinutes,
		TaskCount:            result.TaskCount,
		Message:              result.Message,
		Display:              display,
	}
	for _, stop := range result.Route {
		res.Route = append(res.Route, RouteStopResponse{
			Task: RouteTaskResponse{
				ID:                       stop.Task.ID,
				Title:                    stop.Task.Title,
				Location:                 stop.Task.Location,
				EstimatedDurationMinutes: stop.Task.EstimatedDurationMinutes,
				Priority:                 stop.Task.Priority,
			},
			Coordinates: CoordinatesResponse{
				Lat: stop.Coordinates.Lat,
				Lng: stop.Coordinates.Lng,
			},
			DistanceFromPrevKm: stop.DistanceFromPrevKm,
		})
	}
	return res
}
