package ports

import (
	"context"

	"task-companion-service/internal/domain"
)

// Contract for resolving a free-text address into coordinates.
// The route planner never geocodes; only the background enrichment worker
// goes through this boundary.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
