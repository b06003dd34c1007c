package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"

	"task-companion-service/internal/domain"
)

// ErrEmptyResponse is returned when the Google Maps API resolves an address
// to no results.
var ErrEmptyResponse = errors.New("empty response from Google Maps API")

// GoogleAPIClient is the slice of the maps client the provider needs.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleGeocoder resolves free-text task locations through the Google Maps
// Geocoding API. It backs the coordinate enrichment worker.
type GoogleGeocoder struct {
	client GoogleAPIClient
	log    *slog.Logger

	// Optional region bias appended to ambiguous addresses, e.g. a city name.
	regionSuffix string
}

func NewGoogleGeocoder(client GoogleAPIClient, log *slog.Logger, regionSuffix string) *GoogleGeocoder {
	return &GoogleGeocoder{client: client, log: log, regionSuffix: regionSuffix}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	if g.regionSuffix != "" {
		address = address + ", " + g.regionSuffix
	}
	g.log.DebugContext(ctx, "geocoding via Google Maps", "address", address)

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode address: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, ErrEmptyResponse
	}

	loc := results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
