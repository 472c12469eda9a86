package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"medtransit/internal/types"
)

const metersPerMile = 1609.344

// DistanceService resolves point-to-point road distance via the Google Maps
// Directions API. It implements routing.DistanceEstimator; callers treat the
// result as advisory, never as turn-by-turn routing.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a DistanceService with the given API key.
func NewDistanceService(apiKey string) (*DistanceService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// Estimate returns driving distance in miles and duration between two points.
func (s *DistanceService) Estimate(ctx context.Context, from, to types.Point) (float64, time.Duration, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, 0, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return float64(leg.Distance.Meters) / metersPerMile, leg.Duration, nil
}
