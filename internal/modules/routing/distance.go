// README: Distance-lookup collaborator contract and the haversine placeholder.
package routing

import (
	"context"
	"time"

	"medtransit/internal/geo"
	"medtransit/internal/types"
)

// DistanceEstimator supplies point-to-point road distance and travel time.
// Implementations are advisory collaborators, not turn-by-turn routers.
type DistanceEstimator interface {
	Estimate(ctx context.Context, from, to types.Point) (miles float64, duration time.Duration, err error)
}

// HaversineEstimator is the default placeholder: great-circle miles at a flat
// average speed. Stands in until a real road-distance provider is wired.
type HaversineEstimator struct {
	AvgSpeedMph float64
}

func (e HaversineEstimator) Estimate(_ context.Context, from, to types.Point) (float64, time.Duration, error) {
	miles := geo.Miles(from, to)
	speed := e.AvgSpeedMph
	if speed <= 0 {
		speed = 40
	}
	return miles, time.Duration(miles / speed * float64(time.Hour)), nil
}
