// README: Chained-route opportunity model and optimization request/response shapes.
package routing

import (
	"time"

	"medtransit/internal/types"
)

type RouteType string

const (
	RouteChainedTrips RouteType = "CHAINED_TRIPS"
	RouteReturnTrip   RouteType = "RETURN_TRIP"
	RouteMultiStop    RouteType = "MULTI_STOP"
	RouteTemporal     RouteType = "TEMPORAL"
	// ChainSpatial only appears in ChainingDetails; the opportunity itself
	// is reported as CHAINED_TRIPS in that case.
	ChainSpatial RouteType = "SPATIAL"
)

type StopKind string

const (
	StopPickup  StopKind = "PICKUP"
	StopDropoff StopKind = "DROPOFF"
)

type RouteStop struct {
	Sequence   int         `json:"sequence"`
	Kind       StopKind    `json:"kind"`
	RequestID  types.ID    `json:"request_id"`
	FacilityID types.ID    `json:"facility_id"`
	Position   types.Point `json:"position"`
	PlannedAt  time.Time   `json:"planned_at"`
}

type ChainingDetails struct {
	Type          RouteType `json:"type"`
	DeadheadMiles float64   `json:"deadhead_miles"`
}

// Opportunity is a proposed grouping of two or more transport requests into a
// single multi-stop vehicle route. Derived, never persisted here.
type Opportunity struct {
	ID                 types.ID         `json:"id"`
	RouteType          RouteType        `json:"route_type"`
	RequestIDs         []types.ID       `json:"request_ids"`
	Stops              []RouteStop      `json:"stops"`
	TotalMiles         float64          `json:"total_miles"`
	TotalTime          time.Duration    `json:"total_time"`
	MilesSaved         float64          `json:"miles_saved"`
	UnitsSaved         int              `json:"units_saved"`
	RevenuePotential   types.Money      `json:"revenue_potential"`
	RevenueIncrease    types.Money      `json:"revenue_increase"`
	OptimizationScore  float64          `json:"optimization_score"`
	Window             types.TimeWindow `json:"window"`
	GeoEfficiency      float64          `json:"geo_efficiency"`
	TemporalEfficiency float64          `json:"temporal_efficiency"`
	Chaining           ChainingDetails  `json:"chaining"`
}

// Constraints bound the greedy grouping walk. Zero values fall back to the
// configured defaults.
type Constraints struct {
	MaxStops         int     `json:"max_stops"`
	MaxDeadheadMiles float64 `json:"max_deadhead_miles"`
	MaxDurationMins  int     `json:"max_duration_mins"`
}

type OptimizeRequest struct {
	WindowStart time.Time              `json:"window_start"`
	WindowEnd   time.Time              `json:"window_end"`
	MaxMiles    *float64               `json:"max_miles,omitempty"`
	Levels      []types.TransportLevel `json:"levels,omitempty"`
	Priorities  []types.Priority       `json:"priorities,omitempty"`
	AgencyID    *types.ID              `json:"agency_id,omitempty"`
	Constraints *Constraints           `json:"constraints,omitempty"`
}

type Summary struct {
	WindowStart          time.Time   `json:"window_start"`
	WindowEnd            time.Time   `json:"window_end"`
	RequestsConsidered   int         `json:"requests_considered"`
	OpportunityCount     int         `json:"opportunity_count"`
	TotalMilesSaved      float64     `json:"total_miles_saved"`
	TotalUnitsSaved      int         `json:"total_units_saved"`
	TotalRevenueIncrease types.Money `json:"total_revenue_increase"`
}

// OptimizeResponse returns opportunities in discovery order. Callers wanting
// best-first must sort by OptimizationScore themselves.
type OptimizeResponse struct {
	Opportunities   []Opportunity `json:"opportunities"`
	Recommendations []string      `json:"recommendations"`
	Summary         Summary       `json:"summary"`
}
