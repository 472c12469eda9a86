// README: Matching candidates, criteria and the additive score model.
package matching

import (
	"time"

	"medtransit/internal/modules/ems"
	"medtransit/internal/types"
)

// Criteria describes what a transport request needs from an agency.
type Criteria struct {
	Level                 types.TransportLevel
	OriginFacilityID      types.ID
	DestinationFacilityID types.ID
	Priority              types.Priority
	SpecialRequirements   *string
	EstimatedMiles        *float64
	Window                *types.TimeWindow
}

// Result pairs one request with one candidate agency. It exists only for the
// duration of a ranking call and is never persisted.
type Result struct {
	AgencyID         types.ID             `json:"agency_id"`
	AgencyName       string               `json:"agency_name"`
	Unit             ems.UnitAvailability `json:"unit"`
	Score            int                  `json:"score"`
	Reasons          []string             `json:"reasons"`
	EstimatedArrival time.Time            `json:"estimated_arrival"`
	RevenuePotential types.Money          `json:"revenue_potential"`
	LongDistance     bool                 `json:"long_distance"`
}

// RankResponse carries the ordered candidates. Degraded marks the fallback
// where no capability-matching agency existed and all active agencies were
// scored instead, so callers can tell the two apart.
type RankResponse struct {
	Results  []Result `json:"results"`
	Degraded bool     `json:"degraded"`
}

// Score deltas. Each factor appends a signed delta plus a reason; the final
// score is floored at zero after summation.
const (
	scoreNoUnits           = -100
	scoreCapabilityMatch   = 30
	scoreCapabilityMiss    = -50
	scoreSpecialSupport    = 20
	scoreAreaMatch         = 25
	scoreAreaMiss          = -15
	scoreBandNear          = 20 // <= 25 mi
	scoreBandMid           = 15 // 26-50 mi
	scoreBandFar           = 10 // 51-100 mi
	scoreBandVeryFar       = 5  // > 100 mi
	scoreHoursMatch        = 15
	scoreHoursMiss         = -20
	scoreLongDistanceBonus = 50

	longDistanceMiles = 100
)

func priorityBonus(p types.Priority) int {
	switch p {
	case types.PriorityUrgent:
		return 30
	case types.PriorityHigh:
		return 20
	case types.PriorityMedium:
		return 10
	default:
		return 5
	}
}

func levelBonus(l types.TransportLevel) int {
	switch l {
	case types.LevelCCT:
		return 25
	case types.LevelALS:
		return 15
	default:
		return 10
	}
}
