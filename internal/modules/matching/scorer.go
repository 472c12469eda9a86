// README: Candidate scorer — additive point model over one agency and one request.
package matching

import (
	"fmt"
	"time"

	"medtransit/internal/modules/ems"
	"medtransit/internal/modules/pricing"
	"medtransit/internal/types"
)

type Scorer struct {
	supports SupportsPredicate
	area     AreaPredicate
	hours    HoursPredicate
	pricing  *pricing.Service
	// Placeholder offset standing in for a real routing/ETA provider; the
	// returned arrival is advisory only.
	arrivalOffset time.Duration
}

func NewScorer(supports SupportsPredicate, area AreaPredicate, hours HoursPredicate, pricing *pricing.Service, arrivalOffset time.Duration) *Scorer {
	if supports == nil {
		supports = DefaultSupports()
	}
	if area == nil {
		area = DefaultArea()
	}
	if hours == nil {
		hours = DefaultHours()
	}
	return &Scorer{
		supports:      supports,
		area:          area,
		hours:         hours,
		pricing:       pricing,
		arrivalOffset: arrivalOffset,
	}
}

// Score computes the match between one agency (units and availability eagerly
// loaded) and one request. Each factor appends a signed delta and a reason;
// the raw sum may go negative but the reported score is floored at zero, and
// every reason — negative ones included — is retained for auditing.
func (s *Scorer) Score(agency ems.Agency, c Criteria) Result {
	r := Result{
		AgencyID:         agency.ID,
		AgencyName:       agency.Name,
		Unit:             selectUnit(agency, c.Level),
		EstimatedArrival: time.Now().Add(s.arrivalOffset),
		RevenuePotential: s.pricing.Projected(c.Level, c.Priority, c.EstimatedMiles),
		LongDistance:     c.EstimatedMiles != nil && *c.EstimatedMiles > longDistanceMiles,
	}

	raw := 0
	add := func(delta int, reason string) {
		raw += delta
		r.Reasons = append(r.Reasons, reason)
	}

	// An agency with no active units cannot serve anything; nothing else
	// about it is worth scoring.
	if len(agency.ActiveUnits()) == 0 {
		add(scoreNoUnits, "No units available")
		r.Score = floor(raw)
		return r
	}

	if agency.HasCapability(c.Level) {
		add(scoreCapabilityMatch, fmt.Sprintf("Has %s capable units (+%d)", c.Level, scoreCapabilityMatch))
	} else {
		add(scoreCapabilityMiss, fmt.Sprintf("No %s capable units (%d)", c.Level, scoreCapabilityMiss))
	}
	if c.SpecialRequirements != nil && *c.SpecialRequirements != "" {
		if s.supports.Supports(agency, *c.SpecialRequirements) {
			add(scoreSpecialSupport, fmt.Sprintf("Supports special requirements (+%d)", scoreSpecialSupport))
		}
	}

	if s.area.Covers(agency, c.OriginFacilityID) {
		add(scoreAreaMatch, fmt.Sprintf("Origin within service area (+%d)", scoreAreaMatch))
	} else {
		add(scoreAreaMiss, fmt.Sprintf("Origin outside service area (%d)", scoreAreaMiss))
	}
	if s.area.Covers(agency, c.DestinationFacilityID) {
		add(scoreAreaMatch, fmt.Sprintf("Destination within service area (+%d)", scoreAreaMatch))
	} else {
		add(scoreAreaMiss, fmt.Sprintf("Destination outside service area (%d)", scoreAreaMiss))
	}
	if c.EstimatedMiles != nil {
		delta, band := distanceBand(*c.EstimatedMiles)
		add(delta, fmt.Sprintf("%s distance transport (+%d)", band, delta))
	}

	add(priorityBonus(c.Priority), fmt.Sprintf("%s priority (+%d)", c.Priority, priorityBonus(c.Priority)))
	add(levelBonus(c.Level), fmt.Sprintf("%s transport level (+%d)", c.Level, levelBonus(c.Level)))

	if c.Window != nil && !c.Window.IsZero() {
		if s.hours.Compatible(agency, *c.Window) {
			add(scoreHoursMatch, fmt.Sprintf("Operating hours compatible (+%d)", scoreHoursMatch))
		} else {
			add(scoreHoursMiss, fmt.Sprintf("Operating hours incompatible (%d)", scoreHoursMiss))
		}
	}

	if r.LongDistance {
		add(scoreLongDistanceBonus, fmt.Sprintf("Long-distance transfer (+%d)", scoreLongDistanceBonus))
	}

	r.Score = floor(raw)
	return r
}

// selectUnit picks the first AVAILABLE unit matching the required level. When
// none is available the scorer still returns a sentinel out-of-service record
// rather than failing: the ranker contract is one result per eligible agency.
func selectUnit(agency ems.Agency, level types.TransportLevel) ems.UnitAvailability {
	if u := agency.FirstAvailable(level); u != nil {
		return *u.Availability
	}
	return ems.UnitAvailability{Status: ems.StatusOutOfService}
}

func distanceBand(miles float64) (int, string) {
	switch {
	case miles <= 25:
		return scoreBandNear, "Close"
	case miles <= 50:
		return scoreBandMid, "Medium"
	case miles <= 100:
		return scoreBandFar, "Regional"
	default:
		return scoreBandVeryFar, "Long"
	}
}

func floor(raw int) int {
	if raw < 0 {
		return 0
	}
	return raw
}
