// README: Chaining analyzer — greedy grouping of pending requests into route opportunities.
package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"medtransit/internal/config"
	"medtransit/internal/modules/hospital"
	"medtransit/internal/modules/pricing"
	"medtransit/internal/types"
)

var (
	ErrBadWindow = errors.New("invalid optimization window")
)

// RequestSource is the Hospital partition view the analyzer needs.
type RequestSource interface {
	PendingRequests(ctx context.Context, from, to time.Time, f hospital.PendingFilter) ([]hospital.TransportRequest, error)
}

// FacilitySource resolves facility ids to records. Always a second lookup:
// requests carry ids only, never joined facility rows.
type FacilitySource interface {
	GetFacility(ctx context.Context, id types.ID) (*hospital.Facility, error)
}

// Recommender optionally turns an optimization digest into operator-facing
// narrative text. Nil disables it.
type Recommender interface {
	Narrative(ctx context.Context, digest string) (string, error)
}

type Service struct {
	requests   RequestSource
	facilities FacilitySource
	dist       DistanceEstimator
	pricing    *pricing.Service
	rec        Recommender
	cfg        config.ChainingConfig
	log        zerolog.Logger
}

func NewService(
	requests RequestSource,
	facilities FacilitySource,
	dist DistanceEstimator,
	pricing *pricing.Service,
	rec Recommender,
	cfg config.ChainingConfig,
	log zerolog.Logger,
) *Service {
	return &Service{
		requests:   requests,
		facilities: facilities,
		dist:       dist,
		pricing:    pricing,
		rec:        rec,
		cfg:        cfg,
		log:        log,
	}
}

// candidate is one request with its leg resolved against the facility records.
type candidate struct {
	req      hospital.TransportRequest
	origin   *hospital.Facility
	dest     *hospital.Facility
	legMiles float64
	legDur   time.Duration
	revenue  types.Money
}

// OptimizeRoutes scans pending requests in the window and greedily groups
// temporally/spatially adjacent ones into chained opportunities.
//
// This is an order-dependent heuristic, not an exact solver: candidates are
// walked in priority-then-pickup order, each request joins the current chain
// if the connecting deadhead fits the constraints, and no alternative
// groupings are searched. The walk order is also the stop sequencing.
func (s *Service) OptimizeRoutes(ctx context.Context, req OptimizeRequest) (OptimizeResponse, error) {
	if req.WindowStart.IsZero() || req.WindowEnd.IsZero() || !req.WindowEnd.After(req.WindowStart) {
		return OptimizeResponse{}, ErrBadWindow
	}

	pending, err := s.requests.PendingRequests(ctx, req.WindowStart, req.WindowEnd, hospital.PendingFilter{
		Levels:     req.Levels,
		Priorities: req.Priorities,
		AgencyID:   req.AgencyID,
	})
	if err != nil {
		return OptimizeResponse{}, fmt.Errorf("load pending requests: %w", err)
	}

	cands, err := s.resolveCandidates(ctx, pending, req.MaxMiles)
	if err != nil {
		return OptimizeResponse{}, err
	}

	// URGENT > HIGH > MEDIUM > LOW, then earlier pickup first. Higher
	// priority and earlier requests are visited first in any chain that
	// includes them.
	sort.SliceStable(cands, func(i, j int) bool {
		ri, rj := cands[i].req.Priority.Rank(), cands[j].req.Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return cands[i].req.PickupTime().Before(cands[j].req.PickupTime())
	})

	cons := s.effectiveConstraints(req.Constraints)
	opportunities, err := s.groupCandidates(ctx, cands, cons)
	if err != nil {
		return OptimizeResponse{}, err
	}

	summary := Summary{
		WindowStart:          req.WindowStart,
		WindowEnd:            req.WindowEnd,
		RequestsConsidered:   len(cands),
		OpportunityCount:     len(opportunities),
		TotalRevenueIncrease: types.Money{Currency: "USD"},
	}
	for _, o := range opportunities {
		summary.TotalMilesSaved += o.MilesSaved
		summary.TotalUnitsSaved += o.UnitsSaved
		summary.TotalRevenueIncrease.Amount += o.RevenueIncrease.Amount
	}

	resp := OptimizeResponse{
		Opportunities:   opportunities,
		Recommendations: s.buildRecommendations(ctx, opportunities, summary),
		Summary:         summary,
	}
	return resp, nil
}

func (s *Service) resolveCandidates(ctx context.Context, pending []hospital.TransportRequest, maxMiles *float64) ([]candidate, error) {
	cache := make(map[types.ID]*hospital.Facility)
	lookup := func(id types.ID) (*hospital.Facility, error) {
		if f, ok := cache[id]; ok {
			return f, nil
		}
		f, err := s.facilities.GetFacility(ctx, id)
		if err != nil {
			return nil, err
		}
		cache[id] = f
		return f, nil
	}

	var cands []candidate
	for _, r := range pending {
		origin, err := lookup(r.OriginFacilityID)
		if errors.Is(err, hospital.ErrNotFound) {
			s.log.Debug().Str("request", string(r.ID)).Msg("skipping request with unknown origin facility")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve origin facility: %w", err)
		}
		dest, err := lookup(r.DestinationFacilityID)
		if errors.Is(err, hospital.ErrNotFound) {
			s.log.Debug().Str("request", string(r.ID)).Msg("skipping request with unknown destination facility")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve destination facility: %w", err)
		}

		c := candidate{req: r, origin: origin, dest: dest}
		if r.EstimatedMiles != nil {
			c.legMiles = *r.EstimatedMiles
			c.legDur = milesToDuration(c.legMiles, s.cfg.DeadheadAvgSpeedMph)
		} else {
			miles, dur, err := s.dist.Estimate(ctx, origin.Position, dest.Position)
			if err != nil {
				return nil, fmt.Errorf("estimate request leg: %w", err)
			}
			c.legMiles, c.legDur = miles, dur
		}
		if maxMiles != nil && c.legMiles > *maxMiles {
			continue
		}
		c.revenue = s.pricing.Projected(r.Level, r.Priority, &c.legMiles)
		cands = append(cands, c)
	}
	return cands, nil
}

func (s *Service) groupCandidates(ctx context.Context, cands []candidate, cons Constraints) ([]Opportunity, error) {
	var opportunities []Opportunity
	var group []candidate
	var deadheads []legEstimate
	var groupDur time.Duration

	flush := func() {
		if len(group) >= 2 {
			opportunities = append(opportunities, s.buildOpportunity(group, deadheads))
		}
		group, deadheads, groupDur = nil, nil, 0
	}

	for _, c := range cands {
		if len(group) == 0 {
			group = append(group, c)
			groupDur = c.legDur
			continue
		}

		prev := group[len(group)-1]
		dhMiles, dhDur, err := s.dist.Estimate(ctx, prev.dest.Position, c.origin.Position)
		if err != nil {
			return nil, fmt.Errorf("estimate deadhead leg: %w", err)
		}

		fits := dhMiles <= cons.MaxDeadheadMiles &&
			(len(group)+1)*2 <= cons.MaxStops &&
			groupDur+dhDur+c.legDur <= time.Duration(cons.MaxDurationMins)*time.Minute
		if fits {
			group = append(group, c)
			deadheads = append(deadheads, legEstimate{miles: dhMiles, dur: dhDur})
			groupDur += dhDur + c.legDur
			continue
		}

		flush()
		group = append(group, c)
		groupDur = c.legDur
	}
	flush()
	return opportunities, nil
}

type legEstimate struct {
	miles float64
	dur   time.Duration
}

func (s *Service) buildOpportunity(group []candidate, deadheads []legEstimate) Opportunity {
	var legMiles, deadheadMiles float64
	var totalTime time.Duration
	revenue := types.Money{Currency: "USD"}
	var maxSingle int64
	for _, c := range group {
		legMiles += c.legMiles
		totalTime += c.legDur
		revenue.Amount += c.revenue.Amount
		if c.revenue.Amount > maxSingle {
			maxSingle = c.revenue.Amount
		}
	}
	for _, d := range deadheads {
		deadheadMiles += d.miles
		totalTime += d.dur
	}

	optimizedMiles := legMiles + deadheadMiles
	// Baseline: each request run independently costs its own leg plus the
	// empty return leg of the unit that served it.
	baselineMiles := legMiles * 2
	milesSaved := math.Max(0, baselineMiles-optimizedMiles)

	score := 0.0
	if baselineMiles > 0 {
		score = math.Min(100, math.Max(0, milesSaved/baselineMiles*100))
	}

	geoEff := 0.0
	if optimizedMiles > 0 {
		geoEff = math.Max(0, (1-deadheadMiles/optimizedMiles)*100)
	}

	o := Opportunity{
		ID:                types.ID(uuid.NewString()),
		TotalMiles:        optimizedMiles,
		TotalTime:         totalTime,
		MilesSaved:        milesSaved,
		UnitsSaved:        int(math.Ceil(milesSaved / 50)),
		RevenuePotential:  revenue,
		RevenueIncrease:   types.Money{Amount: revenue.Amount - maxSingle, Currency: revenue.Currency},
		OptimizationScore: score,
		GeoEfficiency:     geoEff,
	}
	for _, c := range group {
		o.RequestIDs = append(o.RequestIDs, c.req.ID)
	}
	o.Stops = buildStops(group, deadheads)
	o.Window = types.TimeWindow{
		Earliest: group[0].req.PickupTime(),
		Latest:   o.Stops[len(o.Stops)-1].PlannedAt,
	}
	o.TemporalEfficiency = s.temporalEfficiency(group)
	o.Chaining = ChainingDetails{
		Type:          s.classify(group),
		DeadheadMiles: deadheadMiles,
	}
	o.RouteType = o.Chaining.Type
	if o.RouteType == ChainSpatial {
		o.RouteType = RouteChainedTrips
	}
	return o
}

// buildStops lays out the pickup/dropoff sequence in walk order. A stop is
// never planned before its own request's pickup time.
func buildStops(group []candidate, deadheads []legEstimate) []RouteStop {
	stops := make([]RouteStop, 0, len(group)*2)
	at := group[0].req.PickupTime()
	seq := 0
	for i, c := range group {
		if i > 0 {
			at = at.Add(deadheads[i-1].dur)
			if pickup := c.req.PickupTime(); at.Before(pickup) {
				at = pickup
			}
		}
		stops = append(stops, RouteStop{
			Sequence:   seq,
			Kind:       StopPickup,
			RequestID:  c.req.ID,
			FacilityID: c.origin.ID,
			Position:   c.origin.Position,
			PlannedAt:  at,
		})
		seq++
		at = at.Add(c.legDur)
		stops = append(stops, RouteStop{
			Sequence:   seq,
			Kind:       StopDropoff,
			RequestID:  c.req.ID,
			FacilityID: c.dest.ID,
			Position:   c.dest.Position,
			PlannedAt:  at,
		})
		seq++
	}
	return stops
}

// classify tags the dominant proximity criterion behind a grouping: three or
// more requests is a multi-stop chain; a pair whose second leg mirrors the
// first is a return trip; pickups packed into the temporal window make it
// temporal; otherwise the grouping was spatial.
func (s *Service) classify(group []candidate) RouteType {
	if len(group) >= 3 {
		return RouteMultiStop
	}
	a, b := group[0], group[1]
	if a.req.DestinationFacilityID == b.req.OriginFacilityID &&
		a.req.OriginFacilityID == b.req.DestinationFacilityID {
		return RouteReturnTrip
	}
	window := time.Duration(s.cfg.TemporalWindowMins) * time.Minute
	if gap := b.req.PickupTime().Sub(a.req.PickupTime()); gap >= 0 && gap <= window {
		return RouteTemporal
	}
	return ChainSpatial
}

func (s *Service) temporalEfficiency(group []candidate) float64 {
	if len(group) < 2 {
		return 0
	}
	window := time.Duration(s.cfg.TemporalWindowMins) * time.Minute
	within := 0
	for i := 1; i < len(group); i++ {
		gap := group[i].req.PickupTime().Sub(group[i-1].req.PickupTime())
		if gap < 0 {
			gap = -gap
		}
		if gap <= window {
			within++
		}
	}
	return float64(within) / float64(len(group)-1) * 100
}

func (s *Service) effectiveConstraints(c *Constraints) Constraints {
	out := Constraints{
		MaxStops:         s.cfg.MaxStops,
		MaxDeadheadMiles: s.cfg.MaxDeadheadMiles,
		MaxDurationMins:  s.cfg.MaxRouteDurationMins,
	}
	if c == nil {
		return out
	}
	if c.MaxStops > 0 {
		out.MaxStops = c.MaxStops
	}
	if c.MaxDeadheadMiles > 0 {
		out.MaxDeadheadMiles = c.MaxDeadheadMiles
	}
	if c.MaxDurationMins > 0 {
		out.MaxDurationMins = c.MaxDurationMins
	}
	return out
}

func milesToDuration(miles, avgSpeedMph float64) time.Duration {
	if avgSpeedMph <= 0 {
		avgSpeedMph = 40
	}
	return time.Duration(miles / avgSpeedMph * float64(time.Hour))
}
