// README: Agency ranker — orchestrates scorer calls across eligible agencies.
package matching

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"medtransit/internal/config"
	"medtransit/internal/modules/ems"
)

var ErrBadCriteria = errors.New("invalid matching criteria")

// AgencySource is the EMS partition view the ranker needs.
type AgencySource interface {
	AgenciesWithUnits(ctx context.Context, f ems.AgencyFilter) ([]ems.Agency, error)
}

type Service struct {
	agencies AgencySource
	scorer   *Scorer
	cfg      config.MatchingConfig
	log      zerolog.Logger
}

func NewService(agencies AgencySource, scorer *Scorer, cfg config.MatchingConfig, log zerolog.Logger) *Service {
	return &Service{agencies: agencies, scorer: scorer, cfg: cfg, log: log}
}

// FindMatches scores and ranks candidate agencies for one request. The result
// is sorted by non-increasing score and truncated to the configured maximum;
// zero-score entries are retained (floor-at-zero, not dropped).
//
// A lookup failure degrades to an empty candidate list instead of an error so
// a transient partition outage does not fail the whole request flow. Callers
// can distinguish "no candidates" from "lookup failed" by the log, not the
// return — ranking is advisory.
func (s *Service) FindMatches(ctx context.Context, c Criteria) (RankResponse, error) {
	if err := validate(c); err != nil {
		return RankResponse{}, err
	}

	all, err := s.agencies.AgenciesWithUnits(ctx, ems.AgencyFilter{OnlyActive: true})
	if err != nil {
		s.log.Warn().Err(err).Msg("agency lookup failed, returning empty match set")
		return RankResponse{Results: []Result{}}, nil
	}

	// Eligibility: at least one active unit. Agencies failing this are
	// excluded outright, not floor-scored.
	eligible := all[:0:0]
	for _, a := range all {
		if len(a.ActiveUnits()) > 0 {
			eligible = append(eligible, a)
		}
	}

	// Prefer agencies with an AVAILABLE unit of the required level. When
	// none exists, fall back to every eligible agency and tag the response
	// degraded so callers can assert on it.
	candidates := eligible[:0:0]
	for _, a := range eligible {
		if a.FirstAvailable(c.Level) != nil {
			candidates = append(candidates, a)
		}
	}
	degraded := false
	if len(candidates) == 0 {
		candidates = eligible
		degraded = len(eligible) > 0
	}

	results := make([]Result, 0, len(candidates))
	for _, a := range candidates {
		results = append(results, s.scorer.Score(a, c))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}
	return RankResponse{Results: results, Degraded: degraded}, nil
}

func validate(c Criteria) error {
	if !c.Level.Valid() {
		return ErrBadCriteria
	}
	if c.OriginFacilityID == "" || c.DestinationFacilityID == "" {
		return ErrBadCriteria
	}
	if c.OriginFacilityID == c.DestinationFacilityID {
		return ErrBadCriteria
	}
	if !c.Priority.Valid() {
		return ErrBadCriteria
	}
	if c.EstimatedMiles != nil && *c.EstimatedMiles < 0 {
		return ErrBadCriteria
	}
	return nil
}
