// README: Recommendation text for optimization runs, optionally expanded by an AI narrative.
package routing

import (
	"context"
	"fmt"
	"strings"
)

func (s *Service) buildRecommendations(ctx context.Context, opportunities []Opportunity, sum Summary) []string {
	if len(opportunities) == 0 {
		return []string{"No chaining opportunities in this window."}
	}

	recs := []string{
		fmt.Sprintf("%d chaining opportunities found; projected savings of %.1f deadhead miles and %d unit-shifts.",
			sum.OpportunityCount, sum.TotalMilesSaved, sum.TotalUnitsSaved),
	}
	for _, o := range opportunities {
		recs = append(recs, fmt.Sprintf(
			"%s route over %d requests: %.1f mi saved, score %.0f, projected revenue increase %d %s.",
			o.RouteType, len(o.RequestIDs), o.MilesSaved, o.OptimizationScore,
			o.RevenueIncrease.Amount, o.RevenueIncrease.Currency,
		))
	}

	if s.rec != nil {
		narrative, err := s.rec.Narrative(ctx, strings.Join(recs, "\n"))
		if err != nil {
			// Narrative is advisory; a provider hiccup never fails the run.
			s.log.Warn().Err(err).Msg("recommendation narrative failed")
		} else if narrative != "" {
			recs = append(recs, narrative)
		}
	}
	return recs
}
