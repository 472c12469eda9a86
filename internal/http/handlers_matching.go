// README: Handlers for the matching and route-optimization endpoints.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtransit/internal/modules/matching"
	"medtransit/internal/modules/report"
	"medtransit/internal/modules/routing"
	"medtransit/internal/types"
)

type findMatchesRequest struct {
	Level                 types.TransportLevel `json:"transport_level"`
	OriginFacilityID      types.ID             `json:"origin_facility_id"`
	DestinationFacilityID types.ID             `json:"destination_facility_id"`
	Priority              types.Priority       `json:"priority"`
	SpecialRequirements   *string              `json:"special_requirements,omitempty"`
	EstimatedMiles        *float64             `json:"estimated_miles,omitempty"`
	Window                *types.TimeWindow    `json:"window,omitempty"`
}

func (s *Server) handleFindMatches(c *gin.Context) {
	var req findMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := s.matching.FindMatches(c.Request.Context(), matching.Criteria{
		Level:                 req.Level,
		OriginFacilityID:      req.OriginFacilityID,
		DestinationFacilityID: req.DestinationFacilityID,
		Priority:              req.Priority,
		SpecialRequirements:   req.SpecialRequirements,
		EstimatedMiles:        req.EstimatedMiles,
		Window:                req.Window,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleOptimizeRoutes(c *gin.Context) {
	var req routing.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := s.routing.OptimizeRoutes(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRouteReport(c *gin.Context) {
	var opportunity routing.Opportunity
	if err := c.ShouldBindJSON(&opportunity); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if len(opportunity.RequestIDs) < 2 {
		writeError(c, http.StatusBadRequest, "opportunity must reference at least two requests")
		return
	}
	c.JSON(http.StatusOK, report.BuildReport(opportunity))
}
