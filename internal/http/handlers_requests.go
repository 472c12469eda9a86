// README: Handlers for transport-request creation, lookup and acceptance.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtransit/internal/modules/hospital"
	"medtransit/internal/types"
)

type createRequestBody struct {
	OriginFacilityID      types.ID             `json:"origin_facility_id"`
	DestinationFacilityID types.ID             `json:"destination_facility_id"`
	Level                 types.TransportLevel `json:"transport_level"`
	Priority              types.Priority       `json:"priority"`
	SpecialRequirements   *string              `json:"special_requirements,omitempty"`
	EstimatedMiles        *float64             `json:"estimated_miles,omitempty"`
	Window                *types.TimeWindow    `json:"window,omitempty"`
}

func (s *Server) handleCreateRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	id, err := s.requests.Create(c.Request.Context(), hospital.CreateCommand{
		OriginFacilityID:      body.OriginFacilityID,
		DestinationFacilityID: body.DestinationFacilityID,
		Level:                 body.Level,
		Priority:              body.Priority,
		SpecialRequirements:   body.SpecialRequirements,
		EstimatedMiles:        body.EstimatedMiles,
		Window:                body.Window,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleGetRequest(c *gin.Context) {
	r, err := s.requests.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type acceptRequestBody struct {
	AgencyID types.ID `json:"agency_id"`
}

func (s *Server) handleAcceptRequest(c *gin.Context) {
	var body acceptRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	err := s.requests.Accept(c.Request.Context(), hospital.AcceptCommand{
		RequestID: types.ID(c.Param("id")),
		AgencyID:  body.AgencyID,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
