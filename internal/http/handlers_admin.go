// README: Transport Center administration handlers (agency registry).
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtransit/internal/modules/center"
	"medtransit/internal/types"
)

type registerAgencyBody struct {
	ExternalID   types.ID `json:"external_id"`
	Name         string   `json:"name"`
	ContactEmail string   `json:"contact_email"`
}

func (s *Server) handleRegisterAgency(c *gin.Context) {
	var body registerAgencyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	id, err := s.registry.Register(c.Request.Context(), center.RegisterCommand{
		ExternalID:   body.ExternalID,
		Name:         body.Name,
		ContactEmail: body.ContactEmail,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleListAgencies(c *gin.Context) {
	agencies, err := s.registry.ListActive(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agencies)
}
