// README: HTTP helper utilities for error mapping.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medtransit/internal/modules/center"
	"medtransit/internal/modules/hospital"
	"medtransit/internal/modules/matching"
	"medtransit/internal/modules/routing"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hospital.ErrBadRequest),
		errors.Is(err, hospital.ErrSameFacility),
		errors.Is(err, center.ErrBadRequest),
		errors.Is(err, matching.ErrBadCriteria),
		errors.Is(err, routing.ErrBadWindow):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, hospital.ErrNotFound), errors.Is(err, center.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, hospital.ErrInvalidState), errors.Is(err, hospital.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
