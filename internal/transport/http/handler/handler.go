// Package handler contains the gin HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuquery/internal/app"
	"docuquery/internal/transport/http/response"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	s := c.Param(key)
	u, err := strconv.ParseUint(s, 10, 64)
	return uint(u), err
}

// writeServiceError maps service errors onto HTTP statuses and business
// codes. Anything outside the taxonomy is a 500 with the fallback message
// so internal detail never leaks to clients.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrNoContent):
		response.Error(c, http.StatusNotFound, response.CodeNoContent, err.Error())
	case errors.Is(err, app.ErrUpstreamUnavailable):
		response.Error(c, http.StatusServiceUnavailable, response.CodeUpstreamUnavailable, "upstream model unavailable")
	case errors.Is(err, app.ErrTimeout):
		response.Error(c, http.StatusGatewayTimeout, response.CodeTimeout, "operation timed out")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
