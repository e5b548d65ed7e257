package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/forecast"
	"github.com/andresuchdata/warehouseiq/internal/reconcile"
)

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNoSpikeSignal):
		status = http.StatusNotFound
	case errors.Is(err, forecast.ErrInvalidScore), errors.Is(err, reconcile.ErrInvalidPrice):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}
