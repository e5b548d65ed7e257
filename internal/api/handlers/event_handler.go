package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/warehouseiq/internal/service"
)

type EventHandler struct {
	service *service.InventoryService
}

func NewEventHandler(service *service.InventoryService) *EventHandler {
	return &EventHandler{service: service}
}

type eventImpactRequest struct {
	Region    string   `json:"region" binding:"required"`
	EventType string   `json:"event_type" binding:"required"`
	Score     *float64 `json:"score" binding:"required"`
}

func (h *EventHandler) Calculate(c *gin.Context) {
	var req eventImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	estimate, err := h.service.EstimateEventImpact(c.Request.Context(), req.Region, req.EventType, *req.Score)
	if err != nil {
		respondError(c, "failed to estimate event impact", err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

func (h *EventHandler) GetCalendar(c *gin.Context) {
	events, err := h.service.UpcomingEvents(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch event calendar", err)
		return
	}

	c.JSON(http.StatusOK, events)
}
