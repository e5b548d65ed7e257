package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/warehouseiq/internal/service"
)

type DemandMapHandler struct {
	service *service.InventoryService
}

func NewDemandMapHandler(service *service.InventoryService) *DemandMapHandler {
	return &DemandMapHandler{service: service}
}

type regionDetailsRequest struct {
	Region string `json:"region" binding:"required"`
}

func (h *DemandMapHandler) GetSpikes(c *gin.Context) {
	cards, err := h.service.Spikes(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch demand spikes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"regions": cards})
}

func (h *DemandMapHandler) GetRegionDetails(c *gin.Context) {
	var req regionDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	details, err := h.service.RegionDetails(c.Request.Context(), req.Region)
	if err != nil {
		respondError(c, "failed to fetch region details", err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *DemandMapHandler) GetSummaryCards(c *gin.Context) {
	cards, err := h.service.SummaryCards(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch summary cards", err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *DemandMapHandler) GetGeoOverlay(c *gin.Context) {
	entries, err := h.service.GeoOverlay(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch geo overlay", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
