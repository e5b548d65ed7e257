package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/warehouseiq/internal/reconcile"
	"github.com/andresuchdata/warehouseiq/internal/service"
)

type PricingHandler struct {
	service *service.InventoryService
}

func NewPricingHandler(service *service.InventoryService) *PricingHandler {
	return &PricingHandler{service: service}
}

// priceRequest keeps the dashboard's field names: walmart_price is our own
// shelf price and amazon_price the competitor's.
type priceRequest struct {
	OwnPrice        *float64 `json:"walmart_price" binding:"required"`
	CompetitorPrice *float64 `json:"amazon_price" binding:"required"`
	Elasticity      *float64 `json:"elasticity"`
}

func (h *PricingHandler) Analyze(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	elasticity := reconcile.DefaultElasticity
	if req.Elasticity != nil {
		elasticity = *req.Elasticity
	}

	analysis, err := h.service.AnalyzePrice(*req.OwnPrice, *req.CompetitorPrice, elasticity)
	if err != nil {
		respondError(c, "failed to analyze price", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
