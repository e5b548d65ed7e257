package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/service"
)

const csvContentType = "text/csv; charset=utf-8"

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func parseFilter(c *gin.Context) domain.InventoryFilter {
	return domain.InventoryFilter{
		Brand:    strings.TrimSpace(c.Query("brand")),
		Category: strings.TrimSpace(c.Query("category")),
		Location: strings.TrimSpace(c.Query("location")),
	}
}

func (h *InventoryHandler) GetDashboardMetrics(c *gin.Context) {
	metrics, err := h.service.DashboardMetrics(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch dashboard metrics", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *InventoryHandler) GetMatrix(c *gin.Context) {
	matrix, err := h.service.InventoryMatrix(c.Request.Context(), parseFilter(c))
	if err != nil {
		respondError(c, "failed to fetch inventory matrix", err)
		return
	}

	c.JSON(http.StatusOK, matrix)
}

func (h *InventoryHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.service.InventoryMetrics(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch inventory metrics", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *InventoryHandler) GetReorderReport(c *gin.Context) {
	report, err := h.service.ReorderReport(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch reorder report", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *InventoryHandler) DownloadMatrix(c *gin.Context) {
	filter := parseFilter(c)
	h.sendCSV(c, "inventory_matrix.csv", "failed to export inventory matrix", func(ctx context.Context, w io.Writer) error {
		return h.service.ExportMatrix(ctx, filter, w)
	})
}

func (h *InventoryHandler) DownloadReorderReport(c *gin.Context) {
	h.sendCSV(c, "reorder_report.csv", "failed to export reorder report", h.service.ExportReorder)
}

// sendCSV buffers the export so an error can still produce a JSON response.
func (h *InventoryHandler) sendCSV(c *gin.Context, filename, message string, export func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := export(c.Request.Context(), &buf); err != nil {
		respondError(c, message, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}
