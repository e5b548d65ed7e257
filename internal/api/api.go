package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/warehouseiq/internal/api/handlers"
	"github.com/andresuchdata/warehouseiq/internal/api/middleware"
	"github.com/andresuchdata/warehouseiq/internal/service"
)

type Services struct {
	InventoryService *service.InventoryService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil || services.InventoryService == nil {
		return router
	}

	inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
	dashboardGroup := apiGroup.Group("/dashboard")
	{
		dashboardGroup.GET("/metrics", inventoryHandler.GetDashboardMetrics)
		dashboardGroup.GET("/reorder-report", inventoryHandler.DownloadReorderReport)
	}

	matrixGroup := apiGroup.Group("/inventory-matrix")
	{
		matrixGroup.GET("", inventoryHandler.GetMatrix)
		matrixGroup.GET("/metrics", inventoryHandler.GetMetrics)
		matrixGroup.GET("/reorder-report", inventoryHandler.GetReorderReport)
		matrixGroup.GET("/download", inventoryHandler.DownloadMatrix)
	}

	demandHandler := handlers.NewDemandMapHandler(services.InventoryService)
	demandGroup := apiGroup.Group("/demand-map")
	{
		demandGroup.GET("/spikes", demandHandler.GetSpikes)
		demandGroup.POST("/region-details", demandHandler.GetRegionDetails)
		demandGroup.GET("/summary-cards", demandHandler.GetSummaryCards)
		demandGroup.GET("/geo-overlay", demandHandler.GetGeoOverlay)
	}

	eventHandler := handlers.NewEventHandler(services.InventoryService)
	eventGroup := apiGroup.Group("/event-estimator")
	{
		eventGroup.POST("/calculate", eventHandler.Calculate)
		eventGroup.GET("/calendar", eventHandler.GetCalendar)
	}

	pricingHandler := handlers.NewPricingHandler(services.InventoryService)
	apiGroup.POST("/pricing/analyze", pricingHandler.Analyze)

	return router
}

var defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// corsConfig allows the dashboard dev server unless origins are configured.
// A "*" entry accepts any origin while still allowing credentials.
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins, allowAll := normalizeAllowedOrigins(allowedOrigins)
	switch {
	case allowAll:
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(string) bool { return true }
	case len(origins) > 0:
		cfg.AllowOrigins = origins
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
