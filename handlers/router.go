package handlers

import (
	"net/http"

	"ordermatch-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig holds everything the HTTP router needs
type RouterConfig struct {
	ComparisonService *service.ComparisonService
	MaxUploadBytes    int64
	Limiter           *rate.Limiter       // nil disables rate limiting
	Gatherer          prometheus.Gatherer // nil disables /metrics
}

// NewRouter builds the gin engine with all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	comparisonHandler := NewComparisonHandler(cfg.ComparisonService, cfg.MaxUploadBytes)
	documentHandler := NewDocumentHandler(cfg.ComparisonService)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	// API routes
	api := r.Group("/api")
	if cfg.Limiter != nil {
		api.Use(RateLimit(cfg.Limiter))
	}
	{
		api.GET("/comparisons", comparisonHandler.ListComparisons)
		api.POST("/comparisons", comparisonHandler.CreateComparison)
		api.POST("/comparisons/records", comparisonHandler.CompareRecords)
		api.GET("/comparisons/:id", comparisonHandler.GetComparison)
		api.GET("/comparisons/:id/documents", comparisonHandler.ListDocuments)

		api.GET("/documents/:id", documentHandler.GetDocument)
	}

	return r
}
