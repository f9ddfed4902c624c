package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/metrics"
)

// NewRouter builds the gin engine with all routes and middleware.  m may be
// nil to disable instrumentation (tests).
func NewRouter(cfg *config.Config, svc *analysis.Service, m *metrics.Metrics,
	logger logging.Logger) *gin.Engine {

	if logger == nil {
		logger = logging.NewNopLogger()
	}
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if m != nil {
		router.Use(m.GinMiddleware())
	}

	h := &handlers{
		svc:            svc,
		maxUploadBytes: cfg.Data.MaxUploadBytes,
	}

	router.GET("/healthz", healthz)
	router.GET("/readyz", readyz)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		datasets := v1.Group("/datasets")
		datasets.GET("", h.list)
		datasets.POST("", h.upload)
		datasets.POST("/sample", h.loadSample)
		datasets.POST("/chembl", h.loadChembl)
		datasets.GET("/:id", h.describe)
		datasets.POST("/:id/query", h.query)
		datasets.POST("/:id/charts", h.charts)
		datasets.DELETE("/:id", h.remove)
	}

	return router
}
