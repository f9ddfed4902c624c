package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

// requestLogger logs one line per request with method, path, status and
// latency.  Health probes are logged at debug to keep the info stream quiet.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("latency", time.Since(start)),
			logging.String("client_ip", c.ClientIP()),
		}
		switch path {
		case "/healthz", "/readyz", "/metrics":
			logger.Debug("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
