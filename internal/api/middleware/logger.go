package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/metrics"
)

// Logger пишет в лог каждый HTTP запрос и считает вызовы API
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		outcome := "success"
		if status >= 400 {
			outcome = "error"
		}
		metrics.APICalls.WithLabelValues("http", route, outcome).Inc()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if status >= 500 {
			logger.Error("http request", fields...)
		} else {
			logger.Info("http request", fields...)
		}
	}
}
