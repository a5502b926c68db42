package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pharmacy-inventory/internal/common/metrics"
)

// corsMiddleware mirrors the permissive policy the dashboard frontend
// expects. The allowed origin is configurable; "*" is the default.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	origin := s.cfg.Server.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestMiddleware records per-route latency and access logs.
func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)

		metrics.HTTPRequestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
		s.logger.Debug("request handled", map[string]interface{}{
			"method":   c.Request.Method,
			"route":    route,
			"status":   status,
			"duration": elapsed.String(),
		})
	}
}
