package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medcompare/fetcher"
	"medcompare/models"
	"medcompare/registry"
)

// Health returns the handler for GET /api/v1/health.
//
// Reports session pool utilisation and degrades status when > 80% of
// sessions are active.
func Health(f fetcher.Fetcher, reg *registry.Registry, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := f.Stats()

		status := "healthy"
		if stats.MaxSessions > 0 && stats.ActiveSessions > int(float64(stats.MaxSessions)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Engine:    f.Name(),
			PoolStats: stats,
			Targets:   reg.Len(),
			Version:   "0.1.0",
		})
	}
}
