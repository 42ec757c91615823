package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"medcompare/api/handler"
	"medcompare/api/middleware"
	"medcompare/config"
	"medcompare/fetcher"
	"medcompare/registry"
	"medcompare/search"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health is intentionally outside auth so monitoring probes always work.
func NewRouter(s *search.Searcher, f fetcher.Fetcher, reg *registry.Registry, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(f, reg, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/search", handler.Search(s))

	return r
}
