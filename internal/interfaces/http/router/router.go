// Package router assembles the gin engine and versioned route groups.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopfront/exporter/internal/infrastructure/logger"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config controls engine construction
type Config struct {
	Env            string
	APIVersion     string
	TrustedProxies []string
}

// New builds a gin engine with the standard middleware chain and registers
// every registrar under the versioned API group.
func New(cfg Config, log *zap.Logger, registrars ...RouteRegistrar) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		logger.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	if len(cfg.TrustedProxies) > 0 {
		// Errors here only disable client IP resolution from forwarded headers
		_ = engine.SetTrustedProxies(cfg.TrustedProxies)
	}

	version := cfg.APIVersion
	if version == "" {
		version = "v1"
	}
	api := engine.Group("/api/" + version)
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}
