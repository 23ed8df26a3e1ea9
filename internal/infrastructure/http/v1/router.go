// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops/internal/domain/assets"
	"fieldops/internal/domain/audit"
	"fieldops/internal/domain/auth"
	"fieldops/internal/domain/clients"
	"fieldops/internal/domain/meters"
	"fieldops/internal/domain/tickets"
	"fieldops/internal/infrastructure/http/v1/handlers"
	"fieldops/internal/infrastructure/http/v1/middleware"
	"fieldops/internal/infrastructure/metrics"
	"fieldops/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	// Pool is the database connection pool (used by health checks).
	Pool *pgxpool.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.TokenValidator

	// MetricsEnabled exposes /metrics and per-route instrumentation.
	MetricsEnabled bool

	AuthService   *auth.Service
	ClientService *clients.Service
	AssetService  *assets.Service
	TicketService *tickets.Service
	MeterService  *meters.Service
	AuditLog      audit.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.MetricsEnabled {
		router.GET("/metrics", metrics.Handler())
	}

	authHandler := handlers.NewAuthHandler(cfg.AuthService)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Public auth endpoints
		v1.POST("/auth/login", authHandler.Login)

		// Everything else requires a valid token
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		adminOnly := middleware.RequireRole(auth.RoleAdmin)

		protected.POST("/auth/register", adminOnly, authHandler.Register)
		protected.POST("/auth/password", authHandler.ChangePassword)

		registerClientRoutes(protected, cfg, adminOnly)
		registerAssetRoutes(protected, cfg, adminOnly)
		registerTicketRoutes(protected, cfg)
		registerAuditRoutes(protected, cfg, adminOnly)
	}

	return router
}

func registerClientRoutes(rg *gin.RouterGroup, cfg RouterConfig, adminOnly gin.HandlerFunc) {
	handler := handlers.NewClientHandler(cfg.ClientService)
	assetHandler := handlers.NewAssetHandler(cfg.AssetService)

	group := rg.Group("/clients")
	{
		group.POST("", handler.Create)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.POST("/:id/quota/reset", adminOnly, handler.ResetQuota)
		group.POST("/:id/sites", handler.AddSite)
		group.GET("/:id/sites", handler.ListSites)
		group.DELETE("/:id/sites/:siteId", handler.RemoveSite)
		group.GET("/:id/assets", assetHandler.ListByClient)
	}
}

func registerAssetRoutes(rg *gin.RouterGroup, cfg RouterConfig, adminOnly gin.HandlerFunc) {
	handler := handlers.NewAssetHandler(cfg.AssetService)
	meterHandler := handlers.NewMeterHandler(cfg.MeterService)

	group := rg.Group("/assets")
	{
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", adminOnly, handler.Delete)
		group.POST("/:id/readings", meterHandler.Record)
		group.GET("/:id/readings", meterHandler.History)
	}
}

func registerTicketRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewTicketHandler(cfg.TicketService)

	group := rg.Group("/tickets")
	{
		group.POST("", handler.Create)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
	}
}

func registerAuditRoutes(rg *gin.RouterGroup, cfg RouterConfig, adminOnly gin.HandlerFunc) {
	if cfg.AuditLog == nil {
		return
	}
	handler := handlers.NewAuditHandler(cfg.AuditLog)
	rg.GET("/audit/:entity/:id", adminOnly, handler.History)
}
