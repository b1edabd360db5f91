package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/config"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// HealthPath is served without authentication
const HealthPath = "/health"

// EngineConfig holds what the HTTP engine needs besides the handlers
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Logger  *zap.Logger

	// TokenValidator enables bearer authentication on /api when set
	TokenValidator middleware.TokenValidator
	// RateLimiter limits requests per client when set
	RateLimiter *middleware.RateLimiter
	// IdempotencyStore enables the duplicate-submission guard when set
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewEngine builds the gin engine with the middleware chain and all routes
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	// Tracing runs before the request logger so log lines carry the trace id
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if h.Health != nil {
		engine.GET(HealthPath, h.Health.Health)
	}

	var api []gin.HandlerFunc
	if cfg.TokenValidator != nil {
		api = append(api, middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			Validator: cfg.TokenValidator,
			Logger:    log,
		}))
	}
	if cfg.RateLimiter != nil {
		api = append(api, middleware.RateLimit(cfg.RateLimiter))
	}
	if cfg.IdempotencyStore != nil {
		api = append(api, middleware.DuplicateSubmissionGuard(cfg.IdempotencyStore, cfg.IdempotencyTTL, log))
	}

	r := NewRouter(engine)
	groups := []*DomainGroup{
		FinancialReportRoutes(h.Reports, h.Settlements),
		AttachmentRoutes(h.Attachments),
		InvestorRoutes(h.Investors),
	}
	routes := 0
	for _, g := range groups {
		g.Use(api...)
		r.Register(g)
		routes += g.Count()
	}
	r.Setup()

	log.Info("HTTP routes registered", zap.Int("routes", routes), zap.Int("groups", len(groups)))
	return engine
}

func corsConfig(http config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(http.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = http.CORSAllowOrigins
	}
	if len(http.CORSAllowMethods) > 0 {
		cors.AllowMethods = http.CORSAllowMethods
	}
	if len(http.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = http.CORSAllowHeaders
	}
	return cors
}
