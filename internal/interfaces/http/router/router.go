// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veo-prompt-studio/internal/app"
	"veo-prompt-studio/internal/domain/entity"
	"veo-prompt-studio/internal/interfaces/http/handler"
	"veo-prompt-studio/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	app    *app.App
}

// New 创建新的路由器
func New(a *app.App) *Router {
	if a.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		app:    a,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	cfg := r.app.Config

	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: cfg.Security.CORS.AllowedHeaders,
	}))

	if cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	cfg := r.app.Config

	var redisCheck handler.HealthChecker
	if r.app.Redis != nil {
		redisCheck = r.app.Redis
	}
	healthHandler := handler.NewHealthHandler(cfg.App.Version, redisCheck)

	r.engine.GET("/health", healthHandler.Health)
	r.engine.GET("/ready", healthHandler.Ready)
	r.engine.GET("/live", healthHandler.Live)

	// 指标端点；独立端口同样暴露
	if cfg.Observability.Metrics.Enabled {
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	rlCfg := middleware.RateLimitConfig{
		Enabled:           cfg.Security.RateLimit.Enabled,
		RequestsPerMinute: cfg.Security.RateLimit.RequestsPerMinute,
		Burst:             cfg.Security.RateLimit.Burst,
	}
	limiter := middleware.RateLimit(rlCfg, middleware.NewTokenBucketLimiter(rlCfg))

	RegisterV1Routes(
		r.engine.Group("/v1"),
		limiter,
		handler.NewSessionHandler(r.app.Sessions),
		handler.NewSlotHandler(r.app.Sessions),
		handler.NewCredentialHandler(r.app.Credentials),
		handler.NewStyleHandler(entity.ParseLanguage(cfg.Studio.DefaultLanguage)),
	)
}
