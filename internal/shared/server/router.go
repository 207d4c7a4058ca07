package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"offer-ranker/internal/shared/config"
	"offer-ranker/internal/shared/metrics"
	"offer-ranker/internal/shared/server/middleware"
	"offer-ranker/internal/shared/server/respond"
	"offer-ranker/internal/shared/storage/db"
)

// RouteRegistrar is implemented by feature handlers.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// PublicRouteRegistrar is implemented by handlers with routes that need no
// caller identity.
type PublicRouteRegistrar interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// RouterDeps holds what NewRouter wires together.
type RouterDeps struct {
	Config   config.Config
	DB       *sql.DB
	Handlers []RouteRegistrar
	Limiter  *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	if deps.Config.MetricsEnabled {
		r.GET("/metrics", metrics.Handler())
	}

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(deps.DB))

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:    middleware.DefaultRules(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst),
		GroupFor: middleware.GroupByRoute,
		Limiter:  deps.Limiter,
	})

	public := api.Group("", limit)
	private := api.Group("", middleware.Identity(), limit)
	for _, h := range deps.Handlers {
		if p, ok := h.(PublicRouteRegistrar); ok {
			p.RegisterPublicRoutes(public)
		}
		h.RegisterRoutes(private)
	}

	return r
}

func healthHandler(database *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage := "memory"
		if database != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx, database, 2*time.Second); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "unavailable", "database unreachable", nil)
				return
			}
			storage = "postgres"
		}
		respond.OK(c, gin.H{"ok": true, "storage": storage})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
