package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forgefolio/internal/analytics"
	"forgefolio/internal/portfolio"
	"forgefolio/internal/services/health"
	"forgefolio/internal/shared/config"
	"forgefolio/internal/shared/metrics"
	"forgefolio/internal/shared/server/middleware"
	"forgefolio/internal/shared/server/respond"
	"forgefolio/internal/web"
)

const (
	rateGroupDefault  = "DEFAULT"
	rateGroupGenerate = "GENERATE"
	rateGroupImport   = "IMPORT"
)

// RouterDeps holds the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	PortfolioHandler *portfolio.Handler
	AnalyticsHandler *analytics.Handler
	Limiter          *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Generation and import share the configured rate but keep separate buckets.
	costly := middleware.RateLimitRule{
		Rate:  cfg.GenerateRatePerMin / 60.0,
		Burst: cfg.GenerateRateBurst,
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroupFor,
			Limiter:      deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupGenerate: costly,
				rateGroupImport:   costly,
			},
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())
	web.RegisterRoutes(r)

	if deps.PortfolioHandler != nil {
		r.POST("/generate", deps.PortfolioHandler.Generate)
		deps.PortfolioHandler.RegisterRoutes(r)
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found")
	})

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return rateGroupDefault
	}
	switch c.FullPath() {
	case "/generate":
		return rateGroupGenerate
	case "/profile/import":
		return rateGroupImport
	}
	return rateGroupDefault
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
