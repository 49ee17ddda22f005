package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/api/auth"
	"github.com/samirwankhede/hotel-insights/internal/api/dashboard"
	"github.com/samirwankhede/hotel-insights/internal/config"
	"github.com/samirwankhede/hotel-insights/internal/middleware"
	authService "github.com/samirwankhede/hotel-insights/internal/service/auth"
)

// Dependencies are the services behind the HTTP routes. Auth and RateLimit
// may be nil; without Auth the login route is not mounted and admin tokens
// are trusted as issued.
type Dependencies struct {
	Dashboards dashboard.Provider
	Auth       *authService.AuthService
	RateLimit  *redis.Client
}

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(r *gin.Engine, log *zap.Logger, cfg config.Config, deps Dependencies) {
	r.Use(middleware.MetricsMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Hotel Insights",
			"description": "Operational and revenue metrics for hotel reservations: booking stats, monthly revenue, alerts and recent activity.",
			"version":     "1.0.0",
			"docs":        "/docs",
			"endpoints":   []string{"/v1/health", "/v1/auth/login", "/admin/dashboard", "/metrics"},
		})
	})
	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterDocs(r)

	if deps.RateLimit != nil {
		r.Use(middleware.HybridRateLimit(deps.RateLimit, cfg.RateLimitRPS, cfg.RateLimitBurst))
	} else {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	var checker middleware.AdminChecker
	if deps.Auth != nil {
		checker = deps.Auth
		auth.NewAuthHandler(log, deps.Auth).Register(r)
	} else {
		log.Warn("admin user store unavailable, login disabled")
	}
	dashboard.NewDashboardHandler(log, deps.Dashboards, cfg.JWTSigningSecret, checker).Register(r)
}
