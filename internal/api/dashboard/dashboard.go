package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/samirwankhede/hotel-insights/internal/middleware"
	dashboardService "github.com/samirwankhede/hotel-insights/internal/service/dashboard"
)

const maxLimit = 100

// Provider computes dashboards for the handlers.
type Provider interface {
	Dashboard(ctx context.Context, recentLimit int) (*dashboardService.Result, error)
	Refresh(ctx context.Context) (*dashboardService.Result, error)
}

type DashboardHandler struct {
	log     *zap.Logger
	svc     Provider
	secret  string
	checker jwtMiddleware.AdminChecker
}

func NewDashboardHandler(log *zap.Logger, svc Provider, secret string, checker jwtMiddleware.AdminChecker) *DashboardHandler {
	return &DashboardHandler{log: log, svc: svc, secret: secret, checker: checker}
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	g := r.Group("/admin/dashboard")
	g.Use(jwtMiddleware.AdminMiddleware(h.secret, h.checker))
	{
		g.GET("", h.dashboard)
		g.GET("/stats", h.section(func(res *dashboardService.Result) any { return res.Stats }))
		g.GET("/revenue", h.section(func(res *dashboardService.Result) any { return res.RevenueSeries }))
		g.GET("/alerts", h.section(func(res *dashboardService.Result) any { return res.Alerts }))
		g.GET("/operations", h.section(func(res *dashboardService.Result) any { return res.Operations }))
		g.GET("/recent", h.recent)
		g.POST("/refresh", h.refresh)
	}
}

func (h *DashboardHandler) dashboard(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	res, err := h.svc.Dashboard(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *DashboardHandler) recent(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	res, err := h.svc.Dashboard(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, res, res.RecentBookings)
}

func (h *DashboardHandler) section(pick func(*dashboardService.Result) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.svc.Dashboard(c.Request.Context(), dashboardService.DefaultRecentLimit)
		if err != nil {
			h.fail(c, err)
			return
		}
		respond(c, res, pick(res))
	}
}

func (h *DashboardHandler) refresh(c *gin.Context) {
	res, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("Dashboard refreshed on request", zap.String("uid", c.GetString("uid")))
	c.JSON(http.StatusOK, res)
}

func (h *DashboardHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, dashboardService.ErrFeedUnavailable) {
		h.log.Warn("Reservation feed unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "reservation feed unavailable"})
		return
	}
	h.log.Error("Dashboard request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func respond(c *gin.Context, res *dashboardService.Result, data any) {
	c.JSON(http.StatusOK, gin.H{
		"data":        data,
		"generatedAt": res.GeneratedAt,
		"fetchedAt":   res.FetchedAt,
		"stale":       res.Stale,
	})
}

// parseLimit reads ?limit, defaulting to 10 and clamping to [0, 100]. It
// writes the 400 response itself when the value is not an integer.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return dashboardService.DefaultRecentLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return 0, false
	}
	return min(max(n, 0), maxLimit), true
}
