package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samirwankhede/hotel-insights/internal/api"
	"github.com/samirwankhede/hotel-insights/internal/config"
	"github.com/samirwankhede/hotel-insights/internal/feed"
	"github.com/samirwankhede/hotel-insights/internal/logger"
	"github.com/samirwankhede/hotel-insights/internal/middleware"
	redisx "github.com/samirwankhede/hotel-insights/internal/redis"
	authService "github.com/samirwankhede/hotel-insights/internal/service/auth"
	dashboardService "github.com/samirwankhede/hotel-insights/internal/service/dashboard"
	"github.com/samirwankhede/hotel-insights/internal/store"
	storeUsers "github.com/samirwankhede/hotel-insights/internal/store/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env, "server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := api.Dependencies{}

	// The API still serves an HTTP-sourced dashboard when Postgres is down.
	db, err := store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Warn("db init failed", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.Fatal("schema migration failed", zap.Error(err))
		}
		usersRepo := storeUsers.NewUsersRepository(db, log)
		created, err := config.CreateDefaultAdmin(ctx, &cfg, usersRepo)
		if err != nil {
			log.Error("Failed to create default admin user", zap.Error(err))
		} else if created {
			log.Info("Default admin user created", zap.String("email", cfg.AdminEmail))
		}
		deps.Auth = authService.NewAuthService(log, usersRepo, cfg.JWTSigningSecret)
	}

	source, err := feed.NewSource(log, cfg, db)
	if err != nil {
		log.Fatal("feed source", zap.Error(err))
	}

	snapshots := redisx.NewSnapshotStore(cfg.RedisAddr)
	defer snapshots.Close()
	deps.RateLimit = snapshots.GetClient()
	deps.Dashboards = dashboardService.NewDashboardService(log, source, snapshots, cfg.SnapshotTTL, cfg.Location())

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.RegisterRoutes(r, log, cfg, deps)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.FeedTimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
		return
	}
	log.Info("server exited")
}
