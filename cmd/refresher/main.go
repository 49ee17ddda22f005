package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samirwankhede/hotel-insights/internal/config"
	"github.com/samirwankhede/hotel-insights/internal/feed"
	kafkax "github.com/samirwankhede/hotel-insights/internal/kafka"
	"github.com/samirwankhede/hotel-insights/internal/logger"
	"github.com/samirwankhede/hotel-insights/internal/mailer"
	redisx "github.com/samirwankhede/hotel-insights/internal/redis"
	dashboardService "github.com/samirwankhede/hotel-insights/internal/service/dashboard"
	mailerService "github.com/samirwankhede/hotel-insights/internal/service/mailer"
	"github.com/samirwankhede/hotel-insights/internal/service/refresher"
	"github.com/samirwankhede/hotel-insights/internal/store"
	"github.com/samirwankhede/hotel-insights/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env, "refresher")
	log.Info("refresher starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var db *store.DB
	if cfg.FeedSource == config.FeedSourcePostgres {
		var err error
		db, err = store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
	}

	source, err := feed.NewSource(log, cfg, db)
	if err != nil {
		log.Fatal("feed source", zap.Error(err))
	}

	snapshots := redisx.NewSnapshotStore(cfg.RedisAddr)
	defer snapshots.Close()
	dashboards := dashboardService.NewDashboardService(log, source, snapshots, cfg.SnapshotTTL, cfg.Location())

	// Create mailer service
	mailerSender := &mailer.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	mailerSvc := mailerService.NewMailerService(log, mailerSender, cfg.AlertEmail)

	// Create Kafka consumer and producers
	alerts := kafkax.NewProducer(cfg.KafkaBrokers, kafkax.TopicReservationAlerts)
	defer alerts.Close()
	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, "hotel-insights-refresher", kafkax.TopicReservationEvents)
	defer consumer.Close()
	dlq := kafkax.NewProducer(cfg.KafkaBrokers, kafkax.TopicReservationDLQ)
	defer dlq.Close()

	svc := refresher.NewRefresherService(log, dashboards, alerts, mailerSvc)
	listener := worker.NewEventListener(log, svc, consumer, dlq, cfg.MaxEventBatch)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svc.Run(gctx, cfg.RefreshInterval)
		return nil
	})
	g.Go(func() error {
		if err := listener.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("refresher stopped with error", zap.Error(err))
		return
	}
	log.Info("refresher stopped")
}
