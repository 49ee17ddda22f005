package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samirwankhede/hotel-insights/internal/config"
	"github.com/samirwankhede/hotel-insights/internal/feed"
	"github.com/samirwankhede/hotel-insights/internal/logger"
	"github.com/samirwankhede/hotel-insights/internal/reservations"
	"github.com/samirwankhede/hotel-insights/internal/store"
)

func main() {
	file := flag.String("file", "", "read the reservation feed from this JSON file instead of the configured source")
	limit := flag.Int("limit", 10, "number of recent bookings to include")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env, "report")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FeedTimeout+5*time.Second)
	defer cancel()

	payload, err := load(ctx, log, cfg, *file)
	if err != nil {
		log.Fatal("load reservation feed", zap.Error(err))
	}

	list, err := reservations.DecodeFeed(payload)
	if err != nil {
		log.Warn("reservation feed is not valid JSON, reporting on an empty list", zap.Error(err))
	}
	d := reservations.BuildDashboard(list, time.Now().In(cfg.Location()), min(max(*limit, 0), 100))

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(d); err != nil {
		log.Fatal("write report", zap.Error(err))
	}
}

func load(ctx context.Context, log *zap.Logger, cfg config.Config, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}

	var db *store.DB
	if cfg.FeedSource == config.FeedSourcePostgres {
		var err error
		db, err = store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
		if err != nil {
			return nil, err
		}
		defer db.Close()
	}
	source, err := feed.NewSource(log, cfg, db)
	if err != nil {
		return nil, err
	}
	return source.FetchReservations(ctx)
}
