package main

import (
	"context"
	"os"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/bootstrap"
	"magnetdata-service/internal/config"
	"magnetdata-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

// One-shot holiday sync: reconciles the holiday store for SYNC_COUNTRIES and
// SYNC_YEAR against the upstream source, then exits. Run it from cron or a
// scheduled job.
func main() {
	ctx := context.Background()
	logger := logx.L()
	cfg := config.Load()

	repos, closeRepos, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap repos", zap.Error(err))
	}
	defer closeRepos()

	store, closeCache, err := bootstrap.BuildCache(cfg)
	if err != nil {
		logger.Fatal("bootstrap cache", zap.Error(err))
	}
	defer closeCache()

	fetchers, err := bootstrap.BuildFetchers(cfg)
	if err != nil {
		logger.Fatal("bootstrap fetchers", zap.Error(err))
	}
	clock, err := bootstrap.BuildClock(cfg)
	if err != nil {
		logger.Fatal("bootstrap clock", zap.Error(err))
	}

	holidays := application.NewHolidayService(repos.Holidays, fetchers.Holidays, store,
		application.WithHolidayClock(clock),
		application.WithHolidayLogger(logger))

	failed := false
	for _, country := range cfg.SyncCountries {
		if err := holidays.Update(ctx, country, cfg.SyncYear); err != nil {
			logger.Error("holiday sync failed", zap.String("country", country), zap.Error(err))
			failed = true
			continue
		}
		logger.Info("holiday sync done", zap.String("country", country), zap.Int("year", cfg.SyncYear))
	}
	if failed {
		closeCache()
		closeRepos()
		os.Exit(1)
	}
}
